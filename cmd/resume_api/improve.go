package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hikinghacker/resume-improvement-api/internal/config"
	"github.com/hikinghacker/resume-improvement-api/internal/observability"
	"github.com/hikinghacker/resume-improvement-api/internal/pipeline"
)

var (
	improveFile     string
	improveProvider string
	improveFlat     bool
	improveVerbose  bool
)

var improveCmd = &cobra.Command{
	Use:   "improve [resume text]",
	Short: "Improve a resume once and print the structured result",
	Long: `Run one resume through the improvement pipeline and print the extracted
dataset as JSON. The resume text is taken from the argument, from --file,
or from stdin when neither is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImprove,
}

func init() {
	improveCmd.Flags().StringVarP(&improveFile, "file", "f", "", "Path to a resume text file")
	improveCmd.Flags().StringVar(&improveProvider, "provider", "", "Completion provider: anthropic or gemini (defaults to PROVIDER env var)")
	improveCmd.Flags().BoolVar(&improveFlat, "flat", false, "Print the flattened legacy projection instead of JSON")
	improveCmd.Flags().BoolVarP(&improveVerbose, "verbose", "v", false, "Print detailed progress information")
	rootCmd.AddCommand(improveCmd)
}

func runImprove(cmd *cobra.Command, args []string) error {
	resumeText, err := readResumeText(args)
	if err != nil {
		return err
	}

	if improveProvider != "" {
		os.Setenv("PROVIDER", improveProvider)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	p, err := newPipeline(cmd.Context(), cfg, improveVerbose)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	result, err := p.Run(cmd.Context(), pipeline.Inputs{ResumeText: resumeText})
	if err != nil {
		return err
	}

	if improveVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintDataset(result.Dataset, result.Outcome)
		printer.PrintFlattened(result.Flattened)
	}

	if improveFlat {
		for _, line := range result.Flattened {
			fmt.Println(line)
		}
		return nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result.Dataset)
}

// readResumeText resolves the resume text from the argument, --file, or stdin.
func readResumeText(args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	if improveFile != "" {
		data, err := os.ReadFile(improveFile)
		if err != nil {
			return "", fmt.Errorf("failed to read resume file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read resume from stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no resume text provided")
	}
	return string(data), nil
}
