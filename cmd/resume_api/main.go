// Package main provides the entry point for the Resume Improvement API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hikinghacker/resume-improvement-api/internal/config"
	"github.com/hikinghacker/resume-improvement-api/internal/gateway"
	"github.com/hikinghacker/resume-improvement-api/internal/gateway/anthropic"
	"github.com/hikinghacker/resume-improvement-api/internal/gateway/gemini"
	"github.com/hikinghacker/resume-improvement-api/internal/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "resume_api",
	Short: "Resume Improvement API",
	Long:  "Resume Improvement API rewrites resume achievement bullets with an LLM and recovers a structured dataset from the response, exposed as a REST API and a one-shot CLI.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newPipeline assembles the provider, gateway, and pipeline from config.
func newPipeline(ctx context.Context, cfg *config.Config, verbose bool) (*pipeline.Pipeline, error) {
	var (
		completer gateway.Completer
		err       error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		completer, err = gemini.New(ctx, cfg.APIKey, cfg.Model)
	default:
		completer, err = anthropic.New(cfg.APIKey, cfg.Model, "")
	}
	if err != nil {
		return nil, err
	}

	gw := gateway.New(completer, cfg.GatewayOptions())
	return pipeline.New(gw, pipeline.Options{
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Verbose:     verbose || cfg.Verbose,
	}), nil
}
