package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hikinghacker/resume-improvement-api/internal/config"
	"github.com/hikinghacker/resume-improvement-api/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the resume improvement pipeline as REST endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT env var)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	p, err := newPipeline(cmd.Context(), cfg, false)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	srv := server.New(server.Config{Port: cfg.Port}, p)
	return srv.Start()
}
