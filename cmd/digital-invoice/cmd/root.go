package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose        bool
	outputFormat   string
	apiKey         string
	llmBaseURL     string
	llmModel       string
	llmVisionModel string
)

var rootCmd = &cobra.Command{
	Use:   "digital-invoice",
	Short: "Reconcile digital invoice extractions against user edits",
	Long: `Digital Invoice is a CLI tool for working with invoice extraction payloads.

It parses the extraction payload produced by a document-understanding
backend into a consistent invoice model, replays user edits (selection,
quantity, price, added items) and reconciles the amount to pay.

Examples:
  # Parse a payload and print the reconciled invoice
  digital-invoice reconcile payload.json

  # Replay edits before reconciling
  digital-invoice reconcile payload.json --edits edits.json

  # Extract a payload from a scanned document first
  digital-invoice reconcile scan.pdf --api-key <openrouter-key>

  # Start the HTTP API
  digital-invoice serve`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, csv, table)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for LLM provider (env: LLM_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&llmBaseURL, "llm-base-url", "", "LLM API base URL (env: LLM_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model for text extraction (env: LLM_MODEL)")
	rootCmd.PersistentFlags().StringVar(&llmVisionModel, "llm-vision-model", "", "LLM model for vision/image extraction (env: LLM_VISION_MODEL)")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if apiKey == "" {
		apiKey = os.Getenv("LLM_API_KEY")
	}
	if llmBaseURL == "" {
		llmBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if llmModel == "" {
		llmModel = os.Getenv("LLM_MODEL")
	}
	if llmVisionModel == "" {
		llmVisionModel = os.Getenv("LLM_VISION_MODEL")
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
