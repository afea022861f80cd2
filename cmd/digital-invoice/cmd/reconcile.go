package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/digital-invoice/internal/extraction"
	"github.com/rezonia/digital-invoice/internal/llm"
	"github.com/rezonia/digital-invoice/internal/model"
	"github.com/rezonia/digital-invoice/internal/processor"
)

var (
	outputFile           string
	editsFile            string
	requireArticleNumber bool
	timeout              time.Duration
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [files...]",
	Short: "Parse extraction payloads and reconcile the amount to pay",
	Long: `Parse one or more extraction payloads into invoices, optionally replay
user edits, and print the reconciled totals.

Supported inputs:
  - JSON extraction payloads: .json
  - Scanned documents (requires API key): .pdf, .png, .jpg, .jpeg, .tiff

Edits are a JSON array of operations, applied in order to every input:
  [
    {"op": "deselect", "index": 0, "reason_id": "r1"},
    {"op": "set_quantity", "index": 1, "quantity": 3},
    {"op": "add_item", "name": "Extra", "quantity": 1, "price": "20.00EUR"}
  ]

Examples:
  digital-invoice reconcile payload.json
  digital-invoice reconcile payload.json --edits edits.json -f table
  digital-invoice reconcile scan.pdf --api-key <key>
  digital-invoice reconcile payloads/ -o results.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	reconcileCmd.Flags().StringVar(&editsFile, "edits", "", "JSON file with edit operations to replay")
	reconcileCmd.Flags().BoolVar(&requireArticleNumber, "require-article-number", false, "Fail payloads whose line items lack an article number")
	reconcileCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Processing timeout per file")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to process")
	}

	printVerbose("Found %d files to process\n", len(files))

	edits, err := loadEdits(editsFile)
	if err != nil {
		return err
	}

	pipeline := newPipeline()

	results := make([]*ReconcileResult, 0, len(files))
	for _, file := range files {
		printVerbose("Processing: %s\n", file)

		result := reconcileFile(pipeline, file, edits)
		results = append(results, result)

		if result.Error != "" {
			printVerbose("  Error: %s\n", result.Error)
		} else {
			printVerbose("  Total: %s (%d of %d items selected)\n", result.Total, result.NumSelected, result.NumTotal)
		}
	}

	return outputResults(results)
}

func newPipeline() *processor.Pipeline {
	var llmExtractor *llm.Extractor
	if apiKey != "" {
		var clientOpts []llm.ClientOption
		if llmBaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(llmBaseURL))
		}

		client := llm.NewClient(apiKey, clientOpts...)

		var extractorOpts []llm.ExtractorOption
		if llmModel != "" {
			extractorOpts = append(extractorOpts, llm.WithTextModel(llmModel))
		}
		if llmVisionModel != "" {
			extractorOpts = append(extractorOpts, llm.WithVisionModel(llmVisionModel))
		}

		llmExtractor = llm.NewExtractor(client, extractorOpts...)
		printVerbose("LLM extraction enabled (text: %s, vision: %s)\n", llmModel, llmVisionModel)
	}

	var parserOpts []extraction.Option
	if requireArticleNumber {
		parserOpts = append(parserOpts, extraction.WithRequiredArticleNumber())
	}

	return processor.NewPipeline(
		processor.WithLLMExtractor(llmExtractor),
		processor.WithParserOptions(parserOpts...),
	)
}

func loadEdits(path string) ([]model.Edit, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edits file: %w", err)
	}

	var edits []model.Edit
	if err := json.Unmarshal(data, &edits); err != nil {
		return nil, fmt.Errorf("failed to parse edits file: %w", err)
	}
	return edits, nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}

			if info.IsDir() {
				err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if !info.IsDir() && isSupportedFile(path) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				files = append(files, arg)
			}
		} else {
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					continue
				}
				if !info.IsDir() && isSupportedFile(match) {
					files = append(files, match)
				}
			}
		}
	}

	return files, nil
}

func isSupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".pdf", ".png", ".jpg", ".jpeg", ".tiff", ".tif":
		return true
	default:
		return false
	}
}

func reconcileFile(pipeline *processor.Pipeline, filePath string, edits []model.Edit) *ReconcileResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result := &ReconcileResult{
		File: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	pipelineResult := pipeline.Process(ctx, data, getMimeType(strings.ToLower(filepath.Ext(filePath))))
	if pipelineResult.Error != nil {
		result.Error = pipelineResult.Error.Error()
		return result
	}

	invoice := pipelineResult.Invoice
	for i, edit := range edits {
		if err := model.ApplyEdit(invoice, edit); err != nil {
			result.Error = fmt.Sprintf("edit %d: %v", i, err)
			return result
		}
	}

	result.AmountToPay = invoice.AmountToPay().Format()
	result.Currency = invoice.Currency()
	result.NumSelected = invoice.NumSelected()
	result.NumTotal = invoice.NumTotal()
	result.Items = len(invoice.LineItems())
	result.Method = string(pipelineResult.Method)
	result.Confidence = pipelineResult.Confidence
	result.Warnings = pipelineResult.Warnings
	result.Feedback = extraction.ToPayload(invoice)

	if total, ok := invoice.Total(); ok {
		result.Total = total.Format()
	}

	return result
}

func getMimeType(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

func outputResults(results []*ReconcileResult) error {
	var writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	switch outputFormat {
	case "json":
		return outputJSON(writer, results)
	case "table":
		return outputTable(writer, results)
	case "csv":
		return outputCSV(writer, results)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputJSON(w *os.File, results []*ReconcileResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func outputTable(w *os.File, results []*ReconcileResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tITEMS\tSELECTED\tAMOUNT TO PAY\tTOTAL\tMETHOD\tCONFIDENCE")
	fmt.Fprintln(tw, "----\t-----\t--------\t-------------\t-----\t------\t----------")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\n", r.File, r.Error)
			continue
		}

		fmt.Fprintf(tw, "%s\t%d\t%d of %d\t%s\t%s\t%s\t%.2f\n",
			r.File,
			r.Items,
			r.NumSelected,
			r.NumTotal,
			r.AmountToPay,
			r.Total,
			r.Method,
			r.Confidence,
		)
	}

	return tw.Flush()
}

func outputCSV(w *os.File, results []*ReconcileResult) error {
	fmt.Fprintln(w, "file,items,num_selected,num_total,amount_to_pay,total,currency,method,confidence,error")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%s,,,,,,,,,%s\n", r.File, escapeCSV(r.Error))
			continue
		}

		fmt.Fprintf(w, "%s,%d,%d,%d,%s,%s,%s,%s,%.2f,\n",
			r.File,
			r.Items,
			r.NumSelected,
			r.NumTotal,
			r.AmountToPay,
			r.Total,
			r.Currency,
			r.Method,
			r.Confidence,
		)
	}

	return nil
}

func escapeCSV(s string) string {
	if strings.Contains(s, ",") || strings.Contains(s, "\"") || strings.Contains(s, "\n") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}

// ReconcileResult holds the result of reconciling a single file
type ReconcileResult struct {
	File        string              `json:"file"`
	Total       string              `json:"total,omitempty"`
	AmountToPay string              `json:"amount_to_pay,omitempty"`
	Currency    string              `json:"currency,omitempty"`
	NumSelected int                 `json:"num_selected"`
	NumTotal    int                 `json:"num_total"`
	Items       int                 `json:"items"`
	Method      string              `json:"method,omitempty"`
	Confidence  float64             `json:"confidence,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
	Feedback    *extraction.Payload `json:"feedback,omitempty"`
	Error       string              `json:"error,omitempty"`
}
