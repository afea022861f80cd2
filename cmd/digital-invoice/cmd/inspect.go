package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/digital-invoice/internal/processor"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Show detected format and size of input files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	for _, file := range args {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("%s: error: %v\n", file, err)
			continue
		}

		fmt.Printf("%s: format=%s size=%d\n", file, processor.DetectFormat(data), len(data))
	}
	return nil
}
