package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lamnguyen/cvstudio/internal/export"
)

var (
	exportFormatFlag string
	exportOutFlag    string
)

var exportCmd = &cobra.Command{
	Use:   "export <cv-file>",
	Short: "Export a CV text file to DOCX or PDF",
	Long: `Convert a plain-text or markdown CV into a downloadable document.

Examples:
  cvstudio export cv.md --format docx -o cv.docx
  cvstudio export cv.md --format pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormatFlag, "format", "docx", "Output format: docx or pdf")
	exportCmd.Flags().StringVarP(&exportOutFlag, "out", "o", "", "Output file (defaults to input name with new extension)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	text := string(data)

	var out []byte
	switch exportFormatFlag {
	case "docx":
		out, err = export.Docx(text)
	case "pdf":
		out, err = export.PDF(text)
	default:
		return fmt.Errorf("unknown format: %s (want docx or pdf)", exportFormatFlag)
	}
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	outPath := exportOutFlag
	if outPath == "" {
		base := strings.TrimSuffix(args[0], ".md")
		base = strings.TrimSuffix(base, ".txt")
		outPath = base + "." + exportFormatFlag
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Printf("Exported to %s\n", outPath)
	return nil
}
