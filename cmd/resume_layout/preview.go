package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-paginator/internal/measure"
	"github.com/jonathan/resume-paginator/internal/observability"
	"github.com/jonathan/resume-paginator/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Lay a document out from real browser measurements",
	Long: `Renders the document once in headless Chrome, measures every section, paginates the measurements
and writes the paginated preview (preview.html) and its layout (layout.json) to the output directory.`,
	RunE: runPreview,
}

var (
	previewInput  string
	previewOutDir string
	previewStyle  styleFlags
)

func init() {
	previewCmd.Flags().StringVarP(&previewInput, "in", "i", "", "Path to ResumeDocument JSON file (required)")
	previewCmd.Flags().StringVarP(&previewOutDir, "out", "o", ".", "Output directory")
	previewStyle.register(previewCmd)

	_ = previewCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := readDocument(previewInput)
	if err != nil {
		return err
	}
	st, err := previewStyle.resolve(cfg)
	if err != nil {
		return err
	}
	c, err := loadConstants(cfg)
	if err != nil {
		return err
	}

	measurer := measure.NewChromeMeasurer(cfg.ChromePath, cfg.MeasureTimeout(), cfg.Verbose)
	engine := preview.NewEngine(measurer, c, cfg.Verbose)
	view, err := engine.Run(cmd.Context(), doc, st)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintGeometry(view.Geometry)
		printer.PrintLayout(view.Layout, view.Options)
		printer.PrintSidebar(view.Layout.Sidebar)
	}

	html, err := view.Document(st, c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(previewOutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	htmlPath := filepath.Join(previewOutDir, "preview.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", htmlPath, err)
	}
	layoutPath := filepath.Join(previewOutDir, "layout.json")
	if err := writeJSON(layoutPath, view); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Wrote %d page(s) to %s and %s\n", view.Layout.PageCount(), htmlPath, layoutPath)
	return nil
}
