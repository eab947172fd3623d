package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/export"
	"github.com/jonathan/resume-paginator/internal/style"
)

// Output formats
const (
	formatPDF  = "pdf"
	formatHTML = "html"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export documents to PDF or paginated HTML",
	Long: `Paginates each input document on the estimated path and rasterizes it to PDF, or writes the
paginated HTML with --format html. Several inputs are exported concurrently.`,
	RunE: runExport,
}

var (
	exportInputs []string
	exportOutDir string
	exportFormat string
	exportJobs   int
	exportStyle  styleFlags
)

func init() {
	exportCmd.Flags().StringSliceVarP(&exportInputs, "in", "i", nil, "ResumeDocument JSON file(s), comma separated or repeated (required)")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "Output directory")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", formatPDF, "Output format: pdf or html")
	exportCmd.Flags().IntVar(&exportJobs, "jobs", 2, "Maximum concurrent exports")
	exportStyle.register(exportCmd)

	_ = exportCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(exportCmd)
}

// exportJob writes the export of every input into outDir, named after the input file.
type exportJob struct {
	service *export.Service
	style   style.Resolved
	format  string
	outDir  string
	jobs    int
}

// outputPath maps an input file onto its output file in the job's directory.
func (j *exportJob) outputPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(j.outDir, base+"."+j.format)
}

// run exports every input. The first failure cancels the exports still running.
func (j *exportJob) run(ctx context.Context, inputs []string) ([]string, error) {
	if j.format != formatPDF && j.format != formatHTML {
		return nil, fmt.Errorf("unsupported format %q (want pdf or html)", j.format)
	}
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		out := j.outputPath(input)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("inputs %s and %s would both write %s", prev, input, out)
		}
		seen[out] = input
	}
	if err := os.MkdirAll(j.outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	outputs := make([]string, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	if j.jobs > 0 {
		g.SetLimit(j.jobs)
	}
	for i, input := range inputs {
		g.Go(func() error {
			out, err := j.exportOne(ctx, input)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func (j *exportJob) exportOne(ctx context.Context, input string) (string, error) {
	doc, err := readDocument(input)
	if err != nil {
		return "", err
	}

	var data []byte
	if j.format == formatHTML {
		payload, err := j.service.Build(doc, j.style)
		if err != nil {
			return "", err
		}
		data = []byte(payload.HTML)
	} else {
		result, err := j.service.Export(ctx, doc, j.style)
		if err != nil {
			return "", err
		}
		data = result.PDF
	}

	out := j.outputPath(input)
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}
	return out, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := exportStyle.resolve(cfg)
	if err != nil {
		return err
	}
	c, err := loadConstants(cfg)
	if err != nil {
		return err
	}

	job := &exportJob{
		service: export.NewService(estimate.New(c), newRasterizer(cfg), cfg.Verbose),
		style:   st,
		format:  strings.ToLower(exportFormat),
		outDir:  exportOutDir,
		jobs:    exportJobs,
	}
	outputs, err := job.run(cmd.Context(), exportInputs)
	if err != nil {
		return err
	}

	for _, out := range outputs {
		_, _ = fmt.Fprintf(os.Stdout, "Wrote %s\n", out)
	}
	return nil
}
