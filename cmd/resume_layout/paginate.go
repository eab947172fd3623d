package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/export"
	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/observability"
	"github.com/jonathan/resume-paginator/internal/paginate"
	"github.com/jonathan/resume-paginator/internal/rendering"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

var paginateCmd = &cobra.Command{
	Use:   "paginate",
	Short: "Compute the estimated page layout of a document",
	Long: `Estimates every section's height from its content, splits the sections into pages and prints the
layout as JSON. No browser is involved.`,
	RunE: runPaginate,
}

var (
	paginateInput  string
	paginateOutput string
	paginateStyle  styleFlags
)

func init() {
	paginateCmd.Flags().StringVarP(&paginateInput, "in", "i", "", "Path to ResumeDocument JSON file (required)")
	paginateCmd.Flags().StringVarP(&paginateOutput, "out", "o", "", "Path to output layout JSON (default stdout)")
	paginateStyle.register(paginateCmd)

	_ = paginateCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(paginateCmd)
}

// layoutReport is the JSON the paginate command prints.
type layoutReport struct {
	Template  string            `json:"template"`
	Geometry  geometry.Geometry `json:"geometry"`
	Options   paginate.Options  `json:"options"`
	Layout    paginate.Layout   `json:"layout"`
	PageCount int               `json:"page_count"`
}

// estimatedLayout lays a document out on the estimated path and checks the result.
func estimatedLayout(doc *types.ResumeDocument, st style.Resolved, c estimate.Constants) (*layoutReport, error) {
	c = c.WithDefaults()
	est := estimate.New(c)
	d, layout, opts, err := export.NewService(est, nil, false).Layout(doc, st)
	if err != nil {
		return nil, err
	}

	g := st.Geometry()
	r := rendering.ForTemplate(st.Template, c)
	sections := est.Sections(r.MainSections(d), st, r.MainWidth(g))
	if err := paginate.Verify(layout.Pages, sections, opts); err != nil {
		return nil, err
	}

	return &layoutReport{
		Template:  r.Name(),
		Geometry:  g,
		Options:   opts,
		Layout:    layout,
		PageCount: layout.PageCount(),
	}, nil
}

func runPaginate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := readDocument(paginateInput)
	if err != nil {
		return err
	}
	st, err := paginateStyle.resolve(cfg)
	if err != nil {
		return err
	}
	c, err := loadConstants(cfg)
	if err != nil {
		return err
	}

	report, err := estimatedLayout(doc, st, c)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintGeometry(report.Geometry)
		printer.PrintLayout(report.Layout, report.Options)
		printer.PrintSidebar(report.Layout.Sidebar)
	}

	if err := writeJSON(paginateOutput, report); err != nil {
		return err
	}
	if paginateOutput != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Wrote %d page layout to %s\n", report.PageCount, paginateOutput)
	}
	return nil
}
