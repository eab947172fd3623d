// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/paginate"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// joinLimited joins up to limit values, summarizing the rest.
func joinLimited(values []string, limit int) string {
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s ... +%d", strings.Join(values[:limit], ", "), len(values)-limit)
}

// PrintGeometry outputs the resolved page and content dimensions.
func (p *Printer) PrintGeometry(g geometry.Geometry) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Page size: %s (%.2f x %.2f in)\n", g.PageSize, g.WidthInches(), g.HeightInches()))
	sb.WriteString(fmt.Sprintf("Page:      %.1f x %.1f px\n", g.PageWidth, g.PageHeight))
	sb.WriteString(fmt.Sprintf("Content:   %.1f x %.1f px\n", g.ContentWidth, g.ContentHeight))
	sb.WriteString(fmt.Sprintf("Margins:   top %.0f, bottom %.0f, side %.0f", g.Margins.Top, g.Margins.Bottom, g.Margins.Side))

	p.printBox("PAGE GEOMETRY", sb.String())
}

// PrintLayout outputs every page with its sections and used height.
func (p *Printer) PrintLayout(layout paginate.Layout, opts paginate.Options) {
	if len(layout.Pages) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pages: %d  (capacity %.1f px, reserve %.1f px)\n\n",
		layout.PageCount(), opts.ContentHeight, opts.BottomMarginReserve))

	for i, page := range layout.Pages {
		used := page.Height
		if page.Index == 0 {
			used += opts.FirstPageHeaderHeight
		}
		marker := ""
		if used+opts.BottomMarginReserve > opts.ContentHeight {
			marker = "  ⚠ overflow"
		}
		sb.WriteString(fmt.Sprintf("Page %d  %.1f / %.1f px%s\n", page.Index+1, used, opts.ContentHeight, marker))
		if len(page.SectionIDs) > 0 {
			sb.WriteString(fmt.Sprintf("  %s\n", joinLimited(page.SectionIDs, maxItemsToShow)))
		}
		if i < len(layout.Pages)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("PAGINATED LAYOUT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSidebar outputs the modern template's sidebar distribution.
func (p *Printer) PrintSidebar(pages []paginate.SidebarPage) {
	if len(pages) == 0 {
		return
	}

	var sb strings.Builder
	for i, page := range pages {
		sb.WriteString(fmt.Sprintf("Page %d  %.1f px  [%s]\n", page.Index+1, page.Height, strings.Join(page.Groups, ", ")))
		if len(page.ItemIDs) > 0 {
			sb.WriteString(fmt.Sprintf("  %s\n", joinLimited(page.ItemIDs, maxItemsToShow)))
		}
		if i < len(pages)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SIDEBAR", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCalibration outputs the drift between estimated and measured section heights.
func (p *Printer) PrintCalibration(cal estimate.Calibration) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Samples:   %d\n", cal.Samples))
	sb.WriteString(fmt.Sprintf("Scale:     %.4f\n", cal.Scale))
	sb.WriteString(fmt.Sprintf("Max drift: %.1f%%\n", cal.MaxDrift*100))

	if len(cal.Drift) > 0 {
		sb.WriteString("\n")
		for _, d := range cal.Drift {
			sb.WriteString(fmt.Sprintf("%-20s %7.1f → %7.1f  (%+.1f%%)\n",
				truncate(d.ID, 20), d.Estimated, d.Measured, (d.Ratio-1)*100))
		}
	}

	p.printBox("ESTIMATOR CALIBRATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVerification outputs the result of checking a layout's properties.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintVerification(err error) {
	if err == nil {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ LAYOUT VERIFIED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var lines []string
	var ve *paginate.VerifyError
	if errors.As(err, &ve) {
		for _, v := range ve.Violations {
			lines = append(lines, "⚠ "+v)
		}
	} else {
		lines = append(lines, "⚠ "+err.Error())
	}
	p.printBox("LAYOUT VIOLATIONS", strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
