package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-paginator/internal/style"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the style presets",
	RunE: func(_ *cobra.Command, _ []string) error {
		return printPresets(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

// printPresets writes one row per preset.
//
//nolint:errcheck // table output
func printPresets(out io.Writer) error {
	fmt.Fprintf(out, "%-10s %6s %7s %6s %6s %8s %6s %s\n",
		"PRESET", "NAME", "HEADER", "BODY", "LINE", "SECTION", "ENTRY", "MARGINS (T/B/S)")
	for _, p := range style.Presets() {
		fmt.Fprintf(out, "%-10s %6.0f %7.0f %6.0f %6.2f %8.0f %6.0f %.0f/%.0f/%.0f\n",
			p.Name, p.NameFontSize, p.SectionHeaderSize, p.BodySize, p.LineSpacing,
			p.SectionSpacing, p.EntrySpacing, p.TopMargin, p.BottomMargin, p.SideMargin)
	}
	return nil
}
