package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-paginator/internal/config"
	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/export"
	"github.com/jonathan/resume-paginator/internal/schemas"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

// styleFlags are the style options shared by every layout command.
type styleFlags struct {
	stylePath string
	preset    string
	template  string
	pageSize  string
}

func (f *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.stylePath, "style", "", "Path to StyleConfig JSON file")
	cmd.Flags().StringVar(&f.preset, "preset", "", "Style preset applied on top of --style (standard, compact)")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Template: classic or modern (overrides --style)")
	cmd.Flags().StringVar(&f.pageSize, "page-size", "", "Page size: a4 or letter (overrides --style)")
}

// resolve reads the style file and applies flag overrides, then config defaults.
// The configured preset applies only when neither --style nor --preset is given.
func (f *styleFlags) resolve(cfg config.Config) (style.Resolved, error) {
	var sc types.StyleConfig
	if f.stylePath != "" {
		data, err := os.ReadFile(f.stylePath)
		if err != nil {
			return style.Resolved{}, fmt.Errorf("failed to read style file: %w", err)
		}
		if err := schemas.ValidateStyle(data); err != nil {
			return style.Resolved{}, err
		}
		if sc, err = types.DecodeStyle(data); err != nil {
			return style.Resolved{}, err
		}
	}

	if f.template != "" {
		sc.Template = f.template
	} else if sc.Template == "" {
		sc.Template = cfg.Template
	}
	if f.pageSize != "" {
		sc.PageSize = f.pageSize
	} else if sc.PageSize == "" {
		sc.PageSize = cfg.PageSize
	}

	preset := f.preset
	if preset == "" && f.stylePath == "" {
		preset = cfg.Preset
	}
	if preset != "" {
		var err error
		if sc, err = style.ApplyPreset(sc, preset); err != nil {
			return style.Resolved{}, err
		}
	}
	return style.Resolve(sc), nil
}

// readDocument loads a résumé document, validating it against the embedded schema first.
func readDocument(path string) (*types.ResumeDocument, error) {
	if path == "" {
		return nil, fmt.Errorf("--in is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	if err := schemas.ValidateDocument(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return types.DecodeDocument(data)
}

// loadConstants returns the configured estimator constants, or the defaults.
func loadConstants(cfg config.Config) (estimate.Constants, error) {
	if cfg.ConstantsPath == "" {
		return estimate.DefaultConstants(), nil
	}
	return estimate.LoadConstants(cfg.ConstantsPath)
}

// newRasterizer picks the remote conversion service when one is configured, local Chrome otherwise.
func newRasterizer(cfg config.Config) export.Rasterizer {
	if cfg.RasterizerURL != "" {
		return export.NewRemoteRasterizer(cfg.RasterizerURL, cfg.ExportTimeout())
	}
	return export.NewChromeRasterizer(cfg.ChromePath, cfg.ExportTimeout(), cfg.Verbose)
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if path == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
