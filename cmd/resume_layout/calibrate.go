package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-paginator/internal/estimate"
	"github.com/jonathan/resume-paginator/internal/measure"
	"github.com/jonathan/resume-paginator/internal/observability"
	"github.com/jonathan/resume-paginator/internal/rendering"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Compare estimated section heights against browser measurements",
	Long: `Estimates every section of the document, measures the same sections in headless Chrome and reports
the drift. With --write, the estimator constants are saved with a scale that cancels the measured drift.`,
	RunE: runCalibrate,
}

var (
	calibrateInput string
	calibrateWrite string
	calibrateStyle styleFlags
)

func init() {
	calibrateCmd.Flags().StringVarP(&calibrateInput, "in", "i", "", "Path to ResumeDocument JSON file (required)")
	calibrateCmd.Flags().StringVarP(&calibrateWrite, "write", "w", "", "Path to write the calibrated estimator constants JSON")
	calibrateStyle.register(calibrateCmd)

	_ = calibrateCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(calibrateCmd)
}

// calibrate measures doc with m and compares the result with the estimator's predictions.
func calibrate(ctx context.Context, m measure.Measurer, doc *types.ResumeDocument, st style.Resolved, c estimate.Constants) (estimate.Calibration, error) {
	d, err := doc.Prepared()
	if err != nil {
		return estimate.Calibration{}, err
	}
	c = c.WithDefaults()
	g := st.Geometry()
	r := rendering.ForTemplate(st.Template, c)

	estimated := estimate.New(c).Sections(r.MainSections(d), st, r.MainWidth(g))

	full, err := r.RenderFull(d, st, g)
	if err != nil {
		return estimate.Calibration{}, err
	}
	res, err := m.Measure(ctx, full)
	if err != nil {
		return estimate.Calibration{}, fmt.Errorf("measurement failed: %w", err)
	}
	return estimate.Calibrate(estimated, res.Sections), nil
}

func runCalibrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := readDocument(calibrateInput)
	if err != nil {
		return err
	}
	st, err := calibrateStyle.resolve(cfg)
	if err != nil {
		return err
	}
	c, err := loadConstants(cfg)
	if err != nil {
		return err
	}

	measurer := measure.NewChromeMeasurer(cfg.ChromePath, cfg.MeasureTimeout(), cfg.Verbose)
	cal, err := calibrate(cmd.Context(), measurer, doc, st, c)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintCalibration(cal)

	if calibrateWrite != "" {
		if err := estimate.SaveConstants(calibrateWrite, cal.Apply(c)); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "Wrote calibrated constants to %s\n", calibrateWrite)
	}
	return nil
}
