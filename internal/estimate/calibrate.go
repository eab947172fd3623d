package estimate

import (
	"math"

	"github.com/jonathan/resume-paginator/internal/paginate"
)

// SectionDrift compares one section's estimate with its measurement.
type SectionDrift struct {
	ID        string  `json:"id"`
	Estimated float64 `json:"estimated"`
	Measured  float64 `json:"measured"`
	Ratio     float64 `json:"ratio"`
}

// Calibration is the outcome of comparing estimates against a measured layout.
type Calibration struct {
	// Scale is the factor that makes the estimated total equal the measured total.
	Scale   float64        `json:"scale"`
	Samples int            `json:"samples"`
	Drift   []SectionDrift `json:"drift"`
	// MaxDrift is the largest |ratio-1| over all matched sections.
	MaxDrift float64 `json:"max_drift"`
}

// Calibrate matches estimated and measured sections by ID and reports how far the estimator
// drifts. Measured heights include their collapsed margin, since estimates fold spacing in.
// Sections present on only one side are ignored. With no usable samples Scale is 1.
func Calibrate(estimated, measured []paginate.SectionMeasurement) Calibration {
	byID := make(map[string]paginate.SectionMeasurement, len(measured))
	for _, m := range measured {
		byID[m.ID] = m
	}

	cal := Calibration{Scale: 1, Drift: []SectionDrift{}}
	var sumEst, sumMeas float64
	for i, est := range estimated {
		m, ok := byID[est.ID]
		if !ok || est.Height <= 0 {
			continue
		}
		meas := m.Height
		// the first section's margin is absorbed by the header gap
		if i > 0 {
			meas += m.CollapsedMargin
		}
		ratio := meas / est.Height
		cal.Drift = append(cal.Drift, SectionDrift{ID: est.ID, Estimated: est.Height, Measured: meas, Ratio: ratio})
		cal.MaxDrift = math.Max(cal.MaxDrift, math.Abs(ratio-1))
		sumEst += est.Height
		sumMeas += meas
	}
	cal.Samples = len(cal.Drift)
	if sumEst > 0 && sumMeas > 0 {
		cal.Scale = sumMeas / sumEst
	}
	return cal
}

// Apply returns constants whose Scale incorporates the calibration.
func (cal Calibration) Apply(c Constants) Constants {
	c = c.WithDefaults()
	if cal.Scale > 0 && !math.IsInf(cal.Scale, 0) && !math.IsNaN(cal.Scale) {
		c.Scale *= cal.Scale
	}
	return c
}
