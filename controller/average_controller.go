package controller

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"helmet-analyzer/models"
	"helmet-analyzer/utils"
)

// ErrEmptySection is returned (wrapped) when a section received no readings
// from any trial, so its mean is undefined.
var ErrEmptySection = errors.New("section has no readings")

// AverageOptions controls how a section's batches are reduced.
type AverageOptions struct {
	Weighting    string // utils.WeightingPerReading or utils.WeightingPerTrial
	FSRThreshold int
}

// AverageSection reduces one section's batches to its summary.
// With per-reading weighting every reading counts once regardless of trial;
// with per-trial weighting each reading is weighted 1/len(batch) so every
// batch's mean counts once.
func AverageSection(s models.Section, batches []models.TrialBatch, opts AverageOptions) (models.SectionAverage, error) {
	avg := models.SectionAverage{Section: s}

	var (
		fsr, touch, buckle []float64
		weights            []float64
		resp               []float64
		secure             int
	)
	perTrial := opts.Weighting == utils.WeightingPerTrial
	for _, b := range batches {
		for _, r := range b.Readings {
			fsr = append(fsr, float64(r.FSRValue))
			touch = append(touch, float64(r.HelmetTouched))
			buckle = append(buckle, float64(r.Buckled))
			if perTrial {
				weights = append(weights, 1/float64(len(b.Readings)))
			}
			if r.Secure(opts.FSRThreshold) {
				secure++
			}
		}
		for _, e := range b.Events {
			resp = append(resp, float64(e.ResponseMs))
		}
		if len(b.Readings) > 0 {
			avg.Trials++
		}
	}
	avg.Readings = len(fsr)
	if avg.Readings == 0 {
		return avg, fmt.Errorf("%w: %q", ErrEmptySection, s.Label())
	}

	avg.FSRAvg = stat.Mean(fsr, weights)
	avg.HelmetTouchAvg = stat.Mean(touch, weights)
	avg.BuckleAvg = stat.Mean(buckle, weights)
	avg.SecureRatio = float64(secure) / float64(avg.Readings)
	if avg.ResponseSamples = len(resp); avg.ResponseSamples > 0 {
		avg.ResponseAvgMs = stat.Mean(resp, nil)
	}
	return avg, nil
}

// AverageAll averages every section of agg in configured order.
// It stops at the first empty section.
func AverageAll(agg *Aggregation, opts AverageOptions) ([]models.SectionAverage, error) {
	out := make([]models.SectionAverage, 0, len(agg.Sections))
	for _, s := range agg.Sections {
		a, err := AverageSection(s, agg.Batches[s], opts)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
