package controller

import (
	"helmet-analyzer/models"
	"helmet-analyzer/utils"
)

// Analysis is the complete in-memory result of one run.
type Analysis struct {
	*Aggregation
	Averages []models.SectionAverage
}

// AnalysisController owns one run of the pipeline:
//
//	trial logs ──► AggregateController ──► AverageAll ──► Analysis
//
// Every stage runs to completion before the next starts; nothing is
// reported until the whole run succeeded.
type AnalysisController struct {
	cfg *utils.Config
}

// NewAnalysisController expects a config that has passed Validate.
func NewAnalysisController(cfg *utils.Config) *AnalysisController {
	return &AnalysisController{cfg: cfg}
}

// Run aggregates all trials and averages every configured section.
func (c *AnalysisController) Run() (*Analysis, error) {
	a := c.cfg.Analysis
	sections := c.cfg.SectionList()

	utils.L().Info("analysing %d trial(s) across %d section(s)  (header_match=%s, weighting=%s)",
		len(a.Trials), len(sections), a.HeaderMatch, a.Weighting)

	agg, err := NewAggregateController(a.Trials, sections, a.HeaderMatch).Aggregate()
	if err != nil {
		return nil, err
	}

	avgs, err := AverageAll(agg, AverageOptions{
		Weighting:    a.Weighting,
		FSRThreshold: a.FSRThreshold,
	})
	if err != nil {
		return nil, err
	}

	for _, s := range sections {
		utils.L().Debug("section %-30q readings=%d batches=%d", s.Label(), agg.ReadingCount(s), len(agg.Batches[s]))
	}
	return &Analysis{Aggregation: agg, Averages: avgs}, nil
}
