package controller

import (
	"fmt"

	"helmet-analyzer/models"
	"helmet-analyzer/services/ingest"
	"helmet-analyzer/utils"
)

// Aggregation is every trial's data regrouped by section.
// Batches[s] lists one entry per trial that produced at least one reading
// for s, in trial order.
type Aggregation struct {
	Sections []models.Section
	Trials   []string
	Batches  map[models.Section][]models.TrialBatch
}

// AggregateController runs the log reader over each trial file in order and
// merges the per-file sections into one cross-trial view.
type AggregateController struct {
	reader   *ingest.LogReader
	sections []models.Section
	paths    []string
}

// NewAggregateController wires a reader for the given sections.
func NewAggregateController(paths []string, sections []models.Section, headerMatch string) *AggregateController {
	return &AggregateController{
		reader:   ingest.NewLogReader(sections, headerMatch),
		sections: sections,
		paths:    paths,
	}
}

// Aggregate reads the trial files one at a time. The first unreadable file
// aborts the whole aggregation.
func (ac *AggregateController) Aggregate() (*Aggregation, error) {
	agg := &Aggregation{
		Sections: ac.sections,
		Batches:  make(map[models.Section][]models.TrialBatch, len(ac.sections)),
	}

	for _, path := range ac.paths {
		trial := utils.TrialName(path)
		parsed, err := ac.reader.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("trial %s: %w", trial, err)
		}
		agg.Trials = append(agg.Trials, trial)

		for _, s := range ac.sections {
			readings := parsed.Readings[s]
			if len(readings) == 0 {
				continue
			}
			agg.Batches[s] = append(agg.Batches[s], tagBatch(trial, readings, parsed.Events[s]))
		}
		utils.L().Info("trial %-16s readings=%d", trial, parsed.Stats.Readings)
	}
	return agg, nil
}

func tagBatch(trial string, readings []models.Reading, events []models.StatusEvent) models.TrialBatch {
	b := models.TrialBatch{
		Trial:    trial,
		Readings: make([]models.Reading, len(readings)),
		Events:   make([]models.StatusEvent, len(events)),
	}
	for i, r := range readings {
		r.Trial = trial
		b.Readings[i] = r
	}
	for i, e := range events {
		e.Trial = trial
		b.Events[i] = e
	}
	return b
}

// ReadingCount returns the number of readings a section received across all trials.
func (a *Aggregation) ReadingCount(s models.Section) int {
	n := 0
	for _, b := range a.Batches[s] {
		n += len(b.Readings)
	}
	return n
}
