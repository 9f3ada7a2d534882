package models

// SectionAverage is the per-section summary across every trial.
// The first four fields form the summary table; the rest feed the extended
// report and are zero when there was nothing to measure.
type SectionAverage struct {
	Section        Section `json:"section"`
	FSRAvg         float64 `json:"fsr_avg"`
	HelmetTouchAvg float64 `json:"helmet_touch_avg"`
	BuckleAvg      float64 `json:"buckle_avg"`

	Readings        int     `json:"readings"`
	Trials          int     `json:"trials"`
	SecureRatio     float64 `json:"secure_ratio"` // 0..1
	ResponseAvgMs   float64 `json:"response_avg_ms"`
	ResponseSamples int     `json:"response_samples"`
}

// SummaryColumns is the column set of the printed summary table.
var SummaryColumns = []string{"Section", "FSR Avg", "HelmetTouch Avg", "Buckle Avg"}

// CSVHeader returns the summary header plus the extended columns.
func (SectionAverage) CSVHeader() []string {
	h := append([]string{}, SummaryColumns...)
	h = append(h, "Readings", "Trials", "Secure Ratio", "Resp Avg (ms)", "Resp Samples")
	return h
}

// CSVRow returns one summary row.
func (a *SectionAverage) CSVRow() []string {
	return []string{
		a.Section.Label(),
		ftoa(a.FSRAvg, 6),
		ftoa(a.HelmetTouchAvg, 6),
		ftoa(a.BuckleAvg, 6),
		itoa(a.Readings),
		itoa(a.Trials),
		ftoa(a.SecureRatio, 4),
		ftoa(a.ResponseAvgMs, 2),
		itoa(a.ResponseSamples),
	}
}
