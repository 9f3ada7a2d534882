package models

// Reading is one sample printed by the helmet unit:
//
//	helmetTouched: 1, fsrValue: 312, buckled: 1
//
// Trial is empty until the aggregator tags it with its source file.
type Reading struct {
	HelmetTouched int    `json:"helmet_touched"` // TTP223 touch pad, 1 = touched
	FSRValue      int    `json:"fsr_value"`      // raw ADC count from the force sensor
	Buckled       int    `json:"buckled"`        // buckle switch, 1 = closed
	Trial         string `json:"trial,omitempty"`
}

// Secure reports whether the firmware would have sent "true" to the bike
// for this sample: worn, pressed above threshold and buckled.
func (r Reading) Secure(fsrThreshold int) bool {
	return r.HelmetTouched != 0 && r.FSRValue > fsrThreshold && r.Buckled != 0
}

func (Reading) CSVHeader() []string {
	return []string{"trial", "helmet_touched", "fsr_value", "buckled"}
}

func (r *Reading) CSVRow() []string {
	return []string{
		r.Trial,
		itoa(r.HelmetTouched),
		itoa(r.FSRValue),
		itoa(r.Buckled),
	}
}

// StatusEvent is the line the firmware prints after notifying the bike:
//
//	Status sent: warn, Helmet Response Time: 12 ms
type StatusEvent struct {
	Status     string `json:"status"`
	ResponseMs int    `json:"response_ms"`
	Trial      string `json:"trial,omitempty"`
}

// TrialBatch holds the readings one trial file contributed to one section,
// in file order.
type TrialBatch struct {
	Trial    string
	Readings []Reading
	Events   []StatusEvent
}

// FSRSeries returns the batch's pressure values, indexed by sample.
func (b TrialBatch) FSRSeries() []float64 {
	out := make([]float64, len(b.Readings))
	for i, r := range b.Readings {
		out[i] = float64(r.FSRValue)
	}
	return out
}
