package views

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"helmet-analyzer/models"
)

// SummaryTitle heads the printed results.
const SummaryTitle = "=== Experimental Results Summary ==="

// WriteSummary prints one row per section with the three averaged metrics.
func WriteSummary(w io.Writer, avgs []models.SectionAverage) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", SummaryTitle); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(models.SummaryColumns, "\t"))
	for _, a := range avgs {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.6f\n",
			a.Section.Label(), a.FSRAvg, a.HelmetTouchAvg, a.BuckleAvg)
	}
	return tw.Flush()
}

// WriteExtended prints per-section counts, the share of "secure" readings
// and the mean helmet response time reported by the firmware.
func WriteExtended(w io.Writer, avgs []models.SectionAverage) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nSection\tReadings\tTrials\tSecure %\tResp Avg (ms)")
	for _, a := range avgs {
		resp := "-"
		if a.ResponseSamples > 0 {
			resp = fmt.Sprintf("%.2f", a.ResponseAvgMs)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%s\n",
			a.Section.Label(), a.Readings, a.Trials, a.SecureRatio*100, resp)
	}
	return tw.Flush()
}
