package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// RunName returns a unique report directory name:
//
//	<prefix>_YYYYMMDD_HHMMSS
func RunName(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "run"
	}
	return fmt.Sprintf("%s_%s", prefix, now.Format("20060102_150405"))
}

// TrialName derives a trial identifier from its file path: the base name
// without its final extension. Dot-files such as ".trial" keep their name.
func TrialName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}
