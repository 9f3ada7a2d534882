package controller

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"helmet-analyzer/utils"
	"helmet-analyzer/views"
)

// ReportController is the final stage. Given a finished Analysis it writes:
//   - the summary (and optionally extended) table to stdout
//   - averages.png and sections.png
//   - summary.csv / readings.csv and helmet_results.xlsx when enabled
//
// File outputs land in a fresh <output_dir>/<run_prefix>_YYYYMMDD_HHMMSS directory.
type ReportController struct {
	cfg    utils.ReportConfig
	stdout io.Writer
	now    func() time.Time

	runDir string
	files  []string
}

// NewReportController prepares a reporter writing tables to stdout.
func NewReportController(cfg utils.ReportConfig, stdout io.Writer) *ReportController {
	return &ReportController{cfg: cfg, stdout: stdout, now: time.Now}
}

// Report renders every enabled output for a. Files are written first; the
// tables are printed only once they all succeeded.
func (rc *ReportController) Report(a *Analysis) error {
	if err := rc.writeFiles(a); err != nil {
		return err
	}

	if err := views.WriteSummary(rc.stdout, a.Averages); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if rc.cfg.ExtendedTable {
		if err := views.WriteExtended(rc.stdout, a.Averages); err != nil {
			return fmt.Errorf("write extended summary: %w", err)
		}
	}
	return nil
}

// writeFiles renders the enabled charts and exports into a fresh run directory.
// On failure the run directory is removed again.
func (rc *ReportController) writeFiles(a *Analysis) (err error) {
	if !rc.cfg.Charts && !rc.cfg.Export.CSV && !rc.cfg.Export.XLSX {
		return nil
	}
	if err := rc.prepareRunDir(); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			rc.discardRunDir()
		}
	}()

	if rc.cfg.Charts {
		if err := rc.writeFile(views.AveragesChart, func(w io.Writer) error {
			return views.RenderAveragesChart(w, a.Averages)
		}); err != nil {
			return err
		}
		if err := rc.writeFile(views.SectionsChart, func(w io.Writer) error {
			return views.RenderSectionsChart(w, a.Sections, a.Batches)
		}); err != nil {
			return err
		}
	}

	if rc.cfg.Export.CSV {
		if err := views.ExportCSV(rc.runDir, a.Averages, a.Sections, a.Batches); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		rc.files = append(rc.files,
			filepath.Join(rc.runDir, views.SummaryFile),
			filepath.Join(rc.runDir, views.ReadingsFile))
	}

	if rc.cfg.Export.XLSX {
		path := filepath.Join(rc.runDir, views.WorkbookFile)
		if err := views.ExportWorkbook(path, a.Averages, a.Sections, a.Batches); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		rc.files = append(rc.files, path)
	}

	utils.L().Info("report written to %s (%d file(s))", rc.runDir, len(rc.files))
	return nil
}

func (rc *ReportController) prepareRunDir() error {
	dir := filepath.Join(rc.cfg.OutputDir, utils.RunName(rc.cfg.RunPrefix, rc.now()))
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("run dir %s already exists", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}
	rc.runDir = dir
	return nil
}

func (rc *ReportController) discardRunDir() {
	if rmErr := os.RemoveAll(rc.runDir); rmErr != nil {
		utils.L().Warn("remove partial run dir %s: %v", rc.runDir, rmErr)
	}
	rc.runDir, rc.files = "", nil
}

func (rc *ReportController) writeFile(name string, render func(io.Writer) error) error {
	path := filepath.Join(rc.runDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	rc.files = append(rc.files, path)
	return nil
}

// RunDir returns the directory files were written to, or "" if none were.
func (rc *ReportController) RunDir() string {
	return rc.runDir
}

// Files returns every file written by the last Report call.
func (rc *ReportController) Files() []string {
	return rc.files
}
