package views

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"helmet-analyzer/models"
)

// maxSheetName is Excel's limit on worksheet name length.
const maxSheetName = 31

// ExportWorkbook writes a workbook with a Summary sheet followed by one sheet
// of raw readings per section, in configured order.
func ExportWorkbook(path string, avgs []models.SectionAverage, sections []models.Section, batches map[models.Section][]models.TrialBatch) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheetName); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	header := SchemaColumns[SchemaSummary]
	if err := f.SetSheetRow(summarySheetName, "A1", &header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for i, a := range avgs {
		row := []interface{}{
			a.Section.Label(), a.FSRAvg, a.HelmetTouchAvg, a.BuckleAvg,
			a.Readings, a.Trials, a.SecureRatio, a.ResponseAvgMs, a.ResponseSamples,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheetName, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}

	readingsHeader := models.Reading{}.CSVHeader()
	readingsHeader = append([]string{"sample"}, readingsHeader...)
	for _, s := range sections {
		name := SheetName(s)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := f.SetSheetRow(name, "A1", &readingsHeader); err != nil {
			return fmt.Errorf("write %q header: %w", name, err)
		}
		rowIdx := 2
		for _, b := range batches[s] {
			for i, r := range b.Readings {
				row := []interface{}{i, r.Trial, r.HelmetTouched, r.FSRValue, r.Buckled}
				cell, err := excelize.CoordinatesToCellName(1, rowIdx)
				if err != nil {
					return err
				}
				if err := f.SetSheetRow(name, cell, &row); err != nil {
					return fmt.Errorf("write %q row %d: %w", name, rowIdx, err)
				}
				rowIdx++
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// SheetName returns the worksheet name used for a section.
func SheetName(s models.Section) string {
	name := s.Label()
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
