package views

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"helmet-analyzer/models"
	"helmet-analyzer/utils"
)

// CSVWriter is a buffered CSV file writer. Rows are held in memory by the
// bufio layer and only reach the file on Close.
type CSVWriter struct {
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	rows uint64
}

// NewCSVWriter creates (truncating) a file and writes the CSV header row.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv create %s: %w", path, err)
	}

	bw := bufio.NewWriterSize(f, 64*1024)
	cw := csv.NewWriter(bw)

	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("csv write header: %w", err)
		}
	}

	return &CSVWriter{file: f, buf: bw, csv: cw}, nil
}

// WriteRow appends a single CSV row.
func (w *CSVWriter) WriteRow(row []string) error {
	if err := w.csv.Write(row); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Close flushes remaining data and closes the file.
func (w *CSVWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("csv flush: %w", err)
	}
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("csv flush: %w", err)
	}
	return w.file.Close()
}

// Rows returns the number of data rows written (excludes header).
func (w *CSVWriter) Rows() uint64 {
	return w.rows
}

// ExportCSV writes summary.csv (one row per section) and readings.csv
// (every tagged reading with its section) into dir.
func ExportCSV(dir string, avgs []models.SectionAverage, sections []models.Section, batches map[models.Section][]models.TrialBatch) error {
	summary := make([][]string, 0, len(avgs))
	for i := range avgs {
		summary = append(summary, avgs[i].CSVRow())
	}
	if err := exportTable(filepath.Join(dir, SummaryFile), SchemaSummary, summary); err != nil {
		return err
	}

	var readings [][]string
	for _, s := range sections {
		for _, b := range batches[s] {
			for i, r := range b.Readings {
				readings = append(readings, append([]string{s.Label(), strconv.Itoa(i)}, r.CSVRow()...))
			}
		}
	}
	return exportTable(filepath.Join(dir, ReadingsFile), SchemaReadings, readings)
}

// exportTable writes one CSV file with the columns registered for kind.
func exportTable(path string, kind SchemaKind, rows [][]string) error {
	w, err := NewCSVWriter(path, SchemaColumns[kind])
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			w.Close()
			return fmt.Errorf("write %s row: %w", kind, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", kind, err)
	}
	utils.L().Debug("exported %s  (%d rows) to %s", kind, w.Rows(), path)
	return nil
}
