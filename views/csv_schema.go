package views

import "helmet-analyzer/models"

// Output file names inside a run directory.
const (
	SummaryFile      = "summary.csv"
	ReadingsFile     = "readings.csv"
	WorkbookFile     = "helmet_results.xlsx"
	AveragesChart    = "averages.png"
	SectionsChart    = "sections.png"
	summarySheetName = "Summary"
)

// SchemaKind identifies an export table for column lookups.
type SchemaKind int

const (
	SchemaSummary SchemaKind = iota
	SchemaReadings
)

var schemaNames = map[SchemaKind]string{
	SchemaSummary:  "summary",
	SchemaReadings: "readings",
}

func (k SchemaKind) String() string {
	if n, ok := schemaNames[k]; ok {
		return n
	}
	return "unknown"
}

// SchemaColumns is the single source of truth for export column ordering,
// shared by the CSV and XLSX writers.
var SchemaColumns = map[SchemaKind][]string{
	SchemaSummary:  models.SectionAverage{}.CSVHeader(),
	SchemaReadings: append([]string{"section", "sample"}, models.Reading{}.CSVHeader()...),
}
