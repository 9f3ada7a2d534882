package ingest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helmet-analyzer/models"
	"helmet-analyzer/utils"
)

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newReader(mode string) *LogReader {
	return NewLogReader(models.AllSections(), mode)
}

func TestReadFile_SingleSection(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"## Helmet worn and buckled\n"+
		"helmetTouched: 1, fsrValue: 100, buckled: 1\n"+
		"helmetTouched: 0, fsrValue: 50, buckled: 1\n"+
		"helmetTouched: 1, fsrValue: 75, buckled: 0\n")

	got, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []models.Reading{
		{HelmetTouched: 1, FSRValue: 100, Buckled: 1},
		{HelmetTouched: 0, FSRValue: 50, Buckled: 1},
		{HelmetTouched: 1, FSRValue: 75, Buckled: 0},
	}, got.Readings[models.SectionWornBuckled])
	assert.Empty(t, got.Readings[models.SectionWornNotBuckled])
	assert.Empty(t, got.Readings[models.SectionRemovedNotBuckled])
	assert.Len(t, got.Readings, 3, "every configured section has an entry")
	assert.Equal(t, 3, got.Stats.Readings)
}

func TestReadFile_SectionReassignmentAndOrphans(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"helmetTouched: 9, fsrValue: 9, buckled: 9\n"+
		"## Helmet worn Not buckled\n"+
		"helmetTouched: 1, fsrValue: 10, buckled: 0\n"+
		"## Helmet remove and Not Bucked\n"+
		"helmetTouched: 0, fsrValue: 0, buckled: 0\n"+
		"helmetTouched: 0, fsrValue: 1, buckled: 0\n")

	got, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []models.Reading{{HelmetTouched: 1, FSRValue: 10}}, got.Readings[models.SectionWornNotBuckled])
	assert.Len(t, got.Readings[models.SectionRemovedNotBuckled], 2)
	assert.Empty(t, got.Readings[models.SectionWornBuckled])
	assert.Equal(t, 1, got.Stats.Orphans)
}

func TestReadFile_UnknownHeaderKeepsCursor(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"## Helmet worn and buckled\n"+
		"helmetTouched: 1, fsrValue: 1, buckled: 1\n"+
		"## calibration pause\n"+
		"helmetTouched: 1, fsrValue: 2, buckled: 1\n")

	got, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got.Readings[models.SectionWornBuckled], 2)
}

func TestReadFile_HeaderNeverYieldsReading(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"## Helmet worn and buckled helmetTouched: 1, fsrValue: 1, buckled: 1\n")

	got, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got.Readings[models.SectionWornBuckled])
	assert.Equal(t, 1, got.Stats.Headers)
}

func TestReadFile_IgnoresNoise(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"## Helmet worn and buckled\n"+
		"# just a comment\n"+
		"helmetTouched: 1, fsrValue: 2\n"+
		"fsrValue: 2, helmetTouched: 1, buckled: 1\n"+
		"helmetTouched: -1, fsrValue: 2, buckled: 1\n"+
		"helmetTouched: 1, fsrValue: 2.5, buckled: 1\n"+
		"Bike connected.\n"+
		"\n")

	got, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)
	for _, s := range models.AllSections() {
		assert.Empty(t, got.Readings[s], s.Label())
	}
}

func TestReadFile_ToleratesSymbolsAndBadBytes(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"## ✅ Helmet worn Not buckled\n"+
		"\xff\xfe helmetTouched: 1, fsrValue: 300, buckled: 0 ⚠️\n"+
		"\xff## Helmet worn and \xc3buckled\n"+ // broken bytes inside the label
		"helmetTouched: 1, fsrValue: 400, buckled: 1\n")

	got, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Reading{{HelmetTouched: 1, FSRValue: 300}}, got.Readings[models.SectionWornNotBuckled])
	assert.Equal(t, []models.Reading{{HelmetTouched: 1, FSRValue: 400, Buckled: 1}}, got.Readings[models.SectionWornBuckled])
}

func TestReadFile_OverflowDropped(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"## Helmet worn and buckled\n"+
		"helmetTouched: 1, fsrValue: 99999999999999999999999999, buckled: 1\n"+
		"helmetTouched: 1, fsrValue: 5, buckled: 1\n")

	got, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Reading{{HelmetTouched: 1, FSRValue: 5, Buckled: 1}}, got.Readings[models.SectionWornBuckled])
	assert.Equal(t, 1, got.Stats.Overflows)
}

func TestReadFile_StatusEvents(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"Status sent: warn, Helmet Response Time: 99 ms\n"+
		"## Helmet worn and buckled\n"+
		"helmetTouched: 1, fsrValue: 120, buckled: 1\n"+
		"Status sent: true, Helmet Response Time: 12 ms\n")

	got, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []models.StatusEvent{{Status: "true", ResponseMs: 12}}, got.Events[models.SectionWornBuckled])
	assert.Empty(t, got.Events[models.SectionWornNotBuckled])
}

func TestReadFile_FirstConfiguredLabelWins(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"## Helmet worn and buckled / Helmet worn Not buckled\n"+
		"helmetTouched: 1, fsrValue: 1, buckled: 1\n")

	r := NewLogReader([]models.Section{models.SectionWornNotBuckled, models.SectionWornBuckled}, utils.HeaderMatchSubstring)
	got, err := r.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got.Readings[models.SectionWornNotBuckled], 1)
	assert.Empty(t, got.Readings[models.SectionWornBuckled])
}

func TestReadFile_ExactHeaderMatch(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"## ✅ Helmet worn Not buckled\n"+
		"helmetTouched: 1, fsrValue: 1, buckled: 0\n"+
		"## Helmet worn and buckled (trial 2)\n"+
		"helmetTouched: 1, fsrValue: 2, buckled: 1\n")

	got, err := newReader(utils.HeaderMatchExact).ReadFile(path)
	require.NoError(t, err)
	// The second header is not an exact label, so the cursor stays put.
	assert.Len(t, got.Readings[models.SectionWornNotBuckled], 2)
	assert.Empty(t, got.Readings[models.SectionWornBuckled])
}

func TestReadFile_MissingFile(t *testing.T) {
	_, err := newReader(utils.HeaderMatchSubstring).ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileAccess))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadFile_OverlongLineDropped(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"## Helmet worn and buckled\n"+
		strings.Repeat("x", 2*maxLineLen)+" helmetTouched: 1, fsrValue: 9, buckled: 1\n"+
		"helmetTouched: 1, fsrValue: 120, buckled: 1\n")

	got, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Reading{{HelmetTouched: 1, FSRValue: 120, Buckled: 1}}, got.Readings[models.SectionWornBuckled])
	assert.Equal(t, 1, got.Stats.LongLines)
	assert.Equal(t, 2, got.Stats.Lines)
}

func TestReadFile_OverlongLastLine(t *testing.T) {
	path := writeLog(t, "trial.csv", ""+
		"## Helmet worn and buckled\n"+
		"helmetTouched: 1, fsrValue: 120, buckled: 1\n"+
		strings.Repeat("y", maxLineLen+10))

	got, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got.Readings[models.SectionWornBuckled], 1)
	assert.Equal(t, 1, got.Stats.LongLines)
}

func TestReadFile_LineEndings(t *testing.T) {
	logs := map[string]string{
		"cr":   "## Helmet worn and buckled\rhelmetTouched: 1, fsrValue: 10, buckled: 1\rhelmetTouched: 1, fsrValue: 20, buckled: 1\r",
		"crlf": "## Helmet worn and buckled\r\nhelmetTouched: 1, fsrValue: 10, buckled: 1\r\nhelmetTouched: 1, fsrValue: 20, buckled: 1",
		"mix":  "## Helmet worn and buckled\nhelmetTouched: 1, fsrValue: 10, buckled: 1\rhelmetTouched: 1, fsrValue: 20, buckled: 1\r\n",
	}
	for name, content := range logs {
		t.Run(name, func(t *testing.T) {
			got, err := newReader(utils.HeaderMatchSubstring).ReadFile(writeLog(t, "trial.csv", content))
			require.NoError(t, err)
			assert.Equal(t, []float64{10, 20}, models.TrialBatch{Readings: got.Readings[models.SectionWornBuckled]}.FSRSeries())
			assert.Equal(t, 3, got.Stats.Lines)
		})
	}
}

func TestLineSplitter_CRAtBufferEdge(t *testing.T) {
	s := &lineSplitter{max: 64}

	advance, token, err := s.split([]byte("abc\r"), false)
	require.NoError(t, err)
	assert.Zero(t, advance, "waits for a possible \\n")
	assert.Nil(t, token)

	advance, token, err = s.split([]byte("abc\r"), true)
	require.NoError(t, err)
	assert.Equal(t, 4, advance)
	assert.Equal(t, []byte("abc"), token)
}

func TestReadFile_DebugCountersLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := utils.ReplaceLogger(utils.NewLogger(utils.DEBUG, &buf))
	t.Cleanup(func() { utils.ReplaceLogger(prev) })

	path := writeLog(t, "trial.csv", ""+
		"## Helmet worn and buckled\n"+
		"helmetTouched: 1, fsrValue: 99999999999999999999999999, buckled: 1\n")

	_, err := newReader(utils.HeaderMatchSubstring).ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "overflows=1")
	assert.Contains(t, buf.String(), "long=0")
}
