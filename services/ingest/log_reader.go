package ingest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"helmet-analyzer/models"
	"helmet-analyzer/utils"
)

// ErrFileAccess is returned (wrapped) when a trial log cannot be opened or read.
var ErrFileAccess = errors.New("trial file access")

const (
	headerMarker = "##"
	maxLineLen   = 1024 * 1024
)

var (
	readingRe = regexp.MustCompile(`helmetTouched:\s*(\d+),\s*fsrValue:\s*(\d+),\s*buckled:\s*(\d+)`)
	statusRe  = regexp.MustCompile(`Status sent:\s*(\w+),\s*Helmet Response Time:\s*(\d+)\s*ms`)
)

// ParsedLog is the content of one trial log split by section.
// Every configured section has an entry, possibly empty.
type ParsedLog struct {
	Readings map[models.Section][]models.Reading
	Events   map[models.Section][]models.StatusEvent
	Stats    ParseStats
}

// ParseStats counts what the reader saw; used for debug logging only.
type ParseStats struct {
	Lines     int
	Headers   int
	Readings  int
	Events    int
	Orphans   int // data lines before any recognised header
	Overflows int // digit groups too large for int
	LongLines int // lines over maxLineLen, dropped unread
}

// LogReader turns serial-monitor captures from the helmet unit into readings.
type LogReader struct {
	sections []models.Section
	exact    bool
}

// NewLogReader builds a reader for the given sections, scanned in the given
// order when a header could match more than one. matchMode is
// utils.HeaderMatchSubstring or utils.HeaderMatchExact.
func NewLogReader(sections []models.Section, matchMode string) *LogReader {
	return &LogReader{
		sections: sections,
		exact:    matchMode == utils.HeaderMatchExact,
	}
}

// ReadFile parses the log at path. Content never causes an error: undecodable
// bytes are dropped and unrecognised lines ignored.
func (r *LogReader) ReadFile(path string) (*ParsedLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	defer f.Close()

	out := &ParsedLog{
		Readings: make(map[models.Section][]models.Reading, len(r.sections)),
		Events:   make(map[models.Section][]models.StatusEvent, len(r.sections)),
	}
	for _, s := range r.sections {
		out.Readings[s] = []models.Reading{}
	}

	var (
		current models.Section
		inside  bool
	)

	split := &lineSplitter{max: maxLineLen}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineLen+1)
	sc.Split(split.split)
	for sc.Scan() {
		out.Stats.Lines++
		line := strings.TrimSpace(strings.ToValidUTF8(sc.Text(), ""))

		if strings.HasPrefix(line, headerMarker) {
			if s, ok := r.matchHeader(line); ok {
				current, inside = s, true
				out.Stats.Headers++
			}
			continue
		}

		if m := readingRe.FindStringSubmatch(line); m != nil {
			if !inside {
				out.Stats.Orphans++
				continue
			}
			rd, ok := parseReading(m)
			if !ok {
				out.Stats.Overflows++
				continue
			}
			out.Readings[current] = append(out.Readings[current], rd)
			out.Stats.Readings++
			continue
		}

		if m := statusRe.FindStringSubmatch(line); m != nil && inside {
			ms, err := strconv.Atoi(m[2])
			if err != nil {
				out.Stats.Overflows++
				continue
			}
			out.Events[current] = append(out.Events[current], models.StatusEvent{Status: m[1], ResponseMs: ms})
			out.Stats.Events++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrFileAccess, path, err)
	}
	out.Stats.LongLines = split.dropped

	st := out.Stats
	utils.L().Debug("parsed %s  (lines=%d, headers=%d, readings=%d, events=%d, orphans=%d, overflows=%d, long=%d)",
		path, st.Lines, st.Headers, st.Readings, st.Events, st.Orphans, st.Overflows, st.LongLines)
	return out, nil
}

// matchHeader returns the first configured section the header line names.
func (r *LogReader) matchHeader(line string) (models.Section, bool) {
	if r.exact {
		body := strings.TrimFunc(strings.TrimPrefix(line, headerMarker), notAlnum)
		for _, s := range r.sections {
			if body == s.Label() {
				return s, true
			}
		}
		return 0, false
	}
	for _, s := range r.sections {
		if strings.Contains(line, s.Label()) {
			return s, true
		}
	}
	return 0, false
}

func notAlnum(c rune) bool {
	return !unicode.IsLetter(c) && !unicode.IsDigit(c)
}

func parseReading(m []string) (models.Reading, bool) {
	var v [3]int
	for i := range v {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return models.Reading{}, false
		}
		v[i] = n
	}
	return models.Reading{HelmetTouched: v[0], FSRValue: v[1], Buckled: v[2]}, true
}

// lineSplitter is a bufio.SplitFunc source that ends lines at "\n", "\r\n"
// or a lone "\r". A line longer than max is skipped up to its terminator
// and counted in dropped.
type lineSplitter struct {
	max     int
	skip    bool
	dropped int
}

func (s *lineSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance := i + 1
		if data[i] == '\r' {
			switch {
			case i+1 < len(data):
				if data[i+1] == '\n' {
					advance++
				}
			case !atEOF && len(data) < s.max:
				return 0, nil, nil // a "\n" may follow in the next read
			}
		}
		if s.skip {
			s.skip = false
			return advance, nil, nil
		}
		return advance, data[:i], nil
	}
	if atEOF {
		if s.skip {
			s.skip = false
			return len(data), nil, nil
		}
		return len(data), data, nil
	}
	if len(data) >= s.max {
		if !s.skip {
			s.skip = true
			s.dropped++
		}
		return len(data), nil, nil
	}
	return 0, nil, nil
}
