package models

import "fmt"

// Section identifies one of the fixed experimental conditions a helmet log
// is split into. The set is closed; labels are the exact strings the test
// operator typed into the serial log.
type Section int

const (
	SectionWornNotBuckled Section = iota
	SectionWornBuckled
	SectionRemovedNotBuckled
)

var sectionLabels = map[Section]string{
	SectionWornNotBuckled:    "Helmet worn Not buckled",
	SectionWornBuckled:       "Helmet worn and buckled",
	SectionRemovedNotBuckled: "Helmet remove and Not Bucked", // sic, matches the recorded logs
}

// AllSections returns every known section in canonical order.
func AllSections() []Section {
	return []Section{SectionWornNotBuckled, SectionWornBuckled, SectionRemovedNotBuckled}
}

// Label returns the header text used for this section in the raw logs.
func (s Section) Label() string {
	if l, ok := sectionLabels[s]; ok {
		return l
	}
	return "unknown"
}

func (s Section) String() string { return s.Label() }

// ParseSection maps a raw label back to its Section.
func ParseSection(label string) (Section, error) {
	for _, s := range AllSections() {
		if sectionLabels[s] == label {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown section label %q", label)
}
