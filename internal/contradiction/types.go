// Package contradiction scans a casebook for holdings that cannot all be
// accepted together, or that restate one another.
package contradiction

import (
	"fmt"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/holding"
)

// Kind names what a finding says about a pair of holdings
type Kind string

const (
	KindContradiction Kind = "contradiction"
	// KindRedundancy marks a pair where the left holding implies the right.
	KindRedundancy Kind = "redundancy"
)

// Severity ranks findings for review
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Entry is a holding together with where it came from
type Entry struct {
	Source  string
	Index   int
	Holding *holding.Holding
}

// Label identifies the entry as "source[index]".
func (e Entry) Label() string {
	return fmt.Sprintf("%s[%d]", e.Source, e.Index)
}

// Finding is one related pair of holdings
type Finding struct {
	Left         Entry
	Right        Entry
	Kind         Kind
	Severity     Severity
	Explanations []factor.Explanation
}

// Report is the outcome of a scan
type Report struct {
	Findings     []Finding
	PairsChecked int
	// PairsSkipped counts pairs left out once MaxPairs was reached.
	PairsSkipped int
}
