package models

import (
	"time"
)

// Factor is a rendered factor
type Factor struct {
	Kind    string `json:"kind"`
	Name    string `json:"name,omitempty"`
	Text    string `json:"text"`
	Generic bool   `json:"generic"`
	Absent  bool   `json:"absent"`
}

// Binding pairs a term of the left side with a term of the right side
type Binding struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Explanation is one way of matching terms that makes a relation hold
type Explanation struct {
	Relation string    `json:"relation"`
	Context  []Binding `json:"context"`
	Text     string    `json:"text"`
}

// Comparison is the result of comparing two factors or two holdings
type Comparison struct {
	ID           string        `json:"id"`
	Relation     string        `json:"relation"`
	Holds        bool          `json:"holds"`
	Explanations []Explanation `json:"explanations"`
	Truncated    bool          `json:"truncated,omitempty"`
}

// Enactment is a cited passage of legislation
type Enactment struct {
	Node         string   `json:"node"`
	Heading      string   `json:"heading,omitempty"`
	SelectedText string   `json:"selected_text"`
	Passages     []string `json:"passages"`
}

// Rule is a rendered rule
type Rule struct {
	Name              string      `json:"name,omitempty"`
	Mandatory         bool        `json:"mandatory"`
	Universal         bool        `json:"universal"`
	Outputs           []Factor    `json:"outputs"`
	Inputs            []Factor    `json:"inputs"`
	Despite           []Factor    `json:"despite"`
	Enactments        []Enactment `json:"enactments"`
	EnactmentsDespite []Enactment `json:"enactments_despite"`
}

// Holding is a rendered holding
type Holding struct {
	Text      string `json:"text"`
	Decided   bool   `json:"decided"`
	RuleValid bool   `json:"rule_valid"`
	Exclusive bool   `json:"exclusive"`
	Rule      Rule   `json:"rule"`
}

// Combination is the result of adding or uniting two holdings
type Combination struct {
	ID        string  `json:"id"`
	Operation string  `json:"operation"`
	Holding   Holding `json:"holding"`
}

// Provision is one version of a legislative node's text
type Provision struct {
	Node      string     `json:"node"`
	Heading   string     `json:"heading,omitempty"`
	Content   string     `json:"content"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Finding is one related pair found by a casebook scan
type Finding struct {
	Left         int           `json:"left"`
	Right        int           `json:"right"`
	Kind         string        `json:"kind"`
	Severity     string        `json:"severity"`
	Explanations []Explanation `json:"explanations"`
}

// ScanReport lists the findings of a casebook scan
type ScanReport struct {
	ID           string    `json:"id"`
	Findings     []Finding `json:"findings"`
	PairsChecked int       `json:"pairs_checked"`
	PairsSkipped int       `json:"pairs_skipped,omitempty"`
}
