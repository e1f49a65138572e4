package contradiction

import (
	"context"
	"iter"
	"sort"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
)

// Service scans groups of holdings pairwise
type Service struct {
	config ServiceConfig
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	MaxPairs      int
	MaxConcurrent int
	// MaxExplanations caps the explanations kept per finding.
	MaxExplanations int
	// IncludeRedundant also reports pairs where one holding implies the other.
	IncludeRedundant bool
}

// DefaultServiceConfig returns default service configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxPairs:        5000,
		MaxConcurrent:   8,
		MaxExplanations: 3,
	}
}

// NewService creates a new scanning service
func NewService(config ServiceConfig) *Service {
	defaults := DefaultServiceConfig()
	if config.MaxPairs <= 0 {
		config.MaxPairs = defaults.MaxPairs
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = defaults.MaxConcurrent
	}
	if config.MaxExplanations <= 0 {
		config.MaxExplanations = defaults.MaxExplanations
	}
	return &Service{config: config}
}

type pair struct {
	left, right Entry
}

// pairs lists each unordered pair once, skipping self-pairs.
func pairs(entries []Entry) []pair {
	var out []pair
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			out = append(out, pair{entries[i], entries[j]})
		}
	}
	return out
}

// Scan compares every pair of entries and returns the findings ordered by
// severity, then by position.
func (s *Service) Scan(ctx context.Context, entries []Entry) (*Report, error) {
	candidates := pairs(entries)
	report := &Report{Findings: []Finding{}}
	if len(candidates) > s.config.MaxPairs {
		report.PairsSkipped = len(candidates) - s.config.MaxPairs
		candidates = candidates[:s.config.MaxPairs]
	}

	sem := make(chan struct{}, s.config.MaxConcurrent)
	results := make(chan []Finding, len(candidates))

	launched := 0
	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sem <- struct{}{}
		launched++
		go func(p pair) {
			defer func() { <-sem }()
			results <- s.check(p)
		}(p)
	}

	for range launched {
		report.Findings = append(report.Findings, <-results...)
	}
	report.PairsChecked = launched

	sort.Slice(report.Findings, func(i, j int) bool {
		a, b := report.Findings[i], report.Findings[j]
		if severityOrder(a.Severity) != severityOrder(b.Severity) {
			return severityOrder(a.Severity) > severityOrder(b.Severity)
		}
		if a.Left.Source != b.Left.Source {
			return a.Left.Source < b.Left.Source
		}
		if a.Left.Index != b.Left.Index {
			return a.Left.Index < b.Left.Index
		}
		if a.Right.Source != b.Right.Source {
			return a.Right.Source < b.Right.Source
		}
		return a.Right.Index < b.Right.Index
	})
	return report, nil
}

func (s *Service) check(p pair) []Finding {
	left, right := p.left.Holding, p.right.Holding

	if found := s.collect(left.ExplanationsContradiction(right)); len(found) > 0 {
		severity := SeverityHigh
		if !left.RuleValid() || !right.RuleValid() {
			severity = SeverityMedium
		}
		return []Finding{{
			Left:         p.left,
			Right:        p.right,
			Kind:         KindContradiction,
			Severity:     severity,
			Explanations: found,
		}}
	}

	if !s.config.IncludeRedundant {
		return nil
	}
	var out []Finding
	if found := s.collect(left.ExplanationsImplication(right)); len(found) > 0 {
		out = append(out, Finding{Left: p.left, Right: p.right, Kind: KindRedundancy, Severity: SeverityLow, Explanations: found})
	}
	if found := s.collect(right.ExplanationsImplication(left)); len(found) > 0 {
		out = append(out, Finding{Left: p.right, Right: p.left, Kind: KindRedundancy, Severity: SeverityLow, Explanations: found})
	}
	return out
}

func (s *Service) collect(seq iter.Seq[factor.Explanation]) []factor.Explanation {
	var out []factor.Explanation
	for e := range seq {
		out = append(out, e)
		if len(out) == s.config.MaxExplanations {
			break
		}
	}
	return out
}

// GroupBySeverity groups findings by severity level
func GroupBySeverity(findings []Finding) map[Severity][]Finding {
	grouped := make(map[Severity][]Finding)
	for _, f := range findings {
		grouped[f.Severity] = append(grouped[f.Severity], f)
	}
	return grouped
}

// GroupByKind groups findings by kind
func GroupByKind(findings []Finding) map[Kind][]Finding {
	grouped := make(map[Kind][]Finding)
	for _, f := range findings {
		grouped[f.Kind] = append(grouped[f.Kind], f)
	}
	return grouped
}

// GroupBySource groups findings by the pair of documents involved
func GroupBySource(findings []Finding) map[string][]Finding {
	grouped := make(map[string][]Finding)
	for _, f := range findings {
		key := f.Left.Source + " <-> " + f.Right.Source
		grouped[key] = append(grouped[key], f)
	}
	return grouped
}

func severityOrder(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}
