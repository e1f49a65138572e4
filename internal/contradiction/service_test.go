package contradiction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/records"
)

const casebookYAML = `
holdings:
  - mandatory: true
    universal: true
    inputs:
      - type: fact
        content: "$place was a dwelling"
        terms:
          - type: entity
            name: house
    outputs:
      - type: fact
        content: "$place was protected"
        terms:
          - name: house
  - mandatory: true
    universal: true
    rule_valid: false
    inputs:
      - type: fact
        content: "$place was a dwelling"
        terms:
          - type: entity
            name: cabin
    outputs:
      - type: fact
        content: "$place was protected"
        terms:
          - name: cabin
  - mandatory: true
    inputs:
      - type: fact
        content: "$place was a dwelling"
        terms:
          - type: entity
            name: shack
      - type: fact
        content: "$place was occupied"
        terms:
          - name: shack
    outputs:
      - type: fact
        content: "$place was protected"
        truth: false
        terms:
          - name: shack
  - mandatory: true
    universal: true
    decided: false
    inputs:
      - type: fact
        content: "$place was a dwelling"
        terms:
          - type: entity
            name: hut
    outputs:
      - type: fact
        content: "$place was protected"
        terms:
          - name: hut
`

const redundantYAML = `
holdings:
  - mandatory: true
    universal: true
    inputs:
      - type: fact
        content: "$place was a dwelling"
        terms:
          - type: entity
            name: house
    outputs:
      - type: fact
        content: "$place was protected"
        terms:
          - name: house
  - mandatory: true
    universal: true
    inputs:
      - type: fact
        content: "$place was a dwelling"
        terms:
          - type: entity
            name: cabin
      - type: fact
        content: "$place was occupied"
        terms:
          - name: cabin
    outputs:
      - type: fact
        content: "$place was protected"
        terms:
          - name: cabin
`

func loadEntries(t *testing.T, source, doc string) []Entry {
	t.Helper()
	parsed, err := records.Parse([]byte(doc), records.FormatYAML)
	require.NoError(t, err)
	holdings, err := records.NewDecoder(nil).Holdings(context.Background(), parsed)
	require.NoError(t, err)

	entries := make([]Entry, len(holdings))
	for i, h := range holdings {
		entries[i] = Entry{Source: source, Index: i, Holding: h}
	}
	return entries
}

func TestScanFindsContradictions(t *testing.T) {
	entries := loadEntries(t, "casebook.yaml", casebookYAML)
	svc := NewService(ServiceConfig{MaxConcurrent: 2})

	report, err := svc.Scan(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 6, report.PairsChecked)
	assert.Zero(t, report.PairsSkipped)
	require.Len(t, report.Findings, 2)

	high := report.Findings[0]
	assert.Equal(t, SeverityHigh, high.Severity)
	assert.Equal(t, KindContradiction, high.Kind)
	assert.Equal(t, "casebook.yaml[0]", high.Left.Label())
	assert.Equal(t, "casebook.yaml[2]", high.Right.Label())
	require.NotEmpty(t, high.Explanations)
	assert.Equal(t, factor.Contradiction, high.Explanations[0].Relation())

	medium := report.Findings[1]
	assert.Equal(t, SeverityMedium, medium.Severity)
	assert.Equal(t, 0, medium.Left.Index)
	assert.Equal(t, 1, medium.Right.Index)
}

func TestScanReportsRedundancy(t *testing.T) {
	entries := loadEntries(t, "dwellings.yaml", redundantYAML)

	report, err := NewService(ServiceConfig{}).Scan(context.Background(), entries)
	require.NoError(t, err)
	assert.Empty(t, report.Findings)

	report, err = NewService(ServiceConfig{IncludeRedundant: true}).Scan(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)
	f := report.Findings[0]
	assert.Equal(t, KindRedundancy, f.Kind)
	assert.Equal(t, SeverityLow, f.Severity)
	assert.Equal(t, 0, f.Left.Index)
	assert.Equal(t, 1, f.Right.Index)
	assert.Contains(t, f.Explanations[0].String(), "<house> is like <cabin>")
}

func TestScanLimits(t *testing.T) {
	entries := loadEntries(t, "casebook.yaml", casebookYAML)

	report, err := NewService(ServiceConfig{MaxPairs: 1}).Scan(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PairsChecked)
	assert.Equal(t, 5, report.PairsSkipped)

	report, err = NewService(ServiceConfig{}).Scan(context.Background(), entries[:1])
	require.NoError(t, err)
	assert.Zero(t, report.PairsChecked)
	assert.NotNil(t, report.Findings)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewService(ServiceConfig{}).Scan(ctx, entries)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGrouping(t *testing.T) {
	left := loadEntries(t, "a.yaml", casebookYAML)
	right := loadEntries(t, "b.yaml", redundantYAML)
	findings := []Finding{
		{Left: left[0], Right: left[1], Kind: KindContradiction, Severity: SeverityMedium},
		{Left: left[0], Right: right[1], Kind: KindRedundancy, Severity: SeverityLow},
		{Left: left[0], Right: left[2], Kind: KindContradiction, Severity: SeverityHigh},
	}

	bySeverity := GroupBySeverity(findings)
	assert.Len(t, bySeverity[SeverityHigh], 1)
	assert.Len(t, bySeverity[SeverityLow], 1)

	byKind := GroupByKind(findings)
	assert.Len(t, byKind[KindContradiction], 2)

	bySource := GroupBySource(findings)
	assert.Len(t, bySource["a.yaml <-> a.yaml"], 2)
	assert.Len(t, bySource["a.yaml <-> b.yaml"], 1)
}
