package records

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
)

const copyrightText = "Copyright protection subsists, in accordance with this title, in original works of authorship fixed in any tangible medium of expression."

const copyrightYAML = `
holdings:
  - mandatory: true
    universal: true
    inputs:
      - type: fact
        name: originality
        content: "$work was an original work"
        terms:
          - type: entity
            name: work
    outputs:
      - type: fact
        content: "$work was copyrightable"
        terms:
          - name: work
    enactments:
      - node: /us/usc/t17/s102/a
        quotes:
          - exact: original works of authorship
  - rule_valid: false
    mandatory: true
    inputs:
      - name: originality
    outputs:
      - type: fact
        content: "$work was copyrightable"
        truth: false
        terms:
          - name: work
`

type fakeSource map[string]string

func (s fakeSource) ProvisionText(_ context.Context, node string) (string, string, error) {
	content, ok := s[node]
	if !ok {
		return "", "", errors.New("no such provision")
	}
	return "Subject matter of copyright", content, nil
}

func TestDecodeYAMLDocument(t *testing.T) {
	doc, err := Parse([]byte(copyrightYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, doc.Holdings, 2)

	d := NewDecoder(fakeSource{"/us/usc/t17/s102/a": copyrightText})
	holdings, err := d.Holdings(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, holdings, 2)

	first, second := holdings[0], holdings[1]
	assert.True(t, first.Rule().Universal())
	assert.False(t, second.RuleValid())
	assert.True(t, second.Decided())

	require.Len(t, first.Rule().Enactments(), 1)
	e := first.Rule().Enactments()[0]
	assert.Equal(t, "Subject matter of copyright", e.Heading())
	assert.Equal(t, "original works of authorship", e.SelectedText())

	originality, ok := d.Lookup("originality")
	require.True(t, ok)
	assert.Same(t, originality, first.Rule().Inputs()[0])
	assert.Same(t, originality, second.Rule().Inputs()[0])
	assert.Equal(t, "the fact that <work> was copyrightable", first.Rule().Outputs()[0].String())
}

func TestDecodeJSONFactor(t *testing.T) {
	data := []byte(`{"holdings": [{"outputs": [
		{"type": "fact", "content": "the distance between $place1 and $place2 was", "sign": "<=", "expression": "35 feet",
		 "terms": [{"type": "entity", "name": "Hideaway Lodge", "generic": false}, {"type": "entity", "name": "the stockpile"}]}
	]}]}`)
	doc, err := Parse(data, FormatJSON)
	require.NoError(t, err)

	h, err := NewDecoder(nil).Holding(context.Background(), doc.Holdings[0])
	require.NoError(t, err)
	out := h.Rule().Outputs()[0]
	fact, ok := out.(*factor.Fact)
	require.True(t, ok)
	assert.True(t, fact.Predicate().IsComparison())
	terms := fact.Terms()
	require.Len(t, terms, 2)
	assert.False(t, terms[0].IsGeneric())
	assert.True(t, terms[1].IsGeneric())
}

func TestDecodeNestedFactors(t *testing.T) {
	d := NewDecoder(nil)
	statement := &FactorRecord{
		Type:    TypeFact,
		Content: "$speaker was at the scene",
		Terms:   []*FactorRecord{{Type: TypeEntity, Name: "witness"}},
	}
	evidence := &FactorRecord{
		Type: TypeEvidence,
		Exhibit: &FactorRecord{
			Type:                 TypeExhibit,
			Form:                 "testimony",
			Statement:            statement,
			StatementAttribution: &FactorRecord{Name: "witness"},
		},
	}
	f, err := d.Factor(evidence)
	require.NoError(t, err)
	assert.Equal(t, factor.KindEvidence, f.Kind())
	assert.Contains(t, f.String(), "the testimony attributed to <witness>")

	allegation := &FactorRecord{
		Type:     TypeAllegation,
		Absent:   true,
		Pleading: &FactorRecord{Type: TypePleading, Filer: &FactorRecord{Name: "witness"}},
	}
	f, err = d.Factor(allegation)
	require.NoError(t, err)
	assert.True(t, f.IsAbsent())
}

func TestDecodeErrors(t *testing.T) {
	d := NewDecoder(nil)

	_, err := d.Factor(&FactorRecord{Name: "nobody"})
	assert.ErrorIs(t, err, ErrUnknownName)

	_, err = d.Factor(&FactorRecord{Type: TypeEntity})
	assert.ErrorIs(t, err, ErrUnnamedEntity)

	_, err = d.Factor(&FactorRecord{
		Type:   TypePleading,
		Filer:  &FactorRecord{Type: TypeFact, Content: "$x was a person", Terms: []*FactorRecord{{Type: TypeEntity, Name: "x"}}},
		Absent: false,
	})
	assert.ErrorIs(t, err, ErrWrongKind)

	_, err = d.Factor(&FactorRecord{Type: TypeEntity, Name: "same"})
	require.NoError(t, err)
	_, err = d.Factor(&FactorRecord{Type: TypeEntity, Name: "same", Generic: new(bool)})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = d.Factor(&FactorRecord{Type: TypeEntity, Name: "Alice"})
	require.NoError(t, err)
	_, err = d.Factor(&FactorRecord{Type: TypeEntity, Name: "Alice", Plural: true})
	assert.ErrorIs(t, err, factor.ErrConflictingPlurality)

	_, err = d.Factor(&FactorRecord{Type: TypeFact, Content: "$a paid $b", Terms: []*FactorRecord{{Type: TypeEntity, Name: "a"}}})
	assert.ErrorIs(t, err, factor.ErrTermCount)

	_, err = d.Enactment(context.Background(), &EnactmentRecord{Node: "/us/const"})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestValidation(t *testing.T) {
	_, err := Parse([]byte(`holdings: []`), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte(`holdings: [{outputs: [{type: statute}]}]`), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte(`holdings: [{outputs: [{type: fact}]}]`), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte(`{"holdings": [{"outputs": [{"type": "entity", "name": "x"}], "color": "red"}]}`), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte(`{}`), Format("toml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holdings.yml")
	require.NoError(t, os.WriteFile(path, []byte(copyrightYAML), 0644))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Holdings, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "holdings.txt"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
