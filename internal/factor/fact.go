package factor

import (
	"fmt"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/predicate"
)

// Fact asserts a predicate about an ordered list of terms, optionally as
// found under a standard of proof.
type Fact struct {
	attrs
	predicate *predicate.Predicate
	terms     []Factor
	groups    [][]int
	levels    int
	key       string
}

// NewFact builds a Fact. The terms fill the template's placeholders in
// order of first appearance.
func NewFact(p *predicate.Predicate, terms []Factor, opts ...Option) (*Fact, error) {
	var a attrs
	for _, opt := range opts {
		opt(&a)
	}
	return newFact(a, p, terms)
}

func newFact(a attrs, p *predicate.Predicate, terms []Factor) (*Fact, error) {
	if p == nil {
		return nil, ErrNilPredicate
	}
	if n := p.Template().Len(); len(terms) != n {
		return nil, fmt.Errorf("%w: %q has %d placeholders, got %d terms",
			ErrTermCount, p.Template().Content(), n, len(terms))
	}
	for i, t := range terms {
		if t == nil {
			return nil, fmt.Errorf("%w: term %d is missing", ErrTermCount, i)
		}
	}
	if a.standard != "" && standardRank(a.standard) < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStandard, a.standard)
	}
	a.plural = false

	groups := p.Template().InterchangeableGroups()
	for _, g := range groups {
		first := terms[g[0]]
		for _, i := range g[1:] {
			if terms[i].Kind() != first.Kind() || isPlural(terms[i]) != isPlural(first) {
				return nil, fmt.Errorf("%w: %s and %s", ErrInterchangeableMismatch, first, terms[i])
			}
		}
	}

	levels, err := checkSlots(terms)
	if err != nil {
		return nil, err
	}

	f := &Fact{
		attrs:     a,
		predicate: p,
		terms:     append([]Factor(nil), terms...),
		groups:    groups,
		levels:    levels,
	}
	f.key = decorate(a, f.body())
	return f, nil
}

func isPlural(f Factor) bool {
	e, ok := f.(*Entity)
	return ok && e.plural
}

func (f *Fact) body() string {
	words := make([]string, len(f.terms))
	for i, t := range f.terms {
		words[i] = t.String()
	}
	sentence := f.predicate.Render(words)
	if f.standard != "" {
		return "the fact it was found by " + f.standard + " that " + sentence
	}
	return "the fact that " + sentence
}

// Predicate returns the asserted predicate.
func (f *Fact) Predicate() *predicate.Predicate { return f.predicate }

// StandardOfProof returns the standard the fact was found under, if any.
func (f *Fact) StandardOfProof() string { return f.standard }

func (f *Fact) Kind() Kind               { return KindFact }
func (f *Fact) Name() string             { return f.name }
func (f *Fact) IsGeneric() bool          { return f.generic }
func (f *Fact) IsAbsent() bool           { return f.absent }
func (f *Fact) Key() string              { return f.key }
func (f *Fact) String() string           { return f.key }
func (f *Fact) Terms() []Factor          { return append([]Factor(nil), f.terms...) }
func (f *Fact) slots() []Factor          { return f.terms }
func (f *Fact) depth() int               { return f.levels }
func (f *Fact) interchangeable() [][]int { return f.groups }

func (f *Fact) concreteMatch(other Factor, rel Relation) bool {
	o := other.(*Fact)
	if rel == SameMeaning {
		return f.standard == o.standard && f.predicate.Means(o.predicate)
	}
	return standardImplies(f.standard, o.standard) && f.predicate.Implies(o.predicate)
}

// standardImplies reports whether a finding under left satisfies right.
// A fact with no standard and a fact found under some standard are not
// comparable.
func standardImplies(left, right string) bool {
	if left == "" || right == "" {
		return left == right
	}
	return standardRank(left) >= standardRank(right)
}

func (f *Fact) concreteContradiction(other Factor) bool {
	o := other.(*Fact)
	return f.standard == o.standard && f.predicate.Contradicts(o.predicate)
}

func (f *Fact) rebuild(slots []Factor) (Factor, error) {
	return newFact(f.attrs, f.predicate, slots)
}

func (f *Fact) withAbsence(absent bool) (Factor, error) {
	a := f.attrs
	a.absent = absent
	return newFact(a, f.predicate, f.terms)
}
