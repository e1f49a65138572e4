// Package predicate holds the sentence templates that Facts assert about
// their terms, and Comparisons that measure a quantity against a sign and
// an expression.
package predicate

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTemplate       = errors.New("predicate template is empty")
	ErrComparisonConnector = errors.New(`comparison template must end with "was" or "were"`)
	ErrUnknownSign         = errors.New("unknown comparison sign")
	ErrUnknownUnit         = errors.New("unknown unit")
	ErrInvalidExpression   = errors.New("invalid comparison expression")
	ErrMissingExpression   = errors.New("comparison needs an expression")
	ErrEmptyRange          = errors.New("comparison admits no value")
)

// Predicate is a template plus a truth value. A Predicate with a sign and
// an expression is a Comparison.
//
// A Comparison built with truth=false is normalized at construction: the
// sign is inverted and truth becomes true, so "not greater than" is stored
// as "no more than".
type Predicate struct {
	template         Template
	truth            bool
	sign             Sign
	expression       Expression
	includeNegatives bool
}

// Option configures a Predicate under construction.
type Option func(*Predicate)

// Truth sets whether the predicate is asserted true or false. Default true.
func Truth(truth bool) Option {
	return func(p *Predicate) {
		p.truth = truth
	}
}

// IncludeNegatives makes a Comparison's range extend below zero even when
// its expression is non-negative.
func IncludeNegatives() Option {
	return func(p *Predicate) {
		p.includeNegatives = true
	}
}

// New builds a plain Predicate.
func New(content string, opts ...Option) (*Predicate, error) {
	template, err := ParseTemplate(content)
	if err != nil {
		return nil, err
	}

	p := &Predicate{template: template, truth: true}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewComparison builds a Predicate comparing a quantity with expr.
func NewComparison(content string, sign Sign, expr Expression, opts ...Option) (*Predicate, error) {
	template, err := ParseTemplate(content)
	if err != nil {
		return nil, err
	}
	if !template.endsWithConnector() {
		return nil, fmt.Errorf("%w: %q", ErrComparisonConnector, content)
	}
	if !sign.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSign, sign)
	}
	if expr.IsZero() {
		return nil, ErrMissingExpression
	}
	if canonical, ok := signAliases[string(sign)]; ok {
		sign = canonical
	}

	p := &Predicate{template: template, truth: true, sign: sign, expression: expr}
	for _, opt := range opts {
		opt(p)
	}
	if !p.truth {
		p.sign = p.sign.Negated()
		p.truth = true
	}
	// Below zero is outside the domain unless negatives are included, so
	// "less than 0 grams" asserts nothing.
	if rangeOf(p.sign, p.expression, p.includeNegatives).Empty() {
		return nil, fmt.Errorf("%w: %s %s", ErrEmptyRange, p.sign, p.expression)
	}
	return p, nil
}

// Template returns the predicate's template.
func (p *Predicate) Template() Template {
	return p.template
}

// Truth reports whether the predicate is asserted true.
func (p *Predicate) Truth() bool {
	return p.truth
}

// Sign returns the comparison sign, empty for a plain predicate.
func (p *Predicate) Sign() Sign {
	return p.sign
}

// Expression returns the comparison expression.
func (p *Predicate) Expression() Expression {
	return p.expression
}

// IsComparison reports whether p carries a sign and expression.
func (p *Predicate) IsComparison() bool {
	return p.sign != ""
}

// Range returns the set of values a Comparison asserts.
func (p *Predicate) Range() (Range, bool) {
	if !p.IsComparison() {
		return Range{}, false
	}
	return rangeOf(p.sign, p.expression, p.includeNegatives), true
}

// SameTemplate reports whether both predicates relate their terms the
// same way, ignoring placeholder names, truth and quantities.
func (p *Predicate) SameTemplate(other *Predicate) bool {
	if p == nil || other == nil {
		return false
	}
	return p.IsComparison() == other.IsComparison() && p.template.key == other.template.key
}

// comparableWith reports whether both comparisons measure on the same scale.
func (p *Predicate) comparableWith(other *Predicate) bool {
	return p.SameTemplate(other) && p.IsComparison() && p.expression.Comparable(other.expression)
}

// Means reports whether both predicates assert the same thing.
func (p *Predicate) Means(other *Predicate) bool {
	if !p.SameTemplate(other) || p.truth != other.truth {
		return false
	}
	if !p.IsComparison() {
		return true
	}
	if !p.comparableWith(other) {
		return false
	}
	mine, _ := p.Range()
	theirs, _ := other.Range()
	return mine.Equal(theirs)
}

// Implies reports whether p being true makes other true. For comparisons,
// p's range must lie inside other's range.
func (p *Predicate) Implies(other *Predicate) bool {
	if !p.SameTemplate(other) || p.truth != other.truth {
		return false
	}
	if !p.IsComparison() {
		return true
	}
	if !p.comparableWith(other) {
		return false
	}
	mine, _ := p.Range()
	theirs, _ := other.Range()
	return mine.SubsetOf(theirs)
}

// Contradicts reports whether p and other cannot both be true. Comparisons
// on different dimensions are incomparable and never contradict.
func (p *Predicate) Contradicts(other *Predicate) bool {
	if !p.SameTemplate(other) {
		return false
	}
	if !p.IsComparison() {
		return p.truth != other.truth
	}
	if !p.comparableWith(other) {
		return false
	}
	mine, _ := p.Range()
	theirs, _ := other.Range()
	return mine.Disjoint(theirs)
}

// Negated returns the predicate asserting the opposite.
func (p *Predicate) Negated() *Predicate {
	next := *p
	if p.IsComparison() {
		next.sign = p.sign.Negated()
		return &next
	}
	next.truth = !p.truth
	return &next
}

// Render writes the predicate as a sentence about the given terms.
func (p *Predicate) Render(terms []string) string {
	text := p.template.Render(terms)
	if p.IsComparison() {
		return text + " " + p.sign.Phrase() + " " + p.expression.String()
	}
	if !p.truth {
		return "it was false that " + text
	}
	return text
}

func (p *Predicate) String() string {
	return p.Render(nil)
}
