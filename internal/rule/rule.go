// Package rule attaches modal strength and legislative support to a
// procedure, and compares and combines rules.
package rule

import (
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/enactment"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/procedure"
)

var ErrNoProcedure = errors.New("rule needs a procedure")

// Rule is a Procedure plus whether the court MUST (mandatory) or MAY
// impose its outputs, and whether it does so ALWAYS (universal) or
// SOMETIMES when the inputs hold.
type Rule struct {
	procedure         *procedure.Procedure
	mandatory         bool
	universal         bool
	enactments        []*enactment.Enactment
	enactmentsDespite []*enactment.Enactment
	name              string
}

// Option configures a Rule.
type Option func(*Rule)

func Mandatory(mandatory bool) Option {
	return func(r *Rule) { r.mandatory = mandatory }
}

func Universal(universal bool) Option {
	return func(r *Rule) { r.universal = universal }
}

// Enactments sets the enactments the rule is based on.
func Enactments(es ...*enactment.Enactment) Option {
	return func(r *Rule) { r.enactments = slices.Clone(es) }
}

// EnactmentsDespite sets enactments that do not prevent the rule.
func EnactmentsDespite(es ...*enactment.Enactment) Option {
	return func(r *Rule) { r.enactmentsDespite = slices.Clone(es) }
}

func Named(name string) Option {
	return func(r *Rule) { r.name = name }
}

// New builds a Rule. Rules are permissive (MAY) and existential
// (SOMETIMES) unless configured otherwise.
func New(p *procedure.Procedure, opts ...Option) (*Rule, error) {
	if p == nil {
		return nil, ErrNoProcedure
	}
	r := &Rule{procedure: p}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Evolve returns a copy of r with opts applied.
func (r *Rule) Evolve(opts ...Option) *Rule {
	next := *r
	next.enactments = slices.Clone(r.enactments)
	next.enactmentsDespite = slices.Clone(r.enactmentsDespite)
	for _, opt := range opts {
		opt(&next)
	}
	return &next
}

// WithEnactments returns a copy of r citing es in addition to its own enactments.
func (r *Rule) WithEnactments(es ...*enactment.Enactment) *Rule {
	return r.Evolve(Enactments(enactment.Consolidate(slices.Concat(r.enactments, es))...))
}

// WithProcedure returns a copy of r describing p instead.
func (r *Rule) WithProcedure(p *procedure.Procedure) *Rule {
	next := r.Evolve()
	next.procedure = p
	return next
}

// WithInput returns a copy of r that also requires f.
func (r *Rule) WithInput(f factor.Factor) (*Rule, error) {
	p, err := procedure.New(r.procedure.Outputs(), append(r.procedure.Inputs(), f), r.procedure.Despite())
	if err != nil {
		return nil, err
	}
	return r.WithProcedure(p), nil
}

func (r *Rule) Procedure() *procedure.Procedure { return r.procedure }
func (r *Rule) Mandatory() bool                 { return r.mandatory }
func (r *Rule) Universal() bool                 { return r.universal }
func (r *Rule) Name() string                    { return r.name }
func (r *Rule) Inputs() []factor.Factor         { return r.procedure.Inputs() }
func (r *Rule) Outputs() []factor.Factor        { return r.procedure.Outputs() }
func (r *Rule) Despite() []factor.Factor        { return r.procedure.Despite() }

func (r *Rule) Enactments() []*enactment.Enactment {
	return slices.Clone(r.enactments)
}

func (r *Rule) EnactmentsDespite() []*enactment.Enactment {
	return slices.Clone(r.enactmentsDespite)
}

// GenericTerms lists the generic terms of the rule's procedure.
func (r *Rule) GenericTerms() []factor.Factor {
	return r.procedure.GenericTerms()
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString("the Rule that the court ")
	if r.mandatory {
		b.WriteString("MUST ")
	} else {
		b.WriteString("MAY ")
	}
	if r.universal {
		b.WriteString("ALWAYS ")
	} else {
		b.WriteString("SOMETIMES ")
	}
	b.WriteString("impose the\n")
	b.WriteString(r.procedure.String())
	for _, e := range r.enactments {
		b.WriteString("\nGIVEN the ENACTMENT: ")
		b.WriteString(e.String())
	}
	for _, e := range r.enactmentsDespite {
		b.WriteString("\nDESPITE the ENACTMENT: ")
		b.WriteString(e.String())
	}
	return b.String()
}

// NewContext returns r with its terms replaced as changes directs.
func (r *Rule) NewContext(changes factor.Register) (*Rule, error) {
	p, err := r.procedure.NewContext(changes)
	if err != nil {
		return nil, err
	}
	return r.WithProcedure(p), nil
}

// NeedsSubsetOfEnactments reports whether r relies on no more legislative
// text than other: each of r's enactments is implied by one of other's,
// and each of other's despite-enactments is covered by r.
func (r *Rule) NeedsSubsetOfEnactments(other *Rule) bool {
	if !enactment.SetImplies(other.enactments, r.enactments) {
		return false
	}
	return enactment.SetImplies(slices.Concat(r.enactments, r.enactmentsDespite), other.enactmentsDespite)
}

func sameEnactments(a, b []*enactment.Enactment) bool {
	return enactment.SetImplies(a, b) && enactment.SetImplies(b, a)
}

// ImplicationRegisters yields the registers under which r implies other.
// A rule cannot imply one with stronger modal flags, and must cite no
// more text than other does.
func (r *Rule) ImplicationRegisters(other *Rule, context factor.Register) iter.Seq[factor.Register] {
	return func(yield func(factor.Register) bool) {
		if other == nil {
			return
		}
		if (!r.mandatory && other.mandatory) || (!r.universal && other.universal) {
			return
		}
		if !r.NeedsSubsetOfEnactments(other) {
			return
		}
		var seq iter.Seq[factor.Register]
		switch {
		case r.universal && other.universal:
			seq = r.procedure.ImpliesAllToAll(other.procedure, context)
		case r.universal:
			seq = r.procedure.ImpliesAllToSome(other.procedure, context)
		default:
			seq = r.procedure.ImpliesSomeToSome(other.procedure, context)
		}
		for reg := range seq {
			if !yield(reg) {
				return
			}
		}
	}
}

// MeansRegisters yields the registers under which r and other are the same rule.
func (r *Rule) MeansRegisters(other *Rule, context factor.Register) iter.Seq[factor.Register] {
	return func(yield func(factor.Register) bool) {
		if other == nil || r.mandatory != other.mandatory || r.universal != other.universal {
			return
		}
		if !sameEnactments(r.enactments, other.enactments) || !sameEnactments(r.enactmentsDespite, other.enactmentsDespite) {
			return
		}
		for reg := range r.procedure.MeansRegisters(other.procedure, context) {
			if !yield(reg) {
				return
			}
		}
	}
}

// ContradictionRegisters yields the registers under which r and other
// cannot both be valid. At least one rule must be mandatory and at least
// one universal; a universal rule is contradicted by another rule that
// reaches some of its cases with an incompatible output.
func (r *Rule) ContradictionRegisters(other *Rule, context factor.Register) iter.Seq[factor.Register] {
	return func(yield func(factor.Register) bool) {
		if other == nil {
			return
		}
		if !r.mandatory && !other.mandatory {
			return
		}
		if !r.universal && !other.universal {
			return
		}
		seen := make(map[string]struct{})
		emit := func(reg factor.Register) bool {
			sig := reg.Signature()
			if _, ok := seen[sig]; ok {
				return true
			}
			seen[sig] = struct{}{}
			return yield(reg)
		}
		if other.universal {
			for reg := range r.procedure.ContradictsSomeToAll(other.procedure, context) {
				if !emit(reg) {
					return
				}
			}
		}
		if r.universal {
			for reg := range other.procedure.ContradictsSomeToAll(r.procedure, context.Reversed()) {
				if !emit(reg.Reversed()) {
					return
				}
			}
		}
	}
}

func explain(seq iter.Seq[factor.Register], rel factor.Relation) iter.Seq[factor.Explanation] {
	return func(yield func(factor.Explanation) bool) {
		for reg := range seq {
			if !yield(factor.NewExplanation(reg, rel)) {
				return
			}
		}
	}
}

func exists[T any](seq iter.Seq[T]) bool {
	for range seq {
		return true
	}
	return false
}

func (r *Rule) ExplanationsImplication(other *Rule) iter.Seq[factor.Explanation] {
	return explain(r.ImplicationRegisters(other, factor.Register{}), factor.Implication)
}

func (r *Rule) ExplanationsSameMeaning(other *Rule) iter.Seq[factor.Explanation] {
	return explain(r.MeansRegisters(other, factor.Register{}), factor.SameMeaning)
}

func (r *Rule) ExplanationsContradiction(other *Rule) iter.Seq[factor.Explanation] {
	return explain(r.ContradictionRegisters(other, factor.Register{}), factor.Contradiction)
}

func (r *Rule) Implies(other *Rule) bool {
	return exists(r.ImplicationRegisters(other, factor.Register{}))
}

func (r *Rule) Means(other *Rule) bool {
	return exists(r.MeansRegisters(other, factor.Register{}))
}

// StrictlyImplies reports whether r implies other without meaning it.
func (r *Rule) StrictlyImplies(other *Rule) bool {
	return r.Implies(other) && !r.Means(other)
}

func (r *Rule) Contradicts(other *Rule) bool {
	return exists(r.ContradictionRegisters(other, factor.Register{}))
}

// Add applies other after r. Only a universal rule can be relied on to
// fire in every case r produces, so other must be universal. The sum is
// only as strong as the weaker of the two.
func (r *Rule) Add(other *Rule) (*Rule, bool) {
	if other == nil || !other.universal {
		return nil, false
	}
	p, ok := r.procedure.Add(other.procedure)
	if !ok {
		return nil, false
	}
	return &Rule{
		procedure:         p,
		mandatory:         r.mandatory && other.mandatory,
		universal:         r.universal && other.universal,
		enactments:        enactment.Consolidate(slices.Concat(r.enactments, other.enactments)),
		enactmentsDespite: enactment.Consolidate(slices.Concat(r.enactmentsDespite, other.enactmentsDespite)),
	}, true
}

// Union makes one rule out of two that apply together. If neither rule
// is universal, nothing guarantees the cases where each applies overlap,
// so there is no result; contradictory rules have none either.
func (r *Rule) Union(other *Rule) (*Rule, bool) {
	if other == nil || (!r.universal && !other.universal) {
		return nil, false
	}
	if r.Contradicts(other) {
		return nil, false
	}
	p, ok := r.procedure.Union(other.procedure)
	if !ok {
		return nil, false
	}
	return &Rule{
		procedure:         p,
		mandatory:         r.mandatory && other.mandatory,
		universal:         r.universal && other.universal,
		enactments:        enactment.Consolidate(slices.Concat(r.enactments, other.enactments)),
		enactmentsDespite: enactment.Consolidate(slices.Concat(r.enactmentsDespite, other.enactmentsDespite)),
	}, true
}
