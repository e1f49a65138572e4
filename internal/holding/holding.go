// Package holding records a court's acceptance or rejection of a rule,
// and compares holdings by what each commits the court to.
package holding

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/procedure"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/rule"
)

var (
	ErrNoRule         = errors.New("holding needs a rule")
	ErrExclusiveShape = errors.New("exclusive holding needs exactly one output and a decided, valid rule")
)

// Holding is a Rule plus whether the court decided it, whether it found
// the rule valid, and whether the rule is the exclusive way to reach its
// output.
type Holding struct {
	rule      *rule.Rule
	decided   bool
	ruleValid bool
	exclusive bool
}

// Option configures a Holding.
type Option func(*Holding)

// Decided sets whether the court decided the rule's validity. Default true.
func Decided(decided bool) Option {
	return func(h *Holding) { h.decided = decided }
}

// RuleValid sets whether the court accepted the rule. Default true.
func RuleValid(valid bool) Option {
	return func(h *Holding) { h.ruleValid = valid }
}

// Exclusive marks the rule as the only way to establish its output.
func Exclusive(exclusive bool) Option {
	return func(h *Holding) { h.exclusive = exclusive }
}

// New builds a Holding.
func New(r *rule.Rule, opts ...Option) (*Holding, error) {
	if r == nil {
		return nil, ErrNoRule
	}
	h := &Holding{rule: r, decided: true, ruleValid: true}
	for _, opt := range opts {
		opt(h)
	}
	if h.exclusive && (len(r.Outputs()) != 1 || !h.decided || !h.ruleValid) {
		return nil, ErrExclusiveShape
	}
	return h, nil
}

func (h *Holding) Rule() *rule.Rule { return h.rule }
func (h *Holding) Decided() bool    { return h.decided }
func (h *Holding) RuleValid() bool  { return h.ruleValid }
func (h *Holding) Exclusive() bool  { return h.exclusive }

func (h *Holding) String() string {
	var b strings.Builder
	b.WriteString("the Holding ")
	switch {
	case !h.decided:
		b.WriteString("that it is undecided whether ")
	case !h.ruleValid:
		b.WriteString("to REJECT ")
	default:
		b.WriteString("to ACCEPT ")
	}
	if h.exclusive {
		b.WriteString("that the EXCLUSIVE way to reach the output is ")
	}
	b.WriteString(h.rule.String())
	return b.String()
}

// Negated returns the holding that the rule has the opposite validity.
// Exclusivity does not survive negation.
func (h *Holding) Negated() *Holding {
	return &Holding{rule: h.rule, decided: h.decided, ruleValid: !h.ruleValid}
}

// NewContext returns h with its terms replaced as changes directs.
func (h *Holding) NewContext(changes factor.Register) (*Holding, error) {
	r, err := h.rule.NewContext(changes)
	if err != nil {
		return nil, err
	}
	next := *h
	next.rule = r
	return &next, nil
}

// InferredFromExclusive lists what exclusivity adds: if the rule is the
// only way to its output, then without any one of its inputs the output
// must be absent.
func (h *Holding) InferredFromExclusive() ([]*Holding, error) {
	if !h.exclusive {
		return nil, nil
	}
	output, err := factor.WithAbsence(h.rule.Outputs()[0], true)
	if err != nil {
		return nil, fmt.Errorf("inferring from exclusive holding: %w", err)
	}
	var out []*Holding
	for _, input := range h.rule.Inputs() {
		missing, err := factor.WithAbsence(input, true)
		if err != nil {
			return nil, fmt.Errorf("inferring from exclusive holding: %w", err)
		}
		p, err := procedure.New([]factor.Factor{output}, []factor.Factor{missing}, nil)
		if err != nil {
			return nil, err
		}
		r := h.rule.WithProcedure(p).Evolve(rule.Mandatory(true), rule.Universal(true))
		out = append(out, &Holding{rule: r, decided: true, ruleValid: true})
	}
	return out, nil
}

func (h *Holding) inferred() []*Holding {
	out, err := h.InferredFromExclusive()
	if err != nil {
		return nil
	}
	return out
}

// ImplicationRegisters yields registers under which accepting h commits
// the court to other.
func (h *Holding) ImplicationRegisters(other *Holding, context factor.Register) iter.Seq[factor.Register] {
	return func(yield func(factor.Register) bool) {
		if other == nil {
			return
		}
		if other.exclusive {
			if !h.exclusive {
				return
			}
			for reg := range h.rule.MeansRegisters(other.rule, context) {
				if !yield(reg) {
					return
				}
			}
			return
		}
		for reg := range h.directImplication(other, context) {
			if !yield(reg) {
				return
			}
		}
		for _, extra := range h.inferred() {
			for reg := range extra.directImplication(other, context) {
				if !yield(reg) {
					return
				}
			}
		}
	}
}

func (h *Holding) directImplication(other *Holding, context factor.Register) iter.Seq[factor.Register] {
	switch {
	case !h.decided && !other.decided:
		return h.rule.MeansRegisters(other.rule, context)
	case !h.decided || !other.decided:
		return empty
	case h.ruleValid && other.ruleValid:
		return h.rule.ImplicationRegisters(other.rule, context)
	case !h.ruleValid && !other.ruleValid:
		return reversed(other.rule.ImplicationRegisters(h.rule, context.Reversed()))
	case h.ruleValid && !other.ruleValid:
		return h.rule.ContradictionRegisters(other.rule, context)
	}
	return empty
}

// ContradictionRegisters yields registers under which h and other cannot
// both be right.
func (h *Holding) ContradictionRegisters(other *Holding, context factor.Register) iter.Seq[factor.Register] {
	return func(yield func(factor.Register) bool) {
		if other == nil {
			return
		}
		seen := make(map[string]struct{})
		emit := func(seq iter.Seq[factor.Register]) bool {
			for reg := range seq {
				sig := reg.Signature()
				if _, ok := seen[sig]; ok {
					continue
				}
				seen[sig] = struct{}{}
				if !yield(reg) {
					return false
				}
			}
			return true
		}
		if !emit(h.directContradiction(other, context)) {
			return
		}
		for _, extra := range h.inferred() {
			if !emit(extra.directContradiction(other, context)) {
				return
			}
		}
		for _, extra := range other.inferred() {
			if !emit(h.directContradiction(extra, context)) {
				return
			}
		}
	}
}

func (h *Holding) directContradiction(other *Holding, context factor.Register) iter.Seq[factor.Register] {
	if !h.decided || !other.decided {
		return empty
	}
	switch {
	case h.ruleValid && other.ruleValid:
		return h.rule.ContradictionRegisters(other.rule, context)
	case h.ruleValid && !other.ruleValid:
		return h.rule.ImplicationRegisters(other.rule, context)
	case !h.ruleValid && other.ruleValid:
		return reversed(other.rule.ImplicationRegisters(h.rule, context.Reversed()))
	}
	return empty
}

// MeansRegisters yields registers under which h and other are the same holding.
func (h *Holding) MeansRegisters(other *Holding, context factor.Register) iter.Seq[factor.Register] {
	if other == nil || h.decided != other.decided || h.ruleValid != other.ruleValid || h.exclusive != other.exclusive {
		return empty
	}
	return h.rule.MeansRegisters(other.rule, context)
}

func empty(func(factor.Register) bool) {}

func reversed(seq iter.Seq[factor.Register]) iter.Seq[factor.Register] {
	return func(yield func(factor.Register) bool) {
		for reg := range seq {
			if !yield(reg.Reversed()) {
				return
			}
		}
	}
}

func explain(seq iter.Seq[factor.Register], rel factor.Relation) iter.Seq[factor.Explanation] {
	return func(yield func(factor.Explanation) bool) {
		for reg := range factor.Unique(seq) {
			if !yield(factor.NewExplanation(reg, rel)) {
				return
			}
		}
	}
}

func exists(seq iter.Seq[factor.Register]) bool {
	for range seq {
		return true
	}
	return false
}

func (h *Holding) ExplanationsImplication(other *Holding) iter.Seq[factor.Explanation] {
	return explain(h.ImplicationRegisters(other, factor.Register{}), factor.Implication)
}

func (h *Holding) ExplanationsContradiction(other *Holding) iter.Seq[factor.Explanation] {
	return explain(h.ContradictionRegisters(other, factor.Register{}), factor.Contradiction)
}

func (h *Holding) ExplanationsSameMeaning(other *Holding) iter.Seq[factor.Explanation] {
	return explain(h.MeansRegisters(other, factor.Register{}), factor.SameMeaning)
}

// Explanations dispatches on rel.
func (h *Holding) Explanations(other *Holding, rel factor.Relation) iter.Seq[factor.Explanation] {
	switch rel {
	case factor.Implication:
		return h.ExplanationsImplication(other)
	case factor.Contradiction:
		return h.ExplanationsContradiction(other)
	case factor.SameMeaning:
		return h.ExplanationsSameMeaning(other)
	}
	return func(func(factor.Explanation) bool) {}
}

func (h *Holding) Implies(other *Holding) bool {
	return exists(h.ImplicationRegisters(other, factor.Register{}))
}

func (h *Holding) Contradicts(other *Holding) bool {
	return exists(h.ContradictionRegisters(other, factor.Register{}))
}

func (h *Holding) Means(other *Holding) bool {
	return exists(h.MeansRegisters(other, factor.Register{}))
}

// StrictlyImplies reports whether h implies other without meaning it.
func (h *Holding) StrictlyImplies(other *Holding) bool {
	return h.Implies(other) && !h.Means(other)
}

func (h *Holding) combinable(other *Holding) bool {
	return other != nil && h.decided && h.ruleValid && other.decided && other.ruleValid
}

// Add combines two accepted holdings by chaining their rules.
func (h *Holding) Add(other *Holding) (*Holding, bool) {
	if !h.combinable(other) {
		return nil, false
	}
	r, ok := h.rule.Add(other.rule)
	if !ok {
		return nil, false
	}
	return &Holding{rule: r, decided: true, ruleValid: true}, true
}

// Union combines two accepted holdings whose rules apply together.
func (h *Holding) Union(other *Holding) (*Holding, bool) {
	if !h.combinable(other) {
		return nil, false
	}
	r, ok := h.rule.Union(other.rule)
	if !ok {
		return nil, false
	}
	return &Holding{rule: r, decided: true, ruleValid: true}, true
}
