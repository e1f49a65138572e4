// Package procedure implements the inference a rule describes: when the
// input factors hold, the output factors follow, even though the despite
// factors hold too.
package procedure

import (
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
)

var ErrNoOutputs = errors.New("procedure needs at least one output")

// Procedure is the (outputs, inputs, despite) triple. Order within each
// group is irrelevant.
type Procedure struct {
	outputs []factor.Factor
	inputs  []factor.Factor
	despite []factor.Factor
}

// New builds a Procedure. Nil factors are dropped. A non-generic entity
// must have one plurality throughout all three groups.
func New(outputs, inputs, despite []factor.Factor) (*Procedure, error) {
	p := &Procedure{
		outputs: compact(outputs),
		inputs:  compact(inputs),
		despite: compact(despite),
	}
	if len(p.outputs) == 0 {
		return nil, ErrNoOutputs
	}
	if err := factor.CheckPlurality(p.Factors()); err != nil {
		return nil, err
	}
	return p, nil
}

func compact(factors []factor.Factor) []factor.Factor {
	out := make([]factor.Factor, 0, len(factors))
	for _, f := range factors {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

func (p *Procedure) Outputs() []factor.Factor { return slices.Clone(p.outputs) }
func (p *Procedure) Inputs() []factor.Factor  { return slices.Clone(p.inputs) }
func (p *Procedure) Despite() []factor.Factor { return slices.Clone(p.despite) }

// Factors returns outputs, inputs and despite factors in that order.
func (p *Procedure) Factors() []factor.Factor {
	return slices.Concat(p.outputs, p.inputs, p.despite)
}

// GenericTerms lists the generic terms used anywhere in the procedure.
func (p *Procedure) GenericTerms() []factor.Factor {
	return factor.GenericTermsAll(p.Factors())
}

func (p *Procedure) String() string {
	var b strings.Builder
	b.WriteString("RESULT:")
	writeGroup(&b, p.outputs)
	if len(p.inputs) > 0 {
		b.WriteString("\nGIVEN:")
		writeGroup(&b, p.inputs)
	}
	if len(p.despite) > 0 {
		b.WriteString("\nDESPITE:")
		writeGroup(&b, p.despite)
	}
	return b.String()
}

func writeGroup(b *strings.Builder, factors []factor.Factor) {
	for _, f := range factors {
		b.WriteString("\n  ")
		b.WriteString(f.String())
	}
}

// NewContext returns p with its terms replaced as changes directs.
func (p *Procedure) NewContext(changes factor.Register) (*Procedure, error) {
	outputs, err := factor.NewContextAll(p.outputs, changes)
	if err != nil {
		return nil, err
	}
	inputs, err := factor.NewContextAll(p.inputs, changes)
	if err != nil {
		return nil, err
	}
	despite, err := factor.NewContextAll(p.despite, changes)
	if err != nil {
		return nil, err
	}
	return New(outputs, inputs, despite)
}

// then feeds each register from seq into next and yields what next yields.
func then(seq iter.Seq[factor.Register], next func(factor.Register) iter.Seq[factor.Register]) iter.Seq[factor.Register] {
	return func(yield func(factor.Register) bool) {
		for reg := range seq {
			for out := range next(reg) {
				if !yield(out) {
					return
				}
			}
		}
	}
}

// MeansRegisters yields registers under which each group of p means the
// corresponding group of other.
func (p *Procedure) MeansRegisters(other *Procedure, context factor.Register) iter.Seq[factor.Register] {
	seq := factor.GroupMeans(p.outputs, other.outputs, context)
	seq = then(seq, func(reg factor.Register) iter.Seq[factor.Register] {
		return factor.GroupMeans(p.inputs, other.inputs, reg)
	})
	seq = then(seq, func(reg factor.Register) iter.Seq[factor.Register] {
		return factor.GroupMeans(p.despite, other.despite, reg)
	})
	return factor.Unique(seq)
}

// Means reports whether p and other describe the same inference.
func (p *Procedure) Means(other *Procedure) bool {
	return exists(p.MeansRegisters(other, factor.Register{}))
}

// ImpliesAllToAll yields registers under which "in all cases where p's
// inputs hold, p's outputs hold" implies the same of other. Outputs
// compare covariantly; inputs contravariantly, since a procedure that
// needs less applies to more cases.
func (p *Procedure) ImpliesAllToAll(other *Procedure, context factor.Register) iter.Seq[factor.Register] {
	seq := factor.GroupImplies(p.outputs, other.outputs, context)
	seq = then(seq, func(reg factor.Register) iter.Seq[factor.Register] {
		return factor.GroupImpliedBy(p.inputs, other.inputs, reg)
	})
	return factor.Unique(seq)
}

// ImpliesAllToSome is like ImpliesAllToAll, but other only claims some
// cases, so its despite factors describe cases p must also reach.
func (p *Procedure) ImpliesAllToSome(other *Procedure, context factor.Register) iter.Seq[factor.Register] {
	reachable := slices.Concat(other.inputs, other.despite)
	seq := factor.GroupImplies(p.outputs, other.outputs, context)
	seq = then(seq, func(reg factor.Register) iter.Seq[factor.Register] {
		return factor.GroupImpliedBy(p.inputs, reachable, reg)
	})
	return factor.Unique(seq)
}

// ImpliesSomeToSome yields registers under which "in some cases where
// p's inputs hold, p's outputs hold" implies the same of other. Every
// group compares covariantly.
func (p *Procedure) ImpliesSomeToSome(other *Procedure, context factor.Register) iter.Seq[factor.Register] {
	accepted := slices.Concat(p.inputs, p.despite)
	seq := factor.GroupImplies(p.outputs, other.outputs, context)
	seq = then(seq, func(reg factor.Register) iter.Seq[factor.Register] {
		return factor.GroupImplies(p.inputs, other.inputs, reg)
	})
	seq = then(seq, func(reg factor.Register) iter.Seq[factor.Register] {
		return factor.GroupImplies(accepted, other.despite, reg)
	})
	return factor.Unique(seq)
}

// Implies reports whether p implies other read as universal procedures.
func (p *Procedure) Implies(other *Procedure) bool {
	return exists(p.ImpliesAllToAll(other, factor.Register{}))
}

// ContradictsSomeToAll yields registers under which "in some cases where
// p's inputs hold, p's outputs hold" contradicts "in all cases where
// other's inputs hold, other's outputs hold". Every input of other must
// be present in some case p describes; p's despite factors count as part
// of those cases. Then some output of p must contradict some output of
// other.
func (p *Procedure) ContradictsSomeToAll(other *Procedure, context factor.Register) iter.Seq[factor.Register] {
	cases := slices.Concat(p.inputs, p.despite)
	seq := factor.GroupImplies(cases, other.inputs, context)
	seq = then(seq, func(reg factor.Register) iter.Seq[factor.Register] {
		return factor.GroupContradicts(p.outputs, other.outputs, reg)
	})
	return factor.Unique(seq)
}

// Add chains other after p: if p's inputs and outputs together supply
// every input other needs, the result has p's inputs and the outputs of
// both. Otherwise there is no result.
func (p *Procedure) Add(other *Procedure) (*Procedure, bool) {
	supplied := slices.Concat(p.inputs, p.outputs)
	for reg := range factor.GroupImplies(supplied, other.inputs, factor.Register{}) {
		translated, ok := p.translate(other, reg.Reversed())
		if !ok {
			continue
		}
		outputs, ok := factor.MergeGroups(p.outputs, translated.outputs)
		if !ok {
			continue
		}
		despite, ok := factor.MergeGroups(p.despite, translated.despite)
		if !ok {
			continue
		}
		sum, err := New(outputs, p.inputs, despite)
		if err != nil {
			continue
		}
		return sum, true
	}
	return nil, false
}

// Union combines p and other into one procedure requiring the inputs of
// both and yielding the outputs of both. The two procedures' generic
// terms are aligned by their most likely correspondence; if every
// plausible alignment leads to a contradiction there is no result.
func (p *Procedure) Union(other *Procedure) (*Procedure, bool) {
	aligned := false
	for reg := range factor.LikelyContexts(p.Factors(), other.Factors(), factor.Register{}) {
		// The empty register keeps the two procedures' terms apart, which
		// only applies when no alignment was plausible at all.
		if reg.Len() == 0 && aligned {
			continue
		}
		aligned = aligned || reg.Len() > 0
		translated, ok := p.translate(other, reg.Reversed())
		if !ok {
			continue
		}
		if u, ok := p.unionAligned(translated); ok {
			return u, true
		}
	}
	return nil, false
}

// translate rewrites other into p's terms through changes, which maps
// other's generic terms to p's. A generic term of other that changes
// leaves unbound keeps its own identity: if its key is already used by
// p, it is renamed first.
func (p *Procedure) translate(other *Procedure, changes factor.Register) (*Procedure, bool) {
	taken := make(map[string]struct{})
	for _, t := range slices.Concat(p.GenericTerms(), other.GenericTerms()) {
		taken[t.Key()] = struct{}{}
	}
	ours := make(map[string]struct{})
	for _, t := range p.GenericTerms() {
		ours[t.Key()] = struct{}{}
	}
	for _, b := range changes.Bindings() {
		ours[b.Right.Key()] = struct{}{}
	}

	for _, t := range other.GenericTerms() {
		if _, bound := changes.Get(t); bound {
			continue
		}
		if _, clash := ours[t.Key()]; !clash {
			continue
		}
		fresh, ok := freshTerm(t, taken)
		if !ok {
			return nil, false
		}
		next, err := changes.With(t, fresh)
		if err != nil {
			return nil, false
		}
		changes = next
		taken[fresh.Key()] = struct{}{}
	}

	translated, err := other.NewContext(changes)
	if err != nil {
		return nil, false
	}
	return translated, true
}

// freshTerm returns a generic entity like t whose key is not in taken.
// Only entities can be renamed.
func freshTerm(t factor.Factor, taken map[string]struct{}) (factor.Factor, bool) {
	e, ok := t.(*factor.Entity)
	if !ok {
		return nil, false
	}
	opts := []factor.Option{factor.Generic()}
	if e.IsPlural() {
		opts = append(opts, factor.Plural())
	}
	name := e.Name()
	for {
		name += "'"
		fresh := factor.NewEntity(name, opts...)
		if _, used := taken[fresh.Key()]; !used {
			return fresh, true
		}
	}
}

func (p *Procedure) unionAligned(other *Procedure) (*Procedure, bool) {
	inputs, ok := factor.MergeGroups(p.inputs, other.inputs)
	if !ok {
		return nil, false
	}
	outputs, ok := factor.MergeGroups(p.outputs, other.outputs)
	if !ok {
		return nil, false
	}
	despite, ok := factor.MergeGroups(p.despite, other.despite)
	if !ok {
		return nil, false
	}
	if _, ok := factor.MergeGroups(inputs, outputs); !ok {
		return nil, false
	}
	u, err := New(outputs, inputs, despite)
	if err != nil {
		return nil, false
	}
	return u, true
}

func exists(seq iter.Seq[factor.Register]) bool {
	for range seq {
		return true
	}
	return false
}
