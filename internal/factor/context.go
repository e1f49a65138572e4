package factor

import "fmt"

// NewContext returns f with every term that changes binds replaced by
// its right-hand partner. Replacement is simultaneous, so a register that
// swaps two terms swaps them. Replacing a term with one of another
// variant is an error.
func NewContext(f Factor, changes Register) (Factor, error) {
	if f == nil {
		return nil, nil
	}
	if to, ok := changes.Get(f); ok {
		if to.Kind() != f.Kind() {
			return nil, fmt.Errorf("%w: %s for %s", ErrContextKind, to, f)
		}
		if to.IsAbsent() != f.IsAbsent() {
			return to.withAbsence(f.IsAbsent())
		}
		return to, nil
	}

	slots := f.slots()
	if len(slots) == 0 {
		return f, nil
	}
	next := make([]Factor, len(slots))
	changed := false
	for i, s := range slots {
		if s == nil {
			continue
		}
		n, err := NewContext(s, changes)
		if err != nil {
			return nil, err
		}
		next[i] = n
		changed = changed || n.Key() != s.Key()
	}
	if !changed {
		return f, nil
	}
	return f.rebuild(next)
}

// NewContextAll applies NewContext to each factor.
func NewContextAll(factors []Factor, changes Register) ([]Factor, error) {
	out := make([]Factor, len(factors))
	for i, f := range factors {
		n, err := NewContext(f, changes)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// GenericTerms lists the generic factors in f's tree in order of first
// appearance. A generic factor is listed but not descended into.
func GenericTerms(f Factor) []Factor {
	var out []Factor
	seen := make(map[string]struct{})
	var walk func(Factor)
	walk = func(n Factor) {
		if n == nil {
			return
		}
		if n.IsGeneric() {
			if _, ok := seen[n.Key()]; !ok {
				seen[n.Key()] = struct{}{}
				out = append(out, n)
			}
			return
		}
		for _, s := range n.slots() {
			walk(s)
		}
	}
	walk(f)
	return out
}

// GenericTermsAll lists the generic terms of several factors without repeats.
func GenericTermsAll(factors []Factor) []Factor {
	var out []Factor
	seen := make(map[string]struct{})
	for _, f := range factors {
		for _, t := range GenericTerms(f) {
			if _, ok := seen[t.Key()]; ok {
				continue
			}
			seen[t.Key()] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// WithAbsence returns f asserting presence or absence.
func WithAbsence(f Factor, absent bool) (Factor, error) {
	if f.IsAbsent() == absent {
		return f, nil
	}
	return f.withAbsence(absent)
}
