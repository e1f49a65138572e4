package factor

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInconsistentRegister = errors.New("binding conflicts with register")

// Binding pairs a term of the left tree with the term it stands for in
// the right tree.
type Binding struct {
	Left  Factor
	Right Factor
}

// Register is a ContextRegister: a one-to-one table from left-side terms to
// right-side terms, keyed by Factor.Key. Registers are values; every
// extension returns a new Register and leaves the receiver untouched.
type Register struct {
	bindings []Binding
}

// NewRegister builds a register from explicit bindings.
func NewRegister(bindings ...Binding) (Register, error) {
	var r Register
	for _, b := range bindings {
		if b.Left == nil || b.Right == nil {
			return Register{}, fmt.Errorf("%w: empty binding", ErrInconsistentRegister)
		}
		next, ok := r.bind(b.Left, b.Right)
		if !ok {
			return Register{}, fmt.Errorf("%w: %s to %s", ErrInconsistentRegister, b.Left, b.Right)
		}
		r = next
	}
	return r, nil
}

// identity binds every generic term of the factors to itself, which pins
// a comparison to the terms the factors already share.
func identity(factors ...Factor) Register {
	var r Register
	for _, f := range factors {
		for _, t := range GenericTerms(f) {
			r, _ = r.bind(t, t)
		}
	}
	return r
}

// bind extends r with left -> right, failing if left is already bound
// elsewhere or right is already claimed by another left term.
func (r Register) bind(left, right Factor) (Register, bool) {
	lk, rk := left.Key(), right.Key()
	for _, b := range r.bindings {
		if b.Left.Key() == lk {
			return r, b.Right.Key() == rk
		}
		if b.Right.Key() == rk {
			return r, false
		}
	}
	next := make([]Binding, len(r.bindings), len(r.bindings)+1)
	copy(next, r.bindings)
	return Register{bindings: append(next, Binding{Left: left, Right: right})}, true
}

// With returns r extended by one binding.
func (r Register) With(left, right Factor) (Register, error) {
	next, ok := r.bind(left, right)
	if !ok {
		return r, fmt.Errorf("%w: %s to %s", ErrInconsistentRegister, left, right)
	}
	return next, nil
}

// Get returns the right-side term bound to left.
func (r Register) Get(left Factor) (Factor, bool) {
	return r.GetKey(left.Key())
}

// GetKey returns the right-side term bound to the left term with key.
func (r Register) GetKey(key string) (Factor, bool) {
	for _, b := range r.bindings {
		if b.Left.Key() == key {
			return b.Right, true
		}
	}
	return nil, false
}

// Merge combines two registers, failing if they disagree anywhere.
func (r Register) Merge(other Register) (Register, bool) {
	merged := r
	for _, b := range other.bindings {
		next, ok := merged.bind(b.Left, b.Right)
		if !ok {
			return r, false
		}
		merged = next
	}
	return merged, true
}

// Reversed swaps the sides of every binding.
func (r Register) Reversed() Register {
	out := make([]Binding, len(r.bindings))
	for i, b := range r.bindings {
		out[i] = Binding{Left: b.Right, Right: b.Left}
	}
	return Register{bindings: out}
}

// Len returns the number of bindings.
func (r Register) Len() int {
	return len(r.bindings)
}

// Bindings returns a copy of the bindings in insertion order.
func (r Register) Bindings() []Binding {
	return slices.Clone(r.bindings)
}

// Signature is a canonical text form: two registers with the same
// bindings in any order share a signature.
func (r Register) Signature() string {
	pairs := make([]string, len(r.bindings))
	for i, b := range r.bindings {
		pairs[i] = b.Left.Key() + "\x00" + b.Right.Key()
	}
	slices.Sort(pairs)
	return strings.Join(pairs, "\x01")
}

// Equal reports whether both registers hold the same bindings.
func (r Register) Equal(other Register) bool {
	return r.Len() == other.Len() && r.Signature() == other.Signature()
}

func (r Register) String() string {
	if len(r.bindings) == 0 {
		return "no terms bound"
	}
	parts := make([]string, len(r.bindings))
	for i, b := range r.bindings {
		parts[i] = b.Left.String() + " is like " + b.Right.String()
	}
	return strings.Join(parts, ", and ")
}
