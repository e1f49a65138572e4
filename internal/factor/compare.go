package factor

import "iter"

// Registers yields every register, extending context, under which left
// stands in relation rel to right. Registers may repeat.
func Registers(left, right Factor, rel Relation, context Register) iter.Seq[Register] {
	return func(yield func(Register) bool) {
		if left == nil || right == nil {
			return
		}
		relate(left, right, rel, context, yield)
	}
}

// Explanations yields the distinct registers under which left stands in
// relation rel to right.
func Explanations(left, right Factor, rel Relation, context Register) iter.Seq[Explanation] {
	return func(yield func(Explanation) bool) {
		for reg := range Unique(Registers(left, right, rel, context)) {
			if !yield(NewExplanation(reg, rel)) {
				return
			}
		}
	}
}

// Unique filters repeated registers out of seq.
func Unique(seq iter.Seq[Register]) iter.Seq[Register] {
	return func(yield func(Register) bool) {
		seen := make(map[string]struct{})
		for reg := range seq {
			sig := reg.Signature()
			if _, ok := seen[sig]; ok {
				continue
			}
			seen[sig] = struct{}{}
			if !yield(reg) {
				return
			}
		}
	}
}

// ExplanationsImplication yields the ways left implies right.
func ExplanationsImplication(left, right Factor) iter.Seq[Explanation] {
	return Explanations(left, right, Implication, Register{})
}

// ExplanationsSameMeaning yields the ways left means right.
func ExplanationsSameMeaning(left, right Factor) iter.Seq[Explanation] {
	return Explanations(left, right, SameMeaning, Register{})
}

// ExplanationsContradiction yields the ways left contradicts right.
func ExplanationsContradiction(left, right Factor) iter.Seq[Explanation] {
	return Explanations(left, right, Contradiction, Register{})
}

func exists[T any](seq iter.Seq[T]) bool {
	for range seq {
		return true
	}
	return false
}

// Implies reports whether left implies right under some register.
func Implies(left, right Factor) bool {
	return exists(Registers(left, right, Implication, Register{}))
}

// Means reports whether left and right say the same thing under some register.
func Means(left, right Factor) bool {
	return exists(Registers(left, right, SameMeaning, Register{}))
}

// StrictlyImplies reports whether left implies right without meaning it.
func StrictlyImplies(left, right Factor) bool {
	return Implies(left, right) && !Means(left, right)
}

// Contradicts reports whether left and right cannot both hold under some register.
func Contradicts(left, right Factor) bool {
	return exists(Registers(left, right, Contradiction, Register{}))
}

// ConsistentWith reports whether left and right can both hold when their
// terms are matched as context says.
func ConsistentWith(left, right Factor, context Register) bool {
	return !exists(Registers(left, right, Contradiction, context))
}
