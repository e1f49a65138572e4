package factor

import (
	"iter"
	"slices"
)

// CoverRegisters yields registers under which every factor in right
// stands in relation rel to at least one factor in left.
func CoverRegisters(left, right []Factor, rel Relation, context Register) iter.Seq[Register] {
	return func(yield func(Register) bool) {
		cover(left, right, rel, context, yield)
	}
}

func cover(left, right []Factor, rel Relation, reg Register, yield yieldFunc) bool {
	if len(right) == 0 {
		return yield(reg)
	}
	for _, l := range left {
		ok := relate(l, right[0], rel, reg, func(next Register) bool {
			return cover(left, right[1:], rel, next, yield)
		})
		if !ok {
			return false
		}
	}
	return true
}

// GroupImplies yields registers under which every factor in right is
// implied by some factor in left.
func GroupImplies(left, right []Factor, context Register) iter.Seq[Register] {
	return CoverRegisters(left, right, Implication, context)
}

// GroupImpliedBy yields registers under which every factor in left is
// implied by some factor in right. The register still maps left terms to
// right terms.
func GroupImpliedBy(left, right []Factor, context Register) iter.Seq[Register] {
	return func(yield func(Register) bool) {
		cover(right, left, Implication, context.Reversed(), reversing(yield))
	}
}

// GroupMeans yields registers under which each factor on either side
// means some factor on the other.
func GroupMeans(left, right []Factor, context Register) iter.Seq[Register] {
	return func(yield func(Register) bool) {
		cover(left, right, SameMeaning, context, func(next Register) bool {
			return cover(right, left, SameMeaning, next.Reversed(), reversing(yield))
		})
	}
}

// GroupContradicts yields registers under which some factor in left
// contradicts some factor in right.
func GroupContradicts(left, right []Factor, context Register) iter.Seq[Register] {
	return func(yield func(Register) bool) {
		for _, l := range left {
			for _, r := range right {
				if !contradicts(l, r, context, yield) {
					return
				}
			}
		}
	}
}

// impliesSame reports whether left implies right with every shared
// generic term standing for itself.
func impliesSame(left, right Factor) bool {
	return exists(Registers(left, right, Implication, identity(left, right)))
}

func contradictsSame(left, right Factor) bool {
	return exists(Registers(left, right, Contradiction, identity(left, right)))
}

// MergeGroups combines two lists of factors that already share their
// generic terms. Factors implied by one already kept are dropped, and a
// kept factor is replaced by a newcomer that implies it. Any
// contradiction between the lists makes the merge fail.
func MergeGroups(a, b []Factor) ([]Factor, bool) {
	for _, x := range a {
		for _, y := range b {
			if contradictsSame(x, y) {
				return nil, false
			}
		}
	}

	out := slices.Clone(a)
next:
	for _, f := range b {
		for i, kept := range out {
			if impliesSame(kept, f) {
				continue next
			}
			if impliesSame(f, kept) {
				out[i] = f
				continue next
			}
		}
		out = append(out, f)
	}
	return out, true
}

// LikelyContexts yields registers that plausibly align the generic terms
// of left with those of right, for combining factor lists that were not
// written against each other. Factors of the same variant about the same
// template are paired, each starting pair seeding a greedy alignment of
// the rest. context itself is yielded last.
func LikelyContexts(left, right []Factor, context Register) iter.Seq[Register] {
	return func(yield func(Register) bool) {
		seen := make(map[string]struct{})
		emit := func(reg Register) bool {
			sig := reg.Signature()
			if _, ok := seen[sig]; ok {
				return true
			}
			seen[sig] = struct{}{}
			return yield(reg)
		}

		for _, l := range left {
			for _, r := range right {
				seed, ok := align(l, r, context)
				if !ok {
					continue
				}
				for _, l2 := range left {
					for _, r2 := range right {
						if next, ok := align(l2, r2, seed); ok {
							seed = next
						}
					}
				}
				if !emit(seed) {
					return
				}
			}
		}
		emit(context)
	}
}

// align binds the generic terms of l to those of r position by position,
// provided the two factors have the same shape.
func align(l, r Factor, reg Register) (Register, bool) {
	if l.Kind() != r.Kind() {
		return reg, false
	}
	if lf, ok := l.(*Fact); ok {
		if !lf.predicate.SameTemplate(r.(*Fact).predicate) {
			return reg, false
		}
	}
	lt, rt := GenericTerms(l), GenericTerms(r)
	if len(lt) == 0 || len(lt) != len(rt) {
		return reg, false
	}
	for i := range lt {
		if lt[i].Kind() != rt[i].Kind() {
			return reg, false
		}
		next, ok := reg.bind(lt[i], rt[i])
		if !ok {
			return reg, false
		}
		reg = next
	}
	return reg, true
}
