package factor

import "slices"

// The matcher is written in continuation-passing style: each function
// calls yield once per register that satisfies the comparison and returns
// false as soon as yield does, so a consumer that stops early stops the
// whole descent.

type yieldFunc = func(Register) bool

func relate(left, right Factor, rel Relation, reg Register, yield yieldFunc) bool {
	switch rel {
	case Implication:
		return implies(left, right, reg, yield)
	case SameMeaning:
		return means(left, right, reg, yield)
	case Contradiction:
		return contradicts(left, right, reg, yield)
	}
	return true
}

func reversing(yield yieldFunc) yieldFunc {
	return func(r Register) bool {
		return yield(r.Reversed())
	}
}

// implies handles the absence flag. When both sides are absent the
// direction flips: the absence of a broader fact implies the absence of
// a narrower one.
func implies(left, right Factor, reg Register, yield yieldFunc) bool {
	if left.Kind() != right.Kind() {
		return true
	}
	switch {
	case !left.IsAbsent() && !right.IsAbsent():
		return impliesPresent(left, right, reg, yield)
	case left.IsAbsent() && right.IsAbsent():
		return impliesPresent(right, left, reg.Reversed(), reversing(yield))
	default:
		return true
	}
}

// impliesPresent compares two factors as if both were present.
func impliesPresent(left, right Factor, reg Register, yield yieldFunc) bool {
	if right.IsGeneric() {
		next, ok := reg.bind(left, right)
		if !ok {
			return true
		}
		return yield(next)
	}
	if left.IsGeneric() {
		return true
	}
	if !left.concreteMatch(right, Implication) {
		return true
	}
	return matchSlots(left, right, Implication, reg, yield)
}

func means(left, right Factor, reg Register, yield yieldFunc) bool {
	if left.Kind() != right.Kind() || left.IsAbsent() != right.IsAbsent() || left.IsGeneric() != right.IsGeneric() {
		return true
	}
	if left.IsGeneric() {
		next, ok := reg.bind(left, right)
		if !ok {
			return true
		}
		return yield(next)
	}
	if !left.concreteMatch(right, SameMeaning) {
		return true
	}
	return matchSlots(left, right, SameMeaning, reg, yield)
}

// contradicts finds registers under which both factors cannot hold. A
// present factor contradicts an absent one exactly when it implies it.
// Generic factors assert nothing and so never contradict.
func contradicts(left, right Factor, reg Register, yield yieldFunc) bool {
	if left.Kind() != right.Kind() || left.IsGeneric() || right.IsGeneric() {
		return true
	}
	switch {
	case left.IsAbsent() && right.IsAbsent():
		return true
	case !left.IsAbsent() && right.IsAbsent():
		return impliesPresent(left, right, reg, yield)
	case left.IsAbsent() && !right.IsAbsent():
		return impliesPresent(right, left, reg.Reversed(), reversing(yield))
	}
	if !left.concreteContradiction(right) {
		return true
	}
	return matchSlots(left, right, SameMeaning, reg, yield)
}

// matchSlots compares child slots positionally, trying every arrangement
// of the right side's interchangeable slots.
func matchSlots(left, right Factor, rel Relation, reg Register, yield yieldFunc) bool {
	ls := left.slots()
	groups := right.interchangeable()
	if len(groups) == 0 {
		groups = left.interchangeable()
	}
	return arrange(slices.Clone(right.slots()), groups, func(rs []Factor) bool {
		return slotsFrom(ls, rs, 0, rel, reg, yield)
	})
}

func slotsFrom(ls, rs []Factor, i int, rel Relation, reg Register, yield yieldFunc) bool {
	if i == len(ls) {
		return yield(reg)
	}
	l, r := ls[i], rs[i]
	switch {
	case r == nil && (l == nil || rel == Implication):
		return slotsFrom(ls, rs, i+1, rel, reg, yield)
	case r == nil || l == nil:
		return true
	}
	return relate(l, r, rel, reg, func(next Register) bool {
		return slotsFrom(ls, rs, i+1, rel, next, yield)
	})
}

// arrange calls yield with each ordering of slots reachable by permuting
// positions within each group.
func arrange(slots []Factor, groups [][]int, yield func([]Factor) bool) bool {
	if len(groups) == 0 {
		return yield(slots)
	}
	return permute(groups[0], 0, slots, func(s []Factor) bool {
		return arrange(s, groups[1:], yield)
	})
}

func permute(group []int, k int, slots []Factor, yield func([]Factor) bool) bool {
	if k == len(group) {
		return yield(slices.Clone(slots))
	}
	for i := k; i < len(group); i++ {
		a, b := group[k], group[i]
		slots[a], slots[b] = slots[b], slots[a]
		ok := permute(group, k+1, slots, yield)
		slots[a], slots[b] = slots[b], slots[a]
		if !ok {
			return false
		}
	}
	return true
}
