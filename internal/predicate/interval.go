package predicate

import (
	"math"
	"strconv"
	"strings"
)

// tolerance absorbs floating point noise from unit conversion, so that
// 0.5 kilogram and 500 gram land on the same point.
const tolerance = 1e-9

func compareValues(a, b float64) int {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	switch {
	case math.Abs(a-b) <= tolerance*scale:
		return 0
	case a < b:
		return -1
	default:
		return 1
	}
}

type bound struct {
	value    float64
	infinite bool
	closed   bool
}

type interval struct {
	lo, hi bound
}

func (iv interval) empty() bool {
	if iv.lo.infinite || iv.hi.infinite {
		return false
	}
	switch compareValues(iv.lo.value, iv.hi.value) {
	case 1:
		return true
	case 0:
		return !(iv.lo.closed && iv.hi.closed)
	default:
		return false
	}
}

func (iv interval) contains(other interval) bool {
	return lowerReaches(iv.lo, other.lo) && upperReaches(iv.hi, other.hi)
}

func lowerReaches(outer, inner bound) bool {
	if outer.infinite {
		return true
	}
	if inner.infinite {
		return false
	}
	switch compareValues(outer.value, inner.value) {
	case -1:
		return true
	case 1:
		return false
	default:
		return outer.closed || !inner.closed
	}
}

func upperReaches(outer, inner bound) bool {
	if outer.infinite {
		return true
	}
	if inner.infinite {
		return false
	}
	switch compareValues(outer.value, inner.value) {
	case 1:
		return true
	case -1:
		return false
	default:
		return outer.closed || !inner.closed
	}
}

// below reports whether every point of iv is less than every point of other.
func (iv interval) below(other interval) bool {
	if iv.hi.infinite || other.lo.infinite {
		return false
	}
	switch compareValues(iv.hi.value, other.lo.value) {
	case -1:
		return true
	case 1:
		return false
	default:
		return !(iv.hi.closed && other.lo.closed)
	}
}

func (iv interval) overlaps(other interval) bool {
	return !iv.below(other) && !other.below(iv)
}

func (iv interval) String() string {
	var b strings.Builder
	if iv.lo.infinite || !iv.lo.closed {
		b.WriteString("(")
	} else {
		b.WriteString("[")
	}
	if iv.lo.infinite {
		b.WriteString("-inf")
	} else {
		b.WriteString(formatFloat(iv.lo.value))
	}
	b.WriteString(", ")
	if iv.hi.infinite {
		b.WriteString("inf")
	} else {
		b.WriteString(formatFloat(iv.hi.value))
	}
	if iv.hi.infinite || !iv.hi.closed {
		b.WriteString(")")
	} else {
		b.WriteString("]")
	}
	return b.String()
}

// Range is the set of values a Comparison asserts: a union of disjoint
// intervals on the real line (two of them for "not equal to").
type Range struct {
	intervals []interval
}

// rangeOf builds the range asserted by sign and expression. Unless
// negatives are allowed, the range is clipped to [0, inf): "no more than
// 10 grams" does not include negative weights.
func rangeOf(sign Sign, expr Expression, includeNegatives bool) Range {
	q := expr.magnitude()
	point := bound{value: q, closed: true}
	open := bound{value: q}
	inf := bound{infinite: true}

	var ivs []interval
	switch sign {
	case Equal:
		ivs = []interval{{point, point}}
	case NotEqual:
		ivs = []interval{{inf, open}, {open, inf}}
	case Greater:
		ivs = []interval{{open, inf}}
	case GreaterOrEqual:
		ivs = []interval{{point, inf}}
	case Less:
		ivs = []interval{{inf, open}}
	case LessOrEqual:
		ivs = []interval{{inf, point}}
	}

	if !includeNegatives && expr.Kind() != KindDate && q >= 0 {
		ivs = clipNegatives(ivs)
	}

	var out []interval
	for _, iv := range ivs {
		if !iv.empty() {
			out = append(out, iv)
		}
	}
	return Range{intervals: out}
}

func clipNegatives(ivs []interval) []interval {
	zero := bound{value: 0, closed: true}
	out := make([]interval, 0, len(ivs))
	for _, iv := range ivs {
		if iv.hi.infinite || compareValues(iv.hi.value, 0) >= 0 {
			if iv.lo.infinite || compareValues(iv.lo.value, 0) < 0 {
				iv.lo = zero
			}
			out = append(out, iv)
		}
	}
	return out
}

// Empty reports whether no value satisfies the range.
func (r Range) Empty() bool {
	return len(r.intervals) == 0
}

// SubsetOf reports whether every value in r is also in other.
func (r Range) SubsetOf(other Range) bool {
	for _, iv := range r.intervals {
		covered := false
		for _, ov := range other.intervals {
			if ov.contains(iv) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// Disjoint reports whether r and other share no value.
func (r Range) Disjoint(other Range) bool {
	for _, iv := range r.intervals {
		for _, ov := range other.intervals {
			if iv.overlaps(ov) {
				return false
			}
		}
	}
	return true
}

// Equal reports whether both ranges hold exactly the same values.
func (r Range) Equal(other Range) bool {
	return r.SubsetOf(other) && other.SubsetOf(r)
}

func (r Range) String() string {
	if r.Empty() {
		return "{}"
	}
	parts := make([]string, len(r.intervals))
	for i, iv := range r.intervals {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " U ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
