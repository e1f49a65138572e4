package predicate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/unit"
)

// DateLayout is the calendar format accepted and rendered for date expressions.
const DateLayout = "2006-01-02"

// ExpressionKind distinguishes the three families of comparable values.
type ExpressionKind int

const (
	KindNumber ExpressionKind = iota + 1
	KindQuantity
	KindDate
)

func (k ExpressionKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindQuantity:
		return "quantity"
	case KindDate:
		return "date"
	default:
		return "none"
	}
}

// Expression is the right-hand side of a Comparison: a bare number, a
// dimensioned quantity, or a calendar date.
type Expression struct {
	kind     ExpressionKind
	value    float64
	unitName string
	si       *unit.Unit
	date     time.Time
}

// Number builds a dimensionless expression.
func Number(v float64) Expression {
	return Expression{kind: KindNumber, value: v}
}

// Quantity builds a dimensioned expression, converting to SI through gonum/unit.
func Quantity(v float64, unitName string) (Expression, error) {
	def, canonical, ok := lookupUnit(unitName)
	if !ok {
		return Expression{}, fmt.Errorf("%w: %q", ErrUnknownUnit, unitName)
	}
	return Expression{
		kind:     KindQuantity,
		value:    v,
		unitName: canonical,
		si:       unit.New(v*def.factor, def.dims),
	}, nil
}

// Date builds a calendar expression. Only the date part is kept.
func Date(t time.Time) Expression {
	y, m, d := t.Date()
	return Expression{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseExpression reads "7", "0.5 kilograms", "20 miles per hour" or "2021-03-04".
func ParseExpression(s string) (Expression, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Expression{}, ErrMissingExpression
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date(t), nil
	}

	if v, err := parseNumber(s); err == nil {
		return Number(v), nil
	}

	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Expression{}, fmt.Errorf("%w: %q", ErrInvalidExpression, s)
	}
	v, err := parseNumber(fields[0])
	if err != nil {
		return Expression{}, fmt.Errorf("%w: %q", ErrInvalidExpression, s)
	}
	return Quantity(v, strings.Join(fields[1:], " "))
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// Kind reports which family the expression belongs to.
func (e Expression) Kind() ExpressionKind {
	return e.kind
}

// IsZero reports whether the expression was never set.
func (e Expression) IsZero() bool {
	return e.kind == 0
}

// Value is the magnitude in the unit the expression was written in.
func (e Expression) Value() float64 {
	return e.value
}

// Unit is the canonical unit name, empty for numbers and dates.
func (e Expression) Unit() string {
	return e.unitName
}

// Time is the calendar date of a date expression.
func (e Expression) Time() time.Time {
	return e.date
}

// Comparable reports whether two expressions share a kind and, for
// quantities, a dimension. Mass and length are not comparable.
func (e Expression) Comparable(other Expression) bool {
	if e.kind != other.kind {
		return false
	}
	if e.kind == KindQuantity {
		return unit.DimensionsMatch(e.si, other.si)
	}
	return true
}

// magnitude places the expression on the real line: SI value for
// quantities, seconds since the Unix epoch for dates.
func (e Expression) magnitude() float64 {
	switch e.kind {
	case KindQuantity:
		return e.si.Value()
	case KindDate:
		return float64(e.date.Unix())
	default:
		return e.value
	}
}

func (e Expression) String() string {
	switch e.kind {
	case KindNumber:
		return strconv.FormatFloat(e.value, 'f', -1, 64)
	case KindQuantity:
		return strconv.FormatFloat(e.value, 'f', -1, 64) + " " + e.unitName
	case KindDate:
		return e.date.Format(DateLayout)
	default:
		return ""
	}
}

type unitDef struct {
	dims   unit.Dimensions
	factor float64
}

var (
	massDims   = unit.Dimensions{unit.MassDim: 1}
	lengthDims = unit.Dimensions{unit.LengthDim: 1}
	timeDims   = unit.Dimensions{unit.TimeDim: 1}
	areaDims   = unit.Dimensions{unit.LengthDim: 2}
	volumeDims = unit.Dimensions{unit.LengthDim: 3}
	speedDims  = unit.Dimensions{unit.LengthDim: 1, unit.TimeDim: -1}
)

// units maps singular unit names to their SI conversion factor.
var units = map[string]unitDef{
	"milligram": {massDims, 1e-6},
	"gram":      {massDims, 1e-3},
	"kilogram":  {massDims, 1},
	"tonne":     {massDims, 1000},
	"ounce":     {massDims, 0.028349523125},
	"pound":     {massDims, 0.45359237},

	"millimeter": {lengthDims, 1e-3},
	"centimeter": {lengthDims, 1e-2},
	"meter":      {lengthDims, 1},
	"kilometer":  {lengthDims, 1000},
	"inch":       {lengthDims, 0.0254},
	"foot":       {lengthDims, 0.3048},
	"yard":       {lengthDims, 0.9144},
	"mile":       {lengthDims, 1609.344},

	"second": {timeDims, 1},
	"minute": {timeDims, 60},
	"hour":   {timeDims, 3600},
	"day":    {timeDims, 86400},
	"week":   {timeDims, 604800},
	"year":   {timeDims, 31557600},

	"square meter": {areaDims, 1},
	"square foot":  {areaDims, 0.09290304},
	"square mile":  {areaDims, 2589988.110336},
	"acre":         {areaDims, 4046.8564224},
	"hectare":      {areaDims, 10000},

	"liter":       {volumeDims, 1e-3},
	"gallon":      {volumeDims, 0.003785411784},
	"cubic meter": {volumeDims, 1},
	"cubic foot":  {volumeDims, 0.028316846592},

	"meter per second":   {speedDims, 1},
	"kilometer per hour": {speedDims, 1 / 3.6},
	"mile per hour":      {speedDims, 0.44704},
}

var unitAliases = map[string]string{
	"mg": "milligram", "g": "gram", "kg": "kilogram", "t": "tonne",
	"oz": "ounce", "lb": "pound",
	"mm": "millimeter", "cm": "centimeter", "m": "meter", "km": "kilometer",
	"in": "inch", "ft": "foot", "yd": "yard", "mi": "mile",
	"s": "second", "sec": "second", "min": "minute", "h": "hour", "hr": "hour",
	"l": "liter", "mph": "mile per hour", "kph": "kilometer per hour",
}

var irregularPlurals = map[string]string{
	"feet":   "foot",
	"inches": "inch",
}

func lookupUnit(name string) (unitDef, string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "metre", "meter")
	name = strings.ReplaceAll(name, "litre", "liter")

	if alias, ok := unitAliases[name]; ok {
		name = alias
	}
	if def, ok := units[name]; ok {
		return def, name, true
	}

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = singular(w)
	}
	name = strings.Join(words, " ")
	if alias, ok := unitAliases[name]; ok {
		name = alias
	}
	def, ok := units[name]
	return def, name, ok
}

func singular(word string) string {
	if s, ok := irregularPlurals[word]; ok {
		return s
	}
	if len(word) > 2 && strings.HasSuffix(word, "s") {
		return strings.TrimSuffix(word, "s")
	}
	return word
}
