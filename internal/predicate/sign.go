package predicate

import "fmt"

// Sign is the relation a Comparison asserts between a measured quantity and
// its expression.
type Sign string

const (
	Equal          Sign = "="
	NotEqual       Sign = "!="
	Greater        Sign = ">"
	GreaterOrEqual Sign = ">="
	Less           Sign = "<"
	LessOrEqual    Sign = "<="
)

var signAliases = map[string]Sign{
	"=":  Equal,
	"==": Equal,
	"!=": NotEqual,
	"<>": NotEqual,
	"≠":  NotEqual,
	">":  Greater,
	">=": GreaterOrEqual,
	"≥":  GreaterOrEqual,
	"<":  Less,
	"<=": LessOrEqual,
	"≤":  LessOrEqual,
}

// ParseSign accepts ASCII and mathematical spellings of a sign.
func ParseSign(s string) (Sign, error) {
	sign, ok := signAliases[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSign, s)
	}
	return sign, nil
}

// Negated returns the sign asserting the complement: not > is <=.
func (s Sign) Negated() Sign {
	switch s {
	case Equal:
		return NotEqual
	case NotEqual:
		return Equal
	case Greater:
		return LessOrEqual
	case GreaterOrEqual:
		return Less
	case Less:
		return GreaterOrEqual
	case LessOrEqual:
		return Greater
	default:
		return s
	}
}

// Phrase is the English rendering appended after the template's connector.
func (s Sign) Phrase() string {
	switch s {
	case Equal:
		return "exactly equal to"
	case NotEqual:
		return "not equal to"
	case Greater:
		return "greater than"
	case GreaterOrEqual:
		return "at least"
	case Less:
		return "less than"
	case LessOrEqual:
		return "no more than"
	default:
		return string(s)
	}
}

func (s Sign) valid() bool {
	_, ok := signAliases[string(s)]
	return ok
}
