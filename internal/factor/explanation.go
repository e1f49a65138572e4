package factor

import (
	"fmt"
	"strings"
)

// Relation names the comparison an Explanation justifies.
type Relation int

const (
	Implication Relation = iota + 1
	SameMeaning
	Contradiction
)

func (r Relation) String() string {
	switch r {
	case Implication:
		return "IMPLIES"
	case SameMeaning:
		return "MEANS"
	case Contradiction:
		return "CONTRADICTS"
	default:
		return fmt.Sprintf("relation(%d)", int(r))
	}
}

// ParseRelation accepts "implies", "means" or "contradicts" in any case.
func ParseRelation(s string) (Relation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "implies", "implication":
		return Implication, nil
	case "means", "same_meaning":
		return SameMeaning, nil
	case "contradicts", "contradiction":
		return Contradiction, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRelation, s)
}

// Explanation is a register under which a relation was found to hold.
type Explanation struct {
	context  Register
	relation Relation
}

// NewExplanation pairs a register with the relation it justifies.
func NewExplanation(context Register, relation Relation) Explanation {
	return Explanation{context: context, relation: relation}
}

// Context returns the justifying register.
func (e Explanation) Context() Register { return e.context }

// Relation returns the justified relation.
func (e Explanation) Relation() Relation { return e.relation }

// Reversed returns the explanation seen from the other side. Only
// symmetric relations keep their meaning.
func (e Explanation) Reversed() Explanation {
	return Explanation{context: e.context.Reversed(), relation: e.relation}
}

func (e Explanation) String() string {
	return fmt.Sprintf("Because %s, %s", e.context, e.relation)
}
