// Package factor implements the closed family of statements a legal rule is
// built from, and the matcher that decides whether one statement means,
// implies, or contradicts another.
//
// Generic factors are placeholders: they have no identity across trees, only
// a structural role. Every comparison therefore produces ContextRegisters
// mapping the generic terms of the left tree onto terms of the right tree.
// Registers are built lazily, so asking whether any explanation exists and
// asking for all of them share one implementation.
package factor

import (
	"errors"
	"fmt"
)

// MaxDepth bounds how deeply factors may nest, chiefly through Facts about Facts.
const MaxDepth = 64

var (
	ErrNilPredicate            = errors.New("fact needs a predicate")
	ErrTermCount               = errors.New("terms do not match template placeholders")
	ErrInterchangeableMismatch = errors.New("interchangeable placeholders bound to incompatible terms")
	ErrConflictingPlurality    = errors.New("entity used with conflicting plurality")
	ErrTooDeep                 = errors.New("factor nesting too deep")
	ErrUnknownStandard         = errors.New("unknown standard of proof")
	ErrContextKind             = errors.New("replacement term has a different kind")
	ErrAbsentEntity            = errors.New("entities cannot be absent")
	ErrSlotKind                = errors.New("factor does not fit slot")
	ErrUnknownRelation         = errors.New("unknown comparison relation")
)

// Kind tags the variants of Factor.
type Kind int

const (
	KindEntity Kind = iota + 1
	KindFact
	KindExhibit
	KindEvidence
	KindPleading
	KindAllegation
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindFact:
		return "fact"
	case KindExhibit:
		return "exhibit"
	case KindEvidence:
		return "evidence"
	case KindPleading:
		return "pleading"
	case KindAllegation:
		return "allegation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Factor is a node in a statement tree. The set of implementations is
// closed: the unexported methods are what every comparison in this package
// dispatches on, so a new variant does not compile until it supplies them.
type Factor interface {
	Kind() Kind
	// Name is the back-reference label, or the entity's name.
	Name() string
	IsGeneric() bool
	IsAbsent() bool
	// Key identifies the factor inside one tree.
	Key() string
	String() string
	// Terms returns the filled child slots in order.
	Terms() []Factor

	// slots returns the fixed child slots, nil where a slot is empty.
	slots() []Factor
	// interchangeable returns groups of slot positions that may be permuted.
	interchangeable() [][]int
	// concreteMatch compares everything except child slots; other has the same Kind.
	concreteMatch(other Factor, rel Relation) bool
	// concreteContradiction reports whether both present factors' own
	// content is incompatible; other has the same Kind.
	concreteContradiction(other Factor) bool
	rebuild(slots []Factor) (Factor, error)
	withAbsence(absent bool) (Factor, error)
	depth() int
}

type attrs struct {
	name     string
	generic  bool
	absent   bool
	plural   bool
	standard string
}

// Option sets common attributes on a factor under construction.
type Option func(*attrs)

// Generic marks the factor as a placeholder matched by role, not identity.
func Generic() Option {
	return func(a *attrs) {
		a.generic = true
	}
}

// Specific marks the factor as non-generic. Entities are generic unless
// marked specific.
func Specific() Option {
	return func(a *attrs) {
		a.generic = false
	}
}

// Absent asserts that the factor is not present.
func Absent() Option {
	return func(a *attrs) {
		a.absent = true
	}
}

// Plural marks an entity as referring to a group.
func Plural() Option {
	return func(a *attrs) {
		a.plural = true
	}
}

// Named attaches a back-reference label.
func Named(name string) Option {
	return func(a *attrs) {
		a.name = name
	}
}

// Standard sets the standard of proof a Fact was found under.
func Standard(standard string) Option {
	return func(a *attrs) {
		a.standard = standard
	}
}

// StandardsOfProof lists the recognized standards from weakest to strongest.
var StandardsOfProof = []string{
	"scintilla of evidence",
	"substantial evidence",
	"preponderance of evidence",
	"clear and convincing",
	"beyond reasonable doubt",
}

func standardRank(standard string) int {
	for i, s := range StandardsOfProof {
		if s == standard {
			return i
		}
	}
	return -1
}

func decorate(a attrs, body string) string {
	if a.absent {
		body = "the absence of " + body
	}
	if a.generic {
		body = "<" + body + ">"
	}
	return body
}

// checkSlots enforces the depth limit and entity plurality across the
// subtrees that will become children of a new factor.
func checkSlots(slots []Factor) (int, error) {
	depth := 0
	plurality := make(map[string]bool)
	for _, s := range slots {
		if s == nil {
			continue
		}
		if d := s.depth(); d > depth {
			depth = d
		}
		if err := collectPlurality(s, plurality); err != nil {
			return 0, err
		}
	}
	depth++
	if depth > MaxDepth {
		return 0, fmt.Errorf("%w: %d levels", ErrTooDeep, depth)
	}
	return depth, nil
}

// CheckPlurality fails with ErrConflictingPlurality when one non-generic
// entity appears as both singular and plural anywhere in factors.
func CheckPlurality(factors []Factor) error {
	seen := make(map[string]bool)
	for _, f := range factors {
		if f == nil {
			continue
		}
		if err := collectPlurality(f, seen); err != nil {
			return err
		}
	}
	return nil
}

func collectPlurality(f Factor, seen map[string]bool) error {
	if e, ok := f.(*Entity); ok {
		if e.generic {
			return nil
		}
		if plural, found := seen[e.name]; found && plural != e.plural {
			return fmt.Errorf("%w: %q", ErrConflictingPlurality, e.name)
		}
		seen[e.name] = e.plural
		return nil
	}
	for _, s := range f.slots() {
		if s == nil {
			continue
		}
		if err := collectPlurality(s, seen); err != nil {
			return err
		}
	}
	return nil
}

func filled(slots []Factor) []Factor {
	out := make([]Factor, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
