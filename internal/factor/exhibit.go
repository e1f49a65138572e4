package factor

import "fmt"

// Exhibit is a piece of evidence in some form, optionally stating a Fact
// and attributed to an Entity.
type Exhibit struct {
	attrs
	form        string
	statement   *Fact
	attribution *Entity
	levels      int
	key         string
}

// NewExhibit builds an Exhibit. An empty form matches exhibits of any form
// on the right side of an implication.
func NewExhibit(form string, statement *Fact, attribution *Entity, opts ...Option) (*Exhibit, error) {
	var a attrs
	for _, opt := range opts {
		opt(&a)
	}
	return newExhibit(a, form, statement, attribution)
}

func newExhibit(a attrs, form string, statement *Fact, attribution *Entity) (*Exhibit, error) {
	a.plural, a.standard = false, ""
	x := &Exhibit{attrs: a, form: form, statement: statement, attribution: attribution}
	levels, err := checkSlots(x.slots())
	if err != nil {
		return nil, err
	}
	x.levels = levels

	body := "the exhibit"
	if form != "" {
		body = "the " + form
	}
	if attribution != nil {
		body += " attributed to " + attribution.String()
	}
	if statement != nil {
		body += ", asserting " + statement.String()
	}
	x.key = decorate(a, body)
	return x, nil
}

// Form returns the exhibit's form, such as "testimony" or "affidavit".
func (x *Exhibit) Form() string { return x.form }

// Statement returns the fact the exhibit asserts, or nil.
func (x *Exhibit) Statement() *Fact { return x.statement }

// Attribution returns the entity the exhibit is attributed to, or nil.
func (x *Exhibit) Attribution() *Entity { return x.attribution }

func (x *Exhibit) Kind() Kind               { return KindExhibit }
func (x *Exhibit) Name() string             { return x.name }
func (x *Exhibit) IsGeneric() bool          { return x.generic }
func (x *Exhibit) IsAbsent() bool           { return x.absent }
func (x *Exhibit) Key() string              { return x.key }
func (x *Exhibit) String() string           { return x.key }
func (x *Exhibit) Terms() []Factor          { return filled(x.slots()) }
func (x *Exhibit) depth() int               { return x.levels }
func (x *Exhibit) interchangeable() [][]int { return nil }

func (x *Exhibit) slots() []Factor {
	return []Factor{factSlot(x.statement), entitySlot(x.attribution)}
}

func (x *Exhibit) concreteMatch(other Factor, rel Relation) bool {
	o := other.(*Exhibit)
	if rel == SameMeaning {
		return x.form == o.form
	}
	return o.form == "" || x.form == o.form
}

func (x *Exhibit) concreteContradiction(Factor) bool {
	return false
}

func (x *Exhibit) rebuild(slots []Factor) (Factor, error) {
	statement, err := slotAs[*Fact](slots[0])
	if err != nil {
		return nil, err
	}
	attribution, err := slotAs[*Entity](slots[1])
	if err != nil {
		return nil, err
	}
	return newExhibit(x.attrs, x.form, statement, attribution)
}

func (x *Exhibit) withAbsence(absent bool) (Factor, error) {
	a := x.attrs
	a.absent = absent
	return newExhibit(a, x.form, x.statement, x.attribution)
}

// Evidence is an Exhibit offered to support a Fact.
type Evidence struct {
	attrs
	exhibit  *Exhibit
	toEffect *Fact
	levels   int
	key      string
}

// NewEvidence builds Evidence. Either slot may be nil.
func NewEvidence(exhibit *Exhibit, toEffect *Fact, opts ...Option) (*Evidence, error) {
	var a attrs
	for _, opt := range opts {
		opt(&a)
	}
	return newEvidence(a, exhibit, toEffect)
}

func newEvidence(a attrs, exhibit *Exhibit, toEffect *Fact) (*Evidence, error) {
	a.plural, a.standard = false, ""
	e := &Evidence{attrs: a, exhibit: exhibit, toEffect: toEffect}
	levels, err := checkSlots(e.slots())
	if err != nil {
		return nil, err
	}
	e.levels = levels

	body := "the evidence"
	if exhibit != nil {
		body += " of " + exhibit.String()
	}
	if toEffect != nil {
		body += ", which supports " + toEffect.String()
	}
	e.key = decorate(a, body)
	return e, nil
}

// Exhibit returns the exhibit offered, or nil.
func (e *Evidence) Exhibit() *Exhibit { return e.exhibit }

// ToEffect returns the fact the evidence supports, or nil.
func (e *Evidence) ToEffect() *Fact { return e.toEffect }

func (e *Evidence) Kind() Kind               { return KindEvidence }
func (e *Evidence) Name() string             { return e.name }
func (e *Evidence) IsGeneric() bool          { return e.generic }
func (e *Evidence) IsAbsent() bool           { return e.absent }
func (e *Evidence) Key() string              { return e.key }
func (e *Evidence) String() string           { return e.key }
func (e *Evidence) Terms() []Factor          { return filled(e.slots()) }
func (e *Evidence) depth() int               { return e.levels }
func (e *Evidence) interchangeable() [][]int { return nil }

func (e *Evidence) slots() []Factor {
	return []Factor{exhibitSlot(e.exhibit), factSlot(e.toEffect)}
}

func (e *Evidence) concreteMatch(Factor, Relation) bool {
	return true
}

func (e *Evidence) concreteContradiction(Factor) bool {
	return false
}

func (e *Evidence) rebuild(slots []Factor) (Factor, error) {
	exhibit, err := slotAs[*Exhibit](slots[0])
	if err != nil {
		return nil, err
	}
	toEffect, err := slotAs[*Fact](slots[1])
	if err != nil {
		return nil, err
	}
	return newEvidence(e.attrs, exhibit, toEffect)
}

func (e *Evidence) withAbsence(absent bool) (Factor, error) {
	a := e.attrs
	a.absent = absent
	return newEvidence(a, e.exhibit, e.toEffect)
}

func slotAs[T Factor](s Factor) (T, error) {
	var zero T
	if s == nil {
		return zero, nil
	}
	v, ok := s.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s %s", ErrSlotKind, s.Kind(), s)
	}
	return v, nil
}

func factSlot(f *Fact) Factor {
	if f == nil {
		return nil
	}
	return f
}

func entitySlot(e *Entity) Factor {
	if e == nil {
		return nil
	}
	return e
}

func exhibitSlot(x *Exhibit) Factor {
	if x == nil {
		return nil
	}
	return x
}

func pleadingSlot(p *Pleading) Factor {
	if p == nil {
		return nil
	}
	return p
}
