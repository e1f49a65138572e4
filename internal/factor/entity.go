package factor

// Entity is an atomic term: a person, place or thing a statement is about.
// Non-generic entities are identified by name.
type Entity struct {
	attrs
	key string
}

// NewEntity builds an entity. Entities are generic unless Specific is given.
func NewEntity(name string, opts ...Option) *Entity {
	a := attrs{name: name, generic: true}
	for _, opt := range opts {
		opt(&a)
	}
	a.name = name
	a.absent = false
	a.standard = ""

	key := name
	if a.generic {
		key = "<" + name + ">"
	}
	return &Entity{attrs: a, key: key}
}

func (e *Entity) Kind() Kind               { return KindEntity }
func (e *Entity) Name() string             { return e.name }
func (e *Entity) IsGeneric() bool          { return e.generic }
func (e *Entity) IsAbsent() bool           { return false }
func (e *Entity) IsPlural() bool           { return e.plural }
func (e *Entity) Key() string              { return e.key }
func (e *Entity) String() string           { return e.key }
func (e *Entity) Terms() []Factor          { return nil }
func (e *Entity) slots() []Factor          { return nil }
func (e *Entity) depth() int               { return 0 }
func (e *Entity) interchangeable() [][]int { return nil }

func (e *Entity) concreteMatch(other Factor, _ Relation) bool {
	o := other.(*Entity)
	return e.name == o.name && e.plural == o.plural
}

func (e *Entity) concreteContradiction(Factor) bool {
	return false
}

func (e *Entity) rebuild([]Factor) (Factor, error) {
	return e, nil
}

func (e *Entity) withAbsence(absent bool) (Factor, error) {
	if absent {
		return nil, ErrAbsentEntity
	}
	return e, nil
}
