package factor

// Pleading is a document filed in litigation, optionally by a known Entity.
type Pleading struct {
	attrs
	filer  *Entity
	levels int
	key    string
}

// NewPleading builds a Pleading. filer may be nil.
func NewPleading(filer *Entity, opts ...Option) (*Pleading, error) {
	var a attrs
	for _, opt := range opts {
		opt(&a)
	}
	return newPleading(a, filer)
}

func newPleading(a attrs, filer *Entity) (*Pleading, error) {
	a.plural, a.standard = false, ""
	p := &Pleading{attrs: a, filer: filer}
	levels, err := checkSlots(p.slots())
	if err != nil {
		return nil, err
	}
	p.levels = levels

	body := "the pleading"
	if filer != nil {
		body += " filed by " + filer.String()
	}
	p.key = decorate(a, body)
	return p, nil
}

// Filer returns the entity that filed the pleading, or nil.
func (p *Pleading) Filer() *Entity { return p.filer }

func (p *Pleading) Kind() Kind               { return KindPleading }
func (p *Pleading) Name() string             { return p.name }
func (p *Pleading) IsGeneric() bool          { return p.generic }
func (p *Pleading) IsAbsent() bool           { return p.absent }
func (p *Pleading) Key() string              { return p.key }
func (p *Pleading) String() string           { return p.key }
func (p *Pleading) Terms() []Factor          { return filled(p.slots()) }
func (p *Pleading) slots() []Factor          { return []Factor{entitySlot(p.filer)} }
func (p *Pleading) depth() int               { return p.levels }
func (p *Pleading) interchangeable() [][]int { return nil }

func (p *Pleading) concreteMatch(Factor, Relation) bool {
	return true
}

func (p *Pleading) concreteContradiction(Factor) bool {
	return false
}

func (p *Pleading) rebuild(slots []Factor) (Factor, error) {
	filer, err := slotAs[*Entity](slots[0])
	if err != nil {
		return nil, err
	}
	return newPleading(p.attrs, filer)
}

func (p *Pleading) withAbsence(absent bool) (Factor, error) {
	a := p.attrs
	a.absent = absent
	return newPleading(a, p.filer)
}

// Allegation is a Fact claimed in a Pleading.
type Allegation struct {
	attrs
	pleading *Pleading
	fact     *Fact
	levels   int
	key      string
}

// NewAllegation builds an Allegation. Either slot may be nil.
func NewAllegation(pleading *Pleading, fact *Fact, opts ...Option) (*Allegation, error) {
	var a attrs
	for _, opt := range opts {
		opt(&a)
	}
	return newAllegation(a, pleading, fact)
}

func newAllegation(a attrs, pleading *Pleading, fact *Fact) (*Allegation, error) {
	a.plural, a.standard = false, ""
	al := &Allegation{attrs: a, pleading: pleading, fact: fact}
	levels, err := checkSlots(al.slots())
	if err != nil {
		return nil, err
	}
	al.levels = levels

	body := "the allegation"
	if pleading != nil {
		body += " in " + pleading.String()
	}
	if fact != nil {
		body += ", claiming " + fact.String()
	}
	al.key = decorate(a, body)
	return al, nil
}

// Pleading returns the pleading containing the allegation, or nil.
func (al *Allegation) Pleading() *Pleading { return al.pleading }

// Fact returns the alleged fact, or nil.
func (al *Allegation) Fact() *Fact { return al.fact }

func (al *Allegation) Kind() Kind               { return KindAllegation }
func (al *Allegation) Name() string             { return al.name }
func (al *Allegation) IsGeneric() bool          { return al.generic }
func (al *Allegation) IsAbsent() bool           { return al.absent }
func (al *Allegation) Key() string              { return al.key }
func (al *Allegation) String() string           { return al.key }
func (al *Allegation) Terms() []Factor          { return filled(al.slots()) }
func (al *Allegation) depth() int               { return al.levels }
func (al *Allegation) interchangeable() [][]int { return nil }

func (al *Allegation) slots() []Factor {
	return []Factor{pleadingSlot(al.pleading), factSlot(al.fact)}
}

func (al *Allegation) concreteMatch(Factor, Relation) bool {
	return true
}

func (al *Allegation) concreteContradiction(Factor) bool {
	return false
}

func (al *Allegation) rebuild(slots []Factor) (Factor, error) {
	pleading, err := slotAs[*Pleading](slots[0])
	if err != nil {
		return nil, err
	}
	fact, err := slotAs[*Fact](slots[1])
	if err != nil {
		return nil, err
	}
	return newAllegation(al.attrs, pleading, fact)
}

func (al *Allegation) withAbsence(absent bool) (Factor, error) {
	a := al.attrs
	a.absent = absent
	return newAllegation(a, al.pleading, al.fact)
}
