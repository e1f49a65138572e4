package factor

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/predicate"
)

// treeGen builds small random factor trees over a fixed vocabulary, so
// that unrelated trees still share templates often enough to compare.
type treeGen struct {
	t        *testing.T
	rng      *rand.Rand
	generics []*Entity
	specific []*Entity
}

func newTreeGen(t *testing.T, seed uint64) *treeGen {
	return &treeGen{
		t:        t,
		rng:      rand.New(rand.NewPCG(seed, seed^0x5eed)),
		generics: []*Entity{NewEntity("a"), NewEntity("b"), NewEntity("c")},
		specific: []*Entity{NewEntity("Alice", Specific()), NewEntity("Bob", Specific())},
	}
}

func (g *treeGen) entity() Factor {
	if g.rng.IntN(4) == 0 {
		return g.specific[g.rng.IntN(len(g.specific))]
	}
	return g.generics[g.rng.IntN(len(g.generics))]
}

func (g *treeGen) opts() []Option {
	var opts []Option
	if g.rng.IntN(5) == 0 {
		opts = append(opts, Absent())
	}
	return opts
}

func (g *treeGen) fact(depth int) Factor {
	var (
		p     *predicate.Predicate
		terms []Factor
		err   error
	)
	switch choice := g.rng.IntN(5); {
	case choice == 0:
		p, err = predicate.New("$person was a person", predicate.Truth(g.rng.IntN(2) == 0))
		terms = []Factor{g.entity()}
	case choice == 1:
		p, err = predicate.New("$party1 and $party2 were friends")
		terms = []Factor{g.entity(), g.entity()}
	case choice == 2:
		p, err = predicate.New("$buyer paid $seller")
		terms = []Factor{g.entity(), g.entity()}
	case choice == 3:
		signs := []predicate.Sign{predicate.Greater, predicate.GreaterOrEqual, predicate.Less, predicate.Equal}
		expr, qerr := predicate.Quantity(float64((g.rng.IntN(4)+1)*5), "meter")
		require.NoError(g.t, qerr)
		p, err = predicate.NewComparison("the distance between $place1 and $place2 was", signs[g.rng.IntN(len(signs))], expr)
		terms = []Factor{g.entity(), g.entity()}
	default:
		if depth <= 0 {
			return g.fact(0)
		}
		p, err = predicate.New("$speaker said $statement")
		terms = []Factor{g.entity(), g.fact(depth - 1)}
	}
	require.NoError(g.t, err)

	f, err := NewFact(p, terms, g.opts()...)
	if err != nil {
		// Repeated terms can trip the plurality or interchangeability
		// checks; draw again.
		return g.fact(depth)
	}
	return f
}

const propertyRounds = 300

func TestImpliesIsReflexive(t *testing.T) {
	g := newTreeGen(t, 1)
	for range propertyRounds {
		x := g.fact(2)
		assert.True(t, Implies(x, x), x.String())
		assert.True(t, Means(x, x), x.String())
	}
}

func TestImpliesIsTransitive(t *testing.T) {
	g := newTreeGen(t, 2)
	checked := 0
	for range propertyRounds * 20 {
		x, y, z := g.fact(1), g.fact(1), g.fact(1)
		if Implies(x, y) && Implies(y, z) {
			checked++
			assert.True(t, Implies(x, z), fmt.Sprintf("%s > %s > %s", x, y, z))
		}
	}
	assert.Positive(t, checked)
}

func TestMeansIsMutualImplication(t *testing.T) {
	g := newTreeGen(t, 3)
	for range propertyRounds * 5 {
		x, y := g.fact(1), g.fact(1)
		assert.Equal(t, Implies(x, y) && Implies(y, x), Means(x, y), fmt.Sprintf("%s vs %s", x, y))
	}
}

func TestContradictsIsSymmetric(t *testing.T) {
	g := newTreeGen(t, 4)
	found := 0
	for range propertyRounds * 5 {
		x, y := g.fact(1), g.fact(1)
		c := Contradicts(x, y)
		if c {
			found++
		}
		assert.Equal(t, c, Contradicts(y, x), fmt.Sprintf("%s vs %s", x, y))
	}
	assert.Positive(t, found)
}

func TestNewContextPreservesMeaning(t *testing.T) {
	g := newTreeGen(t, 5)
	a, b, c := g.generics[0], g.generics[1], g.generics[2]
	rotate, err := NewRegister(Binding{Left: a, Right: b}, Binding{Left: b, Right: c}, Binding{Left: c, Right: a})
	require.NoError(t, err)

	for range propertyRounds {
		x := g.fact(2)
		moved, err := NewContext(x, rotate)
		require.NoError(t, err)
		assert.True(t, Means(moved, x), fmt.Sprintf("%s vs %s", moved, x))
	}
}
