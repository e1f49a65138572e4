package factor

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/predicate"
)

func plain(t *testing.T, content string, opts ...predicate.Option) *predicate.Predicate {
	t.Helper()
	p, err := predicate.New(content, opts...)
	require.NoError(t, err)
	return p
}

func comparison(t *testing.T, content string, sign predicate.Sign, expr string, opts ...predicate.Option) *predicate.Predicate {
	t.Helper()
	e, err := predicate.ParseExpression(expr)
	require.NoError(t, err)
	p, err := predicate.NewComparison(content, sign, e, opts...)
	require.NoError(t, err)
	return p
}

func fact(t *testing.T, p *predicate.Predicate, terms []Factor, opts ...Option) *Fact {
	t.Helper()
	f, err := NewFact(p, terms, opts...)
	require.NoError(t, err)
	return f
}

func terms(fs ...Factor) []Factor { return fs }

func collect(seq func(func(Explanation) bool)) []Explanation {
	var out []Explanation
	for e := range seq {
		out = append(out, e)
	}
	return out
}

func TestEntityKeys(t *testing.T) {
	assert.Equal(t, "<the defendant>", NewEntity("the defendant").Key())
	assert.Equal(t, "Alice", NewEntity("Alice", Specific()).Key())
	assert.True(t, NewEntity("crowd", Plural()).IsPlural())
}

func TestFactString(t *testing.T) {
	al := NewEntity("Al")
	f := fact(t, plain(t, "$person was a person"), terms(al))
	assert.Equal(t, "the fact that <Al> was a person", f.String())

	absent := fact(t, plain(t, "$person was a person"), terms(al), Absent(), Standard("preponderance of evidence"))
	assert.Equal(t, "the absence of the fact it was found by preponderance of evidence that <Al> was a person", absent.String())

	generic := fact(t, plain(t, "$person was a person"), terms(al), Generic())
	assert.Equal(t, "<the fact that <Al> was a person>", generic.String())
}

func TestFactConstructionErrors(t *testing.T) {
	alice := NewEntity("Alice", Specific())
	aliceGroup := NewEntity("Alice", Specific(), Plural())
	bob := NewEntity("Bob", Specific())
	person := fact(t, plain(t, "$person was a person"), terms(bob))

	_, err := NewFact(plain(t, "$buyer paid $seller"), terms(alice))
	assert.ErrorIs(t, err, ErrTermCount)

	_, err = NewFact(plain(t, "$party1 and $party2 were friends"), terms(alice, person))
	assert.ErrorIs(t, err, ErrInterchangeableMismatch)

	_, err = NewFact(plain(t, "$party1 and $party2 were friends"), terms(alice, aliceGroup))
	assert.ErrorIs(t, err, ErrInterchangeableMismatch)

	_, err = NewFact(plain(t, "$buyer paid $seller"), terms(alice, aliceGroup))
	assert.ErrorIs(t, err, ErrConflictingPlurality)

	_, err = NewFact(plain(t, "$person was a person"), terms(bob), Standard("a hunch"))
	assert.ErrorIs(t, err, ErrUnknownStandard)

	_, err = NewFact(nil, nil)
	assert.ErrorIs(t, err, ErrNilPredicate)
}

func TestNestingLimit(t *testing.T) {
	speaker := NewEntity("speaker")
	said := plain(t, "$speaker said $statement")
	current := fact(t, plain(t, "$person was a person"), terms(speaker))

	for current.depth() < MaxDepth {
		current = fact(t, said, terms(speaker, current))
	}
	_, err := NewFact(said, terms(speaker, current))
	assert.ErrorIs(t, err, ErrTooDeep)
}

func TestGenericImplicationBindsTerms(t *testing.T) {
	p := plain(t, "$person was a person")
	left := fact(t, p, terms(NewEntity("Al")))
	right := fact(t, p, terms(NewEntity("Bo")))

	explanations := collect(ExplanationsImplication(left, right))
	require.Len(t, explanations, 1)
	assert.Equal(t, "<Al> is like <Bo>", explanations[0].Context().String())
	assert.Equal(t, Implication, explanations[0].Relation())
	assert.True(t, Means(left, right))
}

func TestSpecificEntitiesMatchByName(t *testing.T) {
	p := plain(t, "$person was a person")
	alice := fact(t, p, terms(NewEntity("Alice", Specific())))
	bob := fact(t, p, terms(NewEntity("Bob", Specific())))
	someone := fact(t, p, terms(NewEntity("someone")))

	assert.False(t, Implies(alice, bob))
	assert.True(t, Implies(alice, someone))
	assert.False(t, Implies(someone, alice))
	assert.False(t, Means(alice, someone))
}

func TestRegistersAreInjective(t *testing.T) {
	loved := plain(t, "$lover loved $beloved")
	p, q, r := NewEntity("p"), NewEntity("q"), NewEntity("r")
	distinct := fact(t, loved, terms(p, q))
	self := fact(t, loved, terms(r, r))

	assert.False(t, Implies(distinct, self))
	assert.False(t, Implies(self, distinct))
}

func TestInterchangeableTerms(t *testing.T) {
	alice, bob := NewEntity("Alice", Specific()), NewEntity("Bob", Specific())
	friends := plain(t, "$party1 and $party2 were friends")
	paid := plain(t, "$buyer paid $seller")

	assert.True(t, Means(fact(t, friends, terms(alice, bob)), fact(t, friends, terms(bob, alice))))
	assert.False(t, Means(fact(t, paid, terms(alice, bob)), fact(t, paid, terms(bob, alice))))

	x, y, z, w := NewEntity("x"), NewEntity("y"), NewEntity("z"), NewEntity("w")
	explanations := collect(ExplanationsSameMeaning(fact(t, friends, terms(x, y)), fact(t, friends, terms(z, w))))
	assert.Len(t, explanations, 2)
}

func TestAbsenceReversesImplication(t *testing.T) {
	pkg := NewEntity("package")
	atLeast := func(expr string, opts ...Option) *Fact {
		return fact(t, comparison(t, "the weight of $package was", predicate.GreaterOrEqual, expr), terms(pkg), opts...)
	}

	assert.True(t, Implies(atLeast("20 gram"), atLeast("10 gram")))
	assert.False(t, Implies(atLeast("10 gram"), atLeast("20 gram")))

	assert.True(t, Implies(atLeast("10 gram", Absent()), atLeast("20 gram", Absent())))
	assert.False(t, Implies(atLeast("20 gram", Absent()), atLeast("10 gram", Absent())))

	assert.False(t, Implies(atLeast("20 gram"), atLeast("20 gram", Absent())))
}

func TestPresentContradictsAbsentItImplies(t *testing.T) {
	pkg := NewEntity("package")
	atLeast := func(expr string, opts ...Option) *Fact {
		return fact(t, comparison(t, "the weight of $package was", predicate.GreaterOrEqual, expr), terms(pkg), opts...)
	}

	assert.True(t, Contradicts(atLeast("20 gram"), atLeast("10 gram", Absent())))
	assert.True(t, Contradicts(atLeast("10 gram", Absent()), atLeast("20 gram")))
	assert.False(t, Contradicts(atLeast("10 gram"), atLeast("20 gram", Absent())))
	assert.False(t, Contradicts(atLeast("10 gram", Absent()), atLeast("20 gram", Absent())))
}

func TestNormalizedComparisonContradicts(t *testing.T) {
	pkg := NewEntity("package")
	notOver := fact(t, comparison(t, "the weight of $package was", predicate.Greater, "10 gram", predicate.Truth(false)), terms(pkg))
	heavy := fact(t, comparison(t, "the weight of $package was", predicate.GreaterOrEqual, "0.5 kilogram"), terms(pkg))

	assert.True(t, Contradicts(notOver, heavy))
	assert.True(t, Contradicts(heavy, notOver))
	assert.False(t, ConsistentWith(heavy, notOver, Register{}))
}

func TestGenericFactorsNeverContradict(t *testing.T) {
	p := plain(t, "$work was an original work")
	w := NewEntity("work")
	yes := fact(t, p, terms(w), Generic())
	no := fact(t, plain(t, "$work was an original work", predicate.Truth(false)), terms(w))
	assert.False(t, Contradicts(yes, no))
	assert.True(t, Implies(no, yes))
}

func TestHigherOrderFactsDoNotContradictTransitively(t *testing.T) {
	w := NewEntity("work")
	x, y := NewEntity("X"), NewEntity("Y")
	original := fact(t, plain(t, "$work was an original work"), terms(w))
	notOriginal := fact(t, plain(t, "$work was an original work", predicate.Truth(false)), terms(w))
	require.True(t, Contradicts(original, notOriginal))

	told := plain(t, "$speaker told $listener $statement")
	toldOriginal := fact(t, told, terms(x, y, original))
	toldNotOriginal := fact(t, told, terms(x, y, notOriginal))

	assert.False(t, Contradicts(toldOriginal, toldNotOriginal))
	assert.False(t, Implies(toldOriginal, toldNotOriginal))
	assert.True(t, Implies(toldOriginal, toldOriginal))
}

func TestStandardsOfProof(t *testing.T) {
	p := plain(t, "$person was liable")
	d := NewEntity("defendant")
	strong := fact(t, p, terms(d), Standard("beyond reasonable doubt"))
	weak := fact(t, p, terms(d), Standard("preponderance of evidence"))
	none := fact(t, p, terms(d))

	assert.True(t, Implies(strong, weak))
	assert.False(t, Implies(weak, strong))
	assert.False(t, Implies(none, weak))
	assert.False(t, Means(strong, weak))

	notLiable := fact(t, plain(t, "$person was liable", predicate.Truth(false)), terms(d), Standard("preponderance of evidence"))
	assert.True(t, Contradicts(weak, notLiable))
	assert.False(t, Contradicts(strong, notLiable))
}

func TestExhibitForms(t *testing.T) {
	witness := NewEntity("witness")
	statement := fact(t, plain(t, "$person was present"), terms(witness))
	testimony, err := NewExhibit("testimony", statement, witness)
	require.NoError(t, err)
	anyExhibit, err := NewExhibit("", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "the testimony attributed to <witness>, asserting the fact that <witness> was present", testimony.String())
	assert.True(t, Implies(testimony, anyExhibit))
	assert.False(t, Implies(anyExhibit, testimony))
	assert.False(t, Means(testimony, anyExhibit))
}

func TestEvidenceSlots(t *testing.T) {
	witness := NewEntity("witness")
	present := fact(t, plain(t, "$person was present"), terms(witness))
	testimony, err := NewExhibit("testimony", present, witness)
	require.NoError(t, err)

	full, err := NewEvidence(testimony, present)
	require.NoError(t, err)
	bare, err := NewEvidence(testimony, nil)
	require.NoError(t, err)

	assert.True(t, Implies(full, bare))
	assert.False(t, Implies(bare, full))
	assert.Len(t, full.Terms(), 2)
	assert.Len(t, bare.Terms(), 1)
}

func TestCrossVariantNeverMatches(t *testing.T) {
	filer := NewEntity("plaintiff")
	pleading, err := NewPleading(filer)
	require.NoError(t, err)
	claim := fact(t, plain(t, "$person was injured"), terms(filer))
	allegation, err := NewAllegation(pleading, claim)
	require.NoError(t, err)

	assert.False(t, Implies(pleading, allegation))
	assert.False(t, Implies(claim, allegation))
	assert.True(t, Means(allegation, allegation))
	assert.Equal(t, "the allegation in the pleading filed by <plaintiff>, claiming the fact that <plaintiff> was injured", allegation.String())
}

func TestEntitiesCannotBeAbsent(t *testing.T) {
	_, err := WithAbsence(NewEntity("x"), true)
	assert.ErrorIs(t, err, ErrAbsentEntity)
}

func TestNewContextSwapsTerms(t *testing.T) {
	paid := plain(t, "$buyer paid $seller")
	a, b := NewEntity("a"), NewEntity("b")
	f := fact(t, paid, terms(a, b))

	swap, err := NewRegister(Binding{Left: a, Right: b}, Binding{Left: b, Right: a})
	require.NoError(t, err)
	swapped, err := NewContext(f, swap)
	require.NoError(t, err)

	assert.Equal(t, "the fact that <b> paid <a>", swapped.String())
	assert.True(t, Means(swapped, f))
	assert.Equal(t, "the fact that <a> paid <b>", f.String())
}

func TestNewContextRejectsOtherKind(t *testing.T) {
	a := NewEntity("a")
	f := fact(t, plain(t, "$person was a person"), terms(a))
	other := fact(t, plain(t, "$person was tall"), terms(a))

	reg, err := NewRegister(Binding{Left: a, Right: other})
	require.NoError(t, err)
	_, err = NewContext(f, reg)
	assert.ErrorIs(t, err, ErrContextKind)
}

func TestRegisterOperations(t *testing.T) {
	a, b, c := NewEntity("a"), NewEntity("b"), NewEntity("c")

	r, err := NewRegister(Binding{Left: a, Right: b})
	require.NoError(t, err)
	_, err = r.With(a, c)
	assert.ErrorIs(t, err, ErrInconsistentRegister)
	_, err = r.With(c, b)
	assert.ErrorIs(t, err, ErrInconsistentRegister)

	other, err := NewRegister(Binding{Left: c, Right: a})
	require.NoError(t, err)
	merged, ok := r.Merge(other)
	require.True(t, ok)
	assert.Equal(t, 2, merged.Len())
	assert.Equal(t, 1, r.Len())

	got, ok := merged.Reversed().Get(b)
	require.True(t, ok)
	assert.Equal(t, "<a>", got.Key())

	flipped, err := NewRegister(Binding{Left: c, Right: a}, Binding{Left: a, Right: b})
	require.NoError(t, err)
	assert.True(t, merged.Equal(flipped))
}

func TestGenericTerms(t *testing.T) {
	a, b := NewEntity("a"), NewEntity("b")
	alice := NewEntity("Alice", Specific())
	inner := fact(t, plain(t, "$buyer paid $seller"), terms(b, alice))
	outer := fact(t, plain(t, "$speaker said $statement"), terms(a, inner))

	var keys []string
	for _, g := range GenericTerms(outer) {
		keys = append(keys, g.Key())
	}
	assert.Equal(t, []string{"<a>", "<b>"}, keys)
}

func TestMergeGroups(t *testing.T) {
	pkg := NewEntity("package")
	atLeast := func(expr string) Factor {
		return fact(t, comparison(t, "the weight of $package was", predicate.GreaterOrEqual, expr), terms(pkg))
	}
	light := fact(t, comparison(t, "the weight of $package was", predicate.Less, "5 gram"), terms(pkg))

	merged, ok := MergeGroups([]Factor{atLeast("10 gram")}, []Factor{atLeast("20 gram")})
	require.True(t, ok)
	require.Len(t, merged, 1)
	assert.Contains(t, merged[0].String(), "20 gram")

	merged, ok = MergeGroups([]Factor{atLeast("20 gram")}, []Factor{atLeast("10 gram")})
	require.True(t, ok)
	assert.Len(t, merged, 1)

	_, ok = MergeGroups([]Factor{atLeast("10 gram")}, []Factor{light})
	assert.False(t, ok)
}

func TestLikelyContexts(t *testing.T) {
	p := plain(t, "$person was a person")
	x, y := NewEntity("x"), NewEntity("y")
	var sigs []string
	for reg := range LikelyContexts([]Factor{fact(t, p, terms(x))}, []Factor{fact(t, p, terms(y))}, Register{}) {
		sigs = append(sigs, reg.String())
	}
	assert.True(t, slices.Contains(sigs, "<x> is like <y>"))
	assert.Equal(t, "no terms bound", sigs[len(sigs)-1])
}

func TestParseRelation(t *testing.T) {
	rel, err := ParseRelation("Contradicts")
	require.NoError(t, err)
	assert.Equal(t, Contradiction, rel)
	assert.Equal(t, "IMPLIES", Implication.String())
	_, err = ParseRelation("resembles")
	assert.ErrorIs(t, err, ErrUnknownRelation)
}
