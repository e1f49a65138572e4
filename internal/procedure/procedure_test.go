package procedure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/factor"
	"github.com/mscarey/AuthoritySpoke-sub000/internal/predicate"
)

func about(t *testing.T, content string, term factor.Factor, opts ...predicate.Option) factor.Factor {
	t.Helper()
	p, err := predicate.New(content, opts...)
	require.NoError(t, err)
	f, err := factor.NewFact(p, []factor.Factor{term})
	require.NoError(t, err)
	return f
}

func group(fs ...factor.Factor) []factor.Factor { return fs }

func mustProcedure(t *testing.T, outputs, inputs, despite []factor.Factor) *Procedure {
	t.Helper()
	p, err := New(outputs, inputs, despite)
	require.NoError(t, err)
	return p
}

func TestNoOutputs(t *testing.T) {
	_, err := New(nil, group(about(t, "$person was a person", factor.NewEntity("p"))), nil)
	assert.ErrorIs(t, err, ErrNoOutputs)
}

func TestPluralityHoldsAcrossGroups(t *testing.T) {
	alice := factor.NewEntity("Alice", factor.Specific())
	aliceGroup := factor.NewEntity("Alice", factor.Specific(), factor.Plural())

	_, err := New(group(about(t, "$person was liable", aliceGroup)), group(about(t, "$person was a person", alice)), nil)
	assert.ErrorIs(t, err, factor.ErrConflictingPlurality)

	_, err = New(group(about(t, "$person was liable", alice)), nil, group(about(t, "$person was a minor", aliceGroup)))
	assert.ErrorIs(t, err, factor.ErrConflictingPlurality)

	_, err = New(group(about(t, "$person was liable", alice)), group(about(t, "$person was a person", alice)), nil)
	assert.NoError(t, err)
}

func TestInputsCompareContravariantly(t *testing.T) {
	x := factor.NewEntity("x")
	person := about(t, "$person was a person", x)
	adult := about(t, "$person was an adult", x)
	liable := about(t, "$person was liable", x)

	fewer := mustProcedure(t, group(liable), group(person), nil)
	more := mustProcedure(t, group(liable), group(person, adult), nil)

	assert.True(t, fewer.Implies(more))
	assert.False(t, more.Implies(fewer))

	assert.True(t, exists(more.ImpliesSomeToSome(fewer, factor.Register{})))
	assert.False(t, exists(fewer.ImpliesSomeToSome(more, factor.Register{})))
}

func TestSomeToSomeNeedsDespiteCovered(t *testing.T) {
	x := factor.NewEntity("x")
	person := about(t, "$person was a person", x)
	minor := about(t, "$person was a minor", x)
	liable := about(t, "$person was liable", x)

	plain := mustProcedure(t, group(liable), group(person), nil)
	despiteMinor := mustProcedure(t, group(liable), group(person), group(minor))

	assert.True(t, exists(despiteMinor.ImpliesSomeToSome(plain, factor.Register{})))
	assert.False(t, exists(plain.ImpliesSomeToSome(despiteMinor, factor.Register{})))
	assert.True(t, exists(plain.ImpliesAllToSome(despiteMinor, factor.Register{})))
}

func TestMeans(t *testing.T) {
	x, y := factor.NewEntity("x"), factor.NewEntity("y")
	a := mustProcedure(t, group(about(t, "$person was liable", x)), group(about(t, "$person was a person", x)), nil)
	b := mustProcedure(t, group(about(t, "$person was liable", y)), group(about(t, "$person was a person", y)), nil)
	c := mustProcedure(t, group(about(t, "$person was liable", y)), nil, nil)

	assert.True(t, a.Means(b))
	assert.False(t, a.Means(c))
}

func TestContradictsSomeToAll(t *testing.T) {
	x := factor.NewEntity("x")
	person := about(t, "$person was a person", x)
	minor := about(t, "$person was a minor", x)
	liable := about(t, "$person was liable", x)
	notLiable := about(t, "$person was liable", x, predicate.Truth(false))

	always := mustProcedure(t, group(liable), group(person), nil)
	sometimes := mustProcedure(t, group(notLiable), group(person, minor), nil)
	unrelated := mustProcedure(t, group(notLiable), group(minor), nil)

	assert.True(t, exists(sometimes.ContradictsSomeToAll(always, factor.Register{})))
	assert.False(t, exists(unrelated.ContradictsSomeToAll(always, factor.Register{})))
}

func TestContradictionCountsDespiteAsCases(t *testing.T) {
	x := factor.NewEntity("x")
	person := about(t, "$person was a person", x)
	minor := about(t, "$person was a minor", x)
	adult := about(t, "$person was an adult", x)
	liable := about(t, "$person was liable", x)
	notLiable := about(t, "$person was liable", x, predicate.Truth(false))

	minorsLiable := mustProcedure(t, group(liable), group(person, minor), nil)

	despiteMinor := mustProcedure(t, group(notLiable), group(person), group(minor))
	assert.True(t, exists(despiteMinor.ContradictsSomeToAll(minorsLiable, factor.Register{})))

	withoutDespite := mustProcedure(t, group(notLiable), group(person), nil)
	assert.False(t, exists(withoutDespite.ContradictsSomeToAll(minorsLiable, factor.Register{})))

	despiteAdult := mustProcedure(t, group(notLiable), group(person), group(adult))
	assert.False(t, exists(despiteAdult.ContradictsSomeToAll(minorsLiable, factor.Register{})))
}

func TestContradictionIgnoresUniversalSideDespite(t *testing.T) {
	x := factor.NewEntity("x")
	person := about(t, "$person was a person", x)
	minor := about(t, "$person was a minor", x)
	liable := about(t, "$person was liable", x)
	notLiable := about(t, "$person was liable", x, predicate.Truth(false))

	liableDespiteMinor := mustProcedure(t, group(liable), group(person), group(minor))
	notLiablePerson := mustProcedure(t, group(notLiable), group(person), nil)

	assert.True(t, exists(notLiablePerson.ContradictsSomeToAll(liableDespiteMinor, factor.Register{})))
}

func TestAddIsNotCommutative(t *testing.T) {
	w, v := factor.NewEntity("work"), factor.NewEntity("thing")
	created := mustProcedure(t,
		group(about(t, "$work was an original work", w)),
		group(about(t, "$work was independently created", w)), nil)
	protected := mustProcedure(t,
		group(about(t, "$work was copyrightable", v)),
		group(about(t, "$work was an original work", v)), nil)

	sum, ok := created.Add(protected)
	require.True(t, ok)
	assert.Len(t, sum.Inputs(), 1)
	require.Len(t, sum.Outputs(), 2)
	assert.Equal(t, "the fact that <work> was copyrightable", sum.Outputs()[1].String())

	_, ok = protected.Add(created)
	assert.False(t, ok)
}

func TestUnionAlignsTerms(t *testing.T) {
	w, v := factor.NewEntity("work"), factor.NewEntity("thing")
	created := mustProcedure(t,
		group(about(t, "$work was an original work", w)),
		group(about(t, "$work was independently created", w)), nil)
	protected := mustProcedure(t,
		group(about(t, "$work was copyrightable", v)),
		group(about(t, "$work was an original work", v)), nil)

	u, ok := created.Union(protected)
	require.True(t, ok)
	assert.Len(t, u.Inputs(), 2)
	assert.Len(t, u.Outputs(), 2)
	assert.Len(t, u.GenericTerms(), 1)
}

func TestUnionFailsOnContradiction(t *testing.T) {
	x := factor.NewEntity("x")
	liable := mustProcedure(t, group(about(t, "$person was liable", x)), group(about(t, "$person was a person", x)), nil)
	notLiable := mustProcedure(t, group(about(t, "$person was liable", x, predicate.Truth(false))), group(about(t, "$person was a person", x)), nil)

	_, ok := liable.Union(notLiable)
	assert.False(t, ok)
}

func TestAddKeepsUnboundTermsApart(t *testing.T) {
	x, y := factor.NewEntity("x"), factor.NewEntity("y")
	owed, err := predicate.New("$creditor was owed by $debtor")
	require.NoError(t, err)
	debt, err := factor.NewFact(owed, []factor.Factor{x, y})
	require.NoError(t, err)

	liableFirst := mustProcedure(t, group(about(t, "$person was liable", x)), group(about(t, "$person was a person", x)), nil)
	owesWhenLiable := mustProcedure(t, group(debt), group(about(t, "$person was liable", y)), nil)

	sum, ok := liableFirst.Add(owesWhenLiable)
	require.True(t, ok)
	require.Len(t, sum.Outputs(), 2)
	terms := sum.Outputs()[1].Terms()
	require.Len(t, terms, 2)
	assert.NotEqual(t, terms[0].Key(), terms[1].Key())
	assert.Equal(t, "<x>", terms[1].Key())
	assert.Len(t, sum.GenericTerms(), 2)
}

func TestUnionKeepsUnalignedTermsApart(t *testing.T) {
	x := factor.NewEntity("x")
	liable := mustProcedure(t, group(about(t, "$person was liable", x)), group(about(t, "$person was a person", x)), nil)
	owner := mustProcedure(t, group(about(t, "$owner was taxed", x)), group(about(t, "$owner owned land", x)), nil)

	u, ok := liable.Union(owner)
	require.True(t, ok)
	assert.Len(t, u.GenericTerms(), 2)
}
