package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func owes(t *testing.T, l *Ledger, creditor, debtor ID) Amount {
	t.Helper()
	rec, ok := l.GetCreditors()[creditor][debtor]
	require.True(t, ok, "missing debtor record %s->%s", creditor, debtor)
	return rec.Owes
}

func amountsByExpense(t *testing.T, l *Ledger, creditor, debtor ID, expenseIDs []ExpenseID) []Amount {
	t.Helper()
	rec := l.GetCreditors()[creditor][debtor]
	require.NotNil(t, rec)
	out := make([]Amount, len(expenseIDs))
	for i, id := range expenseIDs {
		d := rec.findDebt(id)
		require.NotNil(t, d, "missing debt for expense %d", id)
		out[i] = d.CurrentAmount()
	}
	return out
}

func TestSimpleNetting(t *testing.T) {
	l := New()
	l.Add("A", "B", 10, 0)
	l.Add("A", "B", 5, 1)
	l.Add("B", "A", 7, 2)

	assert.Equal(t, Amount(8), owes(t, l, "A", "B"))
	assert.Equal(t, Amount(0), owes(t, l, "B", "A"))
}

func TestMultipleBackAndForth(t *testing.T) {
	l := New()
	l.Add("A", "B", 10, 0)
	l.Add("A", "B", 5, 1)
	l.Add("B", "A", 7, 2)
	l.Add("A", "B", 12, 3)
	l.Add("B", "A", 3, 4)

	assert.Equal(t, Amount(17), owes(t, l, "A", "B"))
	assert.Equal(t, Amount(0), owes(t, l, "B", "A"))
}

func TestCoverAllSmallFirst(t *testing.T) {
	l := New()
	l.Add("A", "B", 7, 0)
	l.Add("A", "B", 3, 1)
	l.Add("A", "B", 2, 2)
	l.Add("A", "B", 1, 3)
	l.Add("A", "B", 1, 4)
	l.Add("A", "B", 1, 5)
	l.Add("B", "A", 14, 6)

	ids := []ExpenseID{0, 1, 2, 3, 4, 5}
	got := amountsByExpense(t, l, "A", "B", ids)
	assert.Equal(t, []Amount{0, 0, 0, 0, 0, 1}, got)
	assert.Equal(t, Amount(1), owes(t, l, "A", "B"))
}

// TestCoverAllSmallWhenPartial exercises the case where the incoming
// opposing claim exactly equals the current amount of the single largest
// debt: findRightmostIndex lands on that exact match, which alone absorbs
// the whole incoming claim in one step, leaving every smaller debt
// untouched. The total owed afterwards is the conserved difference
// (15 booked minus 7 offset = 8), split as the zeroed largest debt plus
// the five untouched smaller ones.
func TestCoverAllSmallWhenPartial(t *testing.T) {
	l := New()
	l.Add("A", "B", 7, 0)
	l.Add("A", "B", 3, 1)
	l.Add("A", "B", 2, 2)
	l.Add("A", "B", 1, 3)
	l.Add("A", "B", 1, 4)
	l.Add("A", "B", 1, 5)
	l.Add("B", "A", 7, 6)

	ids := []ExpenseID{0, 1, 2, 3, 4, 5}
	got := amountsByExpense(t, l, "A", "B", ids)
	assert.Equal(t, []Amount{0, 3, 2, 1, 1, 1}, got)
	assert.Equal(t, Amount(8), owes(t, l, "A", "B"))
}

func TestPartialAbsorption(t *testing.T) {
	l := New()
	sizes := []Amount{7, 2, 2, 1, 1, 1}
	for i, sz := range sizes {
		l.Add("A", "B", sz, ExpenseID(i))
	}
	l.Add("B", "A", 11, 6)

	ids := []ExpenseID{0, 1, 2, 3, 4, 5}
	got := amountsByExpense(t, l, "A", "B", ids)
	assert.Equal(t, []Amount{0, 0, 0, 1, 1, 1}, got)
	assert.Equal(t, Amount(3), owes(t, l, "A", "B"))
}

func threePartyIsolationSteps(l *Ledger, order []int) {
	steps := []func(){
		func() { l.Add("A", "B", 10, 0) },
		func() { l.Add("A", "B", 5, 1) },
		func() { l.Add("A", "C", 5, 2) },
		func() { l.Add("B", "A", 7, 3) },
		func() { l.Add("B", "A", 3, 4) },
		func() { l.Add("C", "B", 10, 5) },
		func() { l.Add("C", "A", 10, 6) },
	}
	for _, i := range order {
		steps[i]()
	}
}

func assertThreePartyIsolation(t *testing.T, l *Ledger) {
	t.Helper()
	assert.Equal(t, Amount(5), owes(t, l, "A", "B"))
	assert.Equal(t, Amount(0), owes(t, l, "A", "C"))
	assert.Equal(t, Amount(0), owes(t, l, "B", "A"))
	assert.Equal(t, Amount(0), owes(t, l, "B", "C"))
	assert.Equal(t, Amount(5), owes(t, l, "C", "A"))
	assert.Equal(t, Amount(10), owes(t, l, "C", "B"))
}

func TestThreePartyIsolation(t *testing.T) {
	l := New()
	threePartyIsolationSteps(l, []int{0, 1, 2, 3, 4, 5, 6})
	assertThreePartyIsolation(t, l)
}

// TestThreePartyIsolationOrderIndependence exercises the scenario 6
// requirement that the final owes values do not depend on call order.
func TestThreePartyIsolationOrderIndependence(t *testing.T) {
	orders := [][]int{
		{6, 5, 4, 3, 2, 1, 0},
		{2, 0, 4, 1, 6, 3, 5},
		{0, 2, 1, 3, 5, 4, 6},
	}
	for _, order := range orders {
		l := New()
		threePartyIsolationSteps(l, order)
		assertThreePartyIsolation(t, l)
	}
}

func TestAddWithZeroAmountIsNoOpButEnsuresPresence(t *testing.T) {
	l := New()
	l.Add("A", "B", 0, 0)

	assert.True(t, l.hasDebtor("A", "B"))
	assert.True(t, l.hasDebtor("B", "A"))
	assert.Equal(t, Amount(0), owes(t, l, "A", "B"))
	assert.Equal(t, Amount(0), owes(t, l, "B", "A"))
}

func TestDuplicateExpenseIDAppendsAdjustment(t *testing.T) {
	l := New()
	l.Add("A", "B", 10, 0)
	l.Add("A", "B", 5, 0) // reuse expense id 0 on the same pair

	rec := l.GetCreditors()["A"]["B"]
	require.Len(t, rec.Debts, 1)
	debt := rec.Debts[0]
	require.Len(t, debt.History, 2)
	assert.Equal(t, Amount(10), debt.History[0].Amount)
	assert.Equal(t, Amount(15), debt.History[1].Amount)
}
