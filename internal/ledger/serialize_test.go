package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleLedger() *Ledger {
	l := New()
	l.Add("A", "B", 10, 0)
	l.Add("A", "B", 5, 1)
	l.Add("B", "A", 7, 2)
	l.Add("A", "C", 4, 3)
	l.Add("C", "B", 6, 4)
	return l
}

// TestRoundTrip checks P6: FromText(ToText(L)) reproduces L's scalar state
// (Owes per pair) and per-debt current amounts exactly.
func TestRoundTrip(t *testing.T) {
	l := buildSampleLedger()

	text, err := l.ToText()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.FromText(text))

	assertLedgersEqual(t, l, restored)
}

// TestRoundTripEmptyLedger checks P6 holds for the degenerate empty case.
func TestRoundTripEmptyLedger(t *testing.T) {
	l := New()
	text, err := l.ToText()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.FromText(text))
	assert.Empty(t, restored.records)
}

// TestRoundTripIsStableUnderReserialization checks that serializing an
// already-restored ledger a second time reproduces the same text, i.e. the
// tagged-map form is a fixed point, not just a one-way decode.
func TestRoundTripIsStableUnderReserialization(t *testing.T) {
	l := buildSampleLedger()

	text1, err := l.ToText()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.FromText(text1))

	text2, err := restored.ToText()
	require.NoError(t, err)

	assert.Equal(t, text1, text2)
}

func TestFromTextRejectsMalformedJSON(t *testing.T) {
	l := New()
	l.Add("A", "B", 5, 0)
	before, err := l.ToText()
	require.NoError(t, err)

	err = l.FromText("{not json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))

	after, err := l.ToText()
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed FromText must leave the ledger unchanged")
}

func TestFromTextRejectsMissingTag(t *testing.T) {
	l := New()
	err := l.FromText(`{"entries":[]}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestFromTextRejectsUntaggedInnerMap(t *testing.T) {
	l := New()
	err := l.FromText(`{"tag":"map","entries":[{"key":"A","value":{"entries":[]}}]}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func assertLedgersEqual(t *testing.T, want, got *Ledger) {
	t.Helper()
	require.Equal(t, len(want.records), len(got.records))

	for c, wantDebtors := range want.records {
		gotDebtors, ok := got.records[c]
		require.True(t, ok, "missing creditor %s after round trip", c)
		require.Equal(t, len(wantDebtors), len(gotDebtors))

		for d, wantRec := range wantDebtors {
			gotRec, ok := gotDebtors[d]
			require.True(t, ok, "missing debtor %s->%s after round trip", c, d)
			assert.Equal(t, wantRec.Owes, gotRec.Owes, "%s->%s owes mismatch", c, d)
			require.Equal(t, len(wantRec.Debts), len(gotRec.Debts), "%s->%s debt count mismatch", c, d)

			for _, wantDebt := range wantRec.Debts {
				gotDebt := gotRec.findDebt(wantDebt.ExpenseID)
				require.NotNil(t, gotDebt, "%s->%s missing expense %d after round trip", c, d, wantDebt.ExpenseID)
				assert.Equal(t, wantDebt.CurrentAmount(), gotDebt.CurrentAmount(), "%s->%s expense %d amount mismatch", c, d, wantDebt.ExpenseID)
				assert.Equal(t, wantDebt.History, gotDebt.History, "%s->%s expense %d history mismatch", c, d, wantDebt.ExpenseID)
			}
		}
	}
}
