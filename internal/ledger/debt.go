package ledger

// HistoryEntry is one atomic adjustment applied to a Debt. ExpenseID names
// the opposing expense that caused the adjustment (for a debt's very first
// entry, its own expense id, representing the initial booking). Grants is
// the signed delta applied by this step; Amount is the resulting balance,
// monotonically non-increasing after creation and always >= 0.
type HistoryEntry struct {
	ExpenseID ExpenseID
	Grants    Amount
	Amount    Amount
}

// Debt is the lifetime of a single expense's claim between one ordered
// pair of participants: the originating expense id plus a non-empty,
// append-only, oldest-first history of adjustments.
type Debt struct {
	ExpenseID ExpenseID
	History   []HistoryEntry
}

// CurrentAmount is the amount field of the last history entry, or 0 if the
// debt has no history yet.
func (d *Debt) CurrentAmount() Amount {
	if len(d.History) == 0 {
		return 0
	}
	return d.History[len(d.History)-1].Amount
}

// DebtorRecord is the claim one participant holds against another: a
// scalar cache of the sum of current debt amounts, plus the debts
// themselves.
type DebtorRecord struct {
	Owes  Amount
	Debts []*Debt
}

// findDebt returns the Debt with the given expense id, or nil if absent.
func (r *DebtorRecord) findDebt(expenseID ExpenseID) *Debt {
	for _, d := range r.Debts {
		if d.ExpenseID == expenseID {
			return d
		}
	}
	return nil
}

// upsert is the debt record's core transaction (spec §4.2): locate or
// create the Debt for toExpense under ledger[creditor][debtor], append a
// history entry recording a fromExpense-attributed delta of grants, and
// keep the debtor record's Owes cache in agreement. The caller is
// responsible for choosing grants such that prev+grants >= 0; the netting
// algorithm guarantees this by construction.
func (l *Ledger) upsert(creditor, debtor ID, fromExpense, toExpense ExpenseID, grants Amount) *Debt {
	rec := l.get(creditor, debtor)
	if rec == nil {
		panic(&Fault{Op: "upsert", ID: debtor})
	}

	debt := rec.findDebt(toExpense)
	if debt == nil {
		debt = &Debt{ExpenseID: toExpense}
		rec.Debts = append(rec.Debts, debt)
	}

	var prev Amount
	if n := len(debt.History); n > 0 {
		prev = debt.History[n-1].Amount
	}

	debt.History = append(debt.History, HistoryEntry{
		ExpenseID: fromExpense,
		Grants:    grants,
		Amount:    prev + grants,
	})
	rec.Owes += grants

	return debt
}
