package ledger

import "sort"

// Add records a new claim: creditor is owed amount by debtor, originated
// by expenseID. It ensures the pair's symmetric presence, books the claim
// against ledger[creditor][debtor], then runs a simplification pass that
// offsets the claim against any opposing outstanding debts so that, once
// Add returns, at most one side of the pair owes a non-zero balance.
//
// amount should be positive; amount == 0 is treated as a no-op net-zero
// addition that still ensures the pair's symmetric presence. Reusing an
// expenseID already present on this pair's creditor side causes upsert to
// append a further history entry to the existing debt.
func (l *Ledger) Add(creditor, debtor ID, amount Amount, expenseID ExpenseID) {
	l.ensureTwoWayRelation(creditor, debtor)
	l.upsert(creditor, debtor, expenseID, expenseID, amount)
	l.simplify(creditor, debtor)
}

// sortByAmount sorts debts ascending by current amount. Equal amounts are
// broken by descending expense id (the most recently opened debt of a
// tied amount sorts first). The tie-break does not change any pair's Owes,
// but it does decide which of several equal debts a netting pass offsets
// first, so it fixes the per-debt amounts and keeps runs reproducible.
func sortByAmount(debts []*Debt) {
	sort.Slice(debts, func(i, j int) bool {
		ai, aj := debts[i].CurrentAmount(), debts[j].CurrentAmount()
		if ai != aj {
			return ai < aj
		}
		return debts[i].ExpenseID > debts[j].ExpenseID
	})
}

// simplify is the netting pass for a pair just updated on the (creditor,
// debtor) side. A = ledger[creditor][debtor] holds the new claim; B =
// ledger[debtor][creditor] is the opposing side being offset against.
//
// The largest outstanding debt on A is offset, greedily absorbing as much
// of B's smaller debts as possible before spending any remainder on a
// larger one: the rightmost B debt not exceeding A's target amount is the
// starting point, and the loop walks left while the cumulative mass of
// smaller B debts could still be absorbed, then jumps to the next-larger
// B debt once that mass is exhausted.
func (l *Ledger) simplify(creditor, debtor ID) {
	a := l.get(creditor, debtor)
	b := l.get(debtor, creditor)
	if a == nil || b == nil {
		panic(&Fault{Op: "simplify", ID: debtor})
	}

	sortByAmount(a.Debts)
	if len(a.Debts) == 0 {
		return
	}
	debtA := a.Debts[len(a.Debts)-1]
	x := debtA.CurrentAmount()

	sortByAmount(b.Debts)
	j := findRightmostIndex(x, b.Debts)
	jStart := j

	var prefixSum Amount
	for i := 0; i <= j && i < len(b.Debts); i++ {
		prefixSum += b.Debts[i].CurrentAmount()
	}

	for x > 0 {
		if j < 0 {
			break
		}
		debtB := b.Debts[j]
		y := debtB.CurrentAmount()
		if y <= 0 {
			break
		}

		prefixSum -= y

		newY := max64(y-x, 0)
		newX := x - (y - newY)
		grants := -(x - newX)

		debtA.History = append(debtA.History, HistoryEntry{
			ExpenseID: debtB.ExpenseID,
			Grants:    grants,
			Amount:    x + grants,
		})
		a.Owes += grants

		debtB.History = append(debtB.History, HistoryEntry{
			ExpenseID: debtA.ExpenseID,
			Grants:    grants,
			Amount:    y + grants,
		})
		b.Owes += grants

		x = newX

		if prefixSum > 0 {
			j--
		} else if jStart+1 < len(b.Debts) {
			j = jStart + 1
		} else {
			j = len(b.Debts) - 1
		}
	}
}

func max64(a, b Amount) Amount {
	if a > b {
		return a
	}
	return b
}
