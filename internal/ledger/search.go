package ledger

// findRightmostIndex locates, within debts sorted ascending by current
// amount, the offset target for the netting loop (spec §4.3):
//
//   - if some debt's current amount equals target exactly, the rightmost
//     such index;
//   - otherwise, the index of the largest debt whose current amount is
//     strictly less than target (the insertion point minus one), clamped
//     to 0 when target is smaller than every debt's amount;
//   - -1 on an empty slice.
//
// Skip-zero rule: fully paid-off debts (amount 0) cluster at the front of
// the ascending list and must never be selected as the offset target. If
// the chosen index has amount 0 and a next index exists, that next index
// is returned instead.
func findRightmostIndex(target Amount, debts []*Debt) int {
	n := len(debts)
	if n == 0 {
		return -1
	}

	// Binary search for the first index whose amount exceeds target (the
	// upper bound). One less than that is either the rightmost exact
	// match or the largest strictly-smaller element, since equal amounts
	// are contiguous in an ascending sort.
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		if debts[mid].CurrentAmount() > target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	idx := lo - 1
	if idx < 0 {
		idx = 0
	}

	if debts[idx].CurrentAmount() == 0 && idx+1 < n {
		idx++
	}

	return idx
}
