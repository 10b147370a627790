package ledger

import (
	"encoding/json"
	"fmt"
	"sort"
)

// mapTag distinguishes a tagged keyed-mapping object from an ordinary
// record in the serialized form, so a two-level map round-trips exactly
// rather than being mistaken for a plain JSON object keyed by the same
// field names a debtor record or history entry would use.
const mapTag = "map"

type wireMap struct {
	Tag     string          `json:"tag"`
	Entries []wireMapEntry  `json:"entries"`
}

type wireMapEntry struct {
	Key   ID              `json:"key"`
	Value json.RawMessage `json:"value"`
}

type wireDebtorRecord struct {
	Owes  Amount     `json:"owes"`
	Debts []wireDebt `json:"debts"`
}

type wireDebt struct {
	ExpenseID ExpenseID      `json:"expenseId"`
	History   []HistoryEntry `json:"history"`
}

// ToText renders the ledger as a self-describing textual form: each level
// of the two-level creditor->debtor mapping is a tagged object (a tag name
// plus an ordered list of [key, value] entries), distinguishable from the
// plain debtor-record and history-entry objects nested inside it, which
// require no tagging. Creditor and debtor keys are emitted in sorted order
// so the output is deterministic.
func (l *Ledger) ToText() (string, error) {
	out := wireMap{Tag: mapTag}

	for _, c := range sortedKeys(l.records) {
		debtorMap := l.records[c]
		inner := wireMap{Tag: mapTag}

		for _, d := range sortedKeys(debtorMap) {
			rec := debtorMap[d]
			wr := wireDebtorRecord{Owes: rec.Owes}
			for _, deb := range rec.Debts {
				wr.Debts = append(wr.Debts, wireDebt{
					ExpenseID: deb.ExpenseID,
					History:   append([]HistoryEntry(nil), deb.History...),
				})
			}

			value, err := json.Marshal(wr)
			if err != nil {
				return "", fmt.Errorf("ledger: marshal debtor record %s->%s: %w", c, d, err)
			}
			inner.Entries = append(inner.Entries, wireMapEntry{Key: d, Value: value})
		}

		innerValue, err := json.Marshal(inner)
		if err != nil {
			return "", fmt.Errorf("ledger: marshal creditor %s: %w", c, err)
		}
		out.Entries = append(out.Entries, wireMapEntry{Key: c, Value: innerValue})
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("ledger: marshal ledger: %w", err)
	}
	return string(b), nil
}

// FromText reverses ToText, replacing the ledger's current contents with
// the decoded structure. It swaps in the new state only after a full,
// successful decode, so a malformed input leaves the ledger unchanged.
func (l *Ledger) FromText(s string) error {
	records, err := decodeLedgerText(s)
	if err != nil {
		return err
	}
	l.records = records
	return nil
}

func decodeLedgerText(s string) (map[ID]map[ID]*DebtorRecord, error) {
	var outer wireMap
	if err := json.Unmarshal([]byte(s), &outer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if outer.Tag != mapTag {
		return nil, fmt.Errorf("%w: outer structure is not a tagged map", ErrMalformed)
	}

	records := make(map[ID]map[ID]*DebtorRecord, len(outer.Entries))
	for _, ce := range outer.Entries {
		var inner wireMap
		if err := json.Unmarshal(ce.Value, &inner); err != nil {
			return nil, fmt.Errorf("%w: creditor %q: %v", ErrMalformed, ce.Key, err)
		}
		if inner.Tag != mapTag {
			return nil, fmt.Errorf("%w: creditor %q is not a tagged map", ErrMalformed, ce.Key)
		}

		debtorMap := make(map[ID]*DebtorRecord, len(inner.Entries))
		for _, de := range inner.Entries {
			var wr wireDebtorRecord
			if err := json.Unmarshal(de.Value, &wr); err != nil {
				return nil, fmt.Errorf("%w: %q->%q: %v", ErrMalformed, ce.Key, de.Key, err)
			}

			rec := &DebtorRecord{Owes: wr.Owes}
			for _, wd := range wr.Debts {
				rec.Debts = append(rec.Debts, &Debt{
					ExpenseID: wd.ExpenseID,
					History:   append([]HistoryEntry(nil), wd.History...),
				})
			}
			debtorMap[de.Key] = rec
		}
		records[ce.Key] = debtorMap
	}

	return records, nil
}

func sortedKeys[V any](m map[ID]V) []ID {
	keys := make([]ID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
