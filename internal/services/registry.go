package services

import (
	"fmt"
	"sync"

	"freesplit/internal/database"
	"freesplit/internal/ledger"

	"gorm.io/gorm"
)

// engineEntry pairs one group's ledger with the mutex that serializes access
// to it: the engine itself is single-threaded, so every public call against
// it must hold mu for its full duration.
type engineEntry struct {
	mu  sync.Mutex
	l   *ledger.Ledger
	seq int64 // next synthetic expense id for settle-up payments
}

// EngineRegistry holds one Engine per group, created lazily the first time a
// group is touched after process start and rehydrated from its
// database.LedgerSnapshot row if one exists. It holds no netting logic of
// its own; see DESIGN.md.
type EngineRegistry struct {
	db *gorm.DB

	mu      sync.Mutex // guards the entries map itself, not any one engine
	entries map[uint]*engineEntry
}

func NewEngineRegistry(db *gorm.DB) *EngineRegistry {
	return &EngineRegistry{db: db, entries: make(map[uint]*engineEntry)}
}

// entry returns the engineEntry for groupID, loading it from the
// LedgerSnapshot table (or creating an empty one) on first touch.
func (r *EngineRegistry) entry(groupID uint) (*engineEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[groupID]; ok {
		return e, nil
	}

	e := &engineEntry{l: ledger.New()}

	var snap database.LedgerSnapshot
	err := r.db.First(&snap, "group_id = ?", groupID).Error
	switch {
	case err == nil:
		if err := e.l.FromText(snap.Text); err != nil {
			return nil, fmt.Errorf("engine registry: rehydrate group %d: %w", groupID, err)
		}
		e.seq = snap.NextSeqNum
	case err == gorm.ErrRecordNotFound:
		// fresh group, nothing to rehydrate
	default:
		return nil, fmt.Errorf("engine registry: load snapshot for group %d: %w", groupID, err)
	}

	r.entries[groupID] = e
	return e, nil
}

// withEngine runs fn with groupID's engine locked, then persists the
// resulting state to LedgerSnapshot. fn may mutate the ledger through add;
// persistence happens unconditionally since add is the only mutator and is
// always followed by a state change worth saving.
func (r *EngineRegistry) withEngine(groupID uint, fn func(l *ledger.Ledger, e *engineEntry) error) error {
	e, err := r.entry(groupID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := fn(e.l, e); err != nil {
		return err
	}

	text, err := e.l.ToText()
	if err != nil {
		return fmt.Errorf("engine registry: serialize group %d: %w", groupID, err)
	}

	snap := database.LedgerSnapshot{GroupID: groupID, Text: text, NextSeqNum: e.seq}
	return r.db.Save(&snap).Error
}

// withReadOnlyEngine runs fn with groupID's engine locked but does not
// persist afterward, for read paths (GetDebts, GetLedgerText).
func (r *EngineRegistry) withReadOnlyEngine(groupID uint, fn func(l *ledger.Ledger) error) error {
	e, err := r.entry(groupID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.l)
}

// nextSyntheticExpenseID draws the next id from groupID's dedicated counter,
// used for settle-up payments so that a payment nets through ledger.Add
// like any other expense without colliding with a real database.Expense id
// (the two id spaces are kept disjoint by sign: real expense ids are
// positive database IDs, synthetic ones are negative).
func nextSyntheticExpenseID(e *engineEntry) ledger.ExpenseID {
	e.seq++
	return -e.seq
}
