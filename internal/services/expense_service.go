package services

import (
	"context"
	"fmt"

	"freesplit/internal/database"
	"freesplit/internal/ledger"

	"gorm.io/gorm"
)

type expenseService struct {
	db       *gorm.DB
	registry *EngineRegistry
}

// NewExpenseService creates a new instance of the expense service with
// database and engine registry dependencies.
func NewExpenseService(db *gorm.DB, registry *EngineRegistry) ExpenseService {
	return &expenseService{db: db, registry: registry}
}

// GetExpensesByGroup retrieves all expenses for a specific group ordered by
// creation date, most recent first.
func (s *expenseService) GetExpensesByGroup(ctx context.Context, req *GetExpensesByGroupRequest) (*GetExpensesByGroupResponse, error) {
	var expenses []database.Expense
	if err := s.db.Where("group_id = ?", req.GroupId).Order("created_at DESC").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	responseExpenses := make([]*Expense, len(expenses))
	for i, e := range expenses {
		responseExpenses[i] = ExpenseFromDB(&e)
	}

	return &GetExpensesByGroupResponse{Expenses: responseExpenses}, nil
}

func (s *expenseService) GetExpenseWithSplits(ctx context.Context, req *GetExpenseWithSplitsRequest) (*GetExpenseWithSplitsResponse, error) {
	var expense database.Expense
	if err := s.db.First(&expense, req.ExpenseId).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("expense not found")
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	var splits []database.Split
	if err := s.db.Where("expense_id = ?", req.ExpenseId).Find(&splits).Error; err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}

	responseSplits := make([]*Split, len(splits))
	for i, sp := range splits {
		responseSplits[i] = SplitFromDB(&sp)
	}

	return &GetExpenseWithSplitsResponse{
		Expense: ExpenseFromDB(&expense),
		Splits:  responseSplits,
	}, nil
}

// CreateExpense creates a new expense with splits and nets it through the
// group's engine. For every split where the participant is not the payer,
// this calls engine.Add(payer, participant, splitAmount, expenseID) once, so
// an expense with N participants produces up to N-1 add() calls against the
// one shared pairwise engine.
func (s *expenseService) CreateExpense(ctx context.Context, req *CreateExpenseRequest) (*CreateExpenseResponse, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	expense := database.Expense{
		Name:      req.Expense.Name,
		Cost:      req.Expense.Cost,
		Emoji:     req.Expense.Emoji,
		PayerID:   uint(req.Expense.PayerId),
		SplitType: req.Expense.SplitType,
		GroupID:   uint(req.Expense.GroupId),
	}

	if err := tx.Create(&expense).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	var splits []database.Split
	for _, split := range req.Splits {
		splits = append(splits, database.Split{
			GroupID:       uint(split.GroupId),
			ExpenseID:     expense.ID,
			ParticipantID: uint(split.ParticipantId),
			SplitAmount:   split.SplitAmount,
		})
	}

	if err := tx.Create(&splits).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create splits: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	payer := participantID(expense.PayerID)
	expenseID := ledger.ExpenseID(expense.ID)
	err := s.registry.withEngine(expense.GroupID, func(l *ledger.Ledger, e *engineEntry) error {
		for _, split := range splits {
			participant := participantID(split.ParticipantID)
			if participant == payer {
				continue
			}
			l.Add(payer, participant, split.SplitAmount, expenseID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to net expense through engine: %w", err)
	}

	responseSplits := make([]*Split, len(splits))
	for i, sp := range splits {
		responseSplits[i] = SplitFromDB(&sp)
	}

	return &CreateExpenseResponse{
		Expense: ExpenseFromDB(&expense),
		Splits:  responseSplits,
	}, nil
}

// UpdateExpense replaces an expense's cost/splits and nets the difference
// through the engine as a compensating claim rather than an in-place edit:
// internal/ledger's Add takes only a positive amount (a new claim to net in),
// it has no operation for retracting or overwriting one already booked. For
// every participant whose split changed, this books the signed difference
// as a fresh claim in whichever direction it actually runs — a growing
// split adds engine.Add(payer, participant, newAmount-oldAmount, expenseID),
// a shrinking one adds engine.Add(participant, payer, oldAmount-newAmount,
// expenseID) — and lets the engine's own netting pass fold it against the
// existing balance exactly as it would any other expense between the pair.
// An unchanged split is skipped entirely.
//
// The payer cannot be changed by an update: reassigning who fronted the
// expense would require retracting every claim already booked against the
// old payer, which the engine has no operation for. Callers that need to
// correct a misattributed payer must delete the expense and re-enter it.
func (s *expenseService) UpdateExpense(ctx context.Context, req *UpdateExpenseRequest) (*UpdateExpenseResponse, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var existing database.Expense
	if err := tx.First(&existing, req.Expense.Id).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("expense not found")
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if existing.PayerID != uint(req.Expense.PayerId) {
		tx.Rollback()
		return nil, fmt.Errorf("cannot change an expense's payer after creation")
	}

	var oldSplits []database.Split
	if err := tx.Where("expense_id = ?", existing.ID).Find(&oldSplits).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to get existing splits: %w", err)
	}
	oldAmounts := make(map[uint]int64, len(oldSplits))
	for _, sp := range oldSplits {
		oldAmounts[sp.ParticipantID] = sp.SplitAmount
	}

	existing.Name = req.Expense.Name
	existing.Cost = req.Expense.Cost
	existing.Emoji = req.Expense.Emoji
	existing.SplitType = req.Expense.SplitType

	if err := tx.Save(&existing).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	if err := tx.Where("expense_id = ?", existing.ID).Delete(&database.Split{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to replace splits: %w", err)
	}

	newSplits := make([]database.Split, len(req.Splits))
	for i, sp := range req.Splits {
		newSplits[i] = database.Split{
			GroupID:       existing.GroupID,
			ExpenseID:     existing.ID,
			ParticipantID: uint(sp.ParticipantId),
			SplitAmount:   sp.SplitAmount,
		}
	}
	if len(newSplits) > 0 {
		if err := tx.Create(&newSplits).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create splits: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	newAmounts := make(map[uint]int64, len(newSplits))
	for _, sp := range newSplits {
		newAmounts[sp.ParticipantID] = sp.SplitAmount
	}

	payer := participantID(existing.PayerID)
	expenseID := ledger.ExpenseID(existing.ID)
	err := s.registry.withEngine(existing.GroupID, func(l *ledger.Ledger, e *engineEntry) error {
		touched := make(map[uint]struct{}, len(oldAmounts)+len(newAmounts))
		for id := range oldAmounts {
			touched[id] = struct{}{}
		}
		for id := range newAmounts {
			touched[id] = struct{}{}
		}
		for pid := range touched {
			if pid == existing.PayerID {
				continue
			}
			participant := participantID(pid)
			delta := newAmounts[pid] - oldAmounts[pid]
			switch {
			case delta > 0:
				l.Add(payer, participant, delta, expenseID)
			case delta < 0:
				l.Add(participant, payer, -delta, expenseID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to net expense update through engine: %w", err)
	}

	responseSplits := make([]*Split, len(newSplits))
	for i, sp := range newSplits {
		responseSplits[i] = SplitFromDB(&sp)
	}

	return &UpdateExpenseResponse{
		Expense: ExpenseFromDB(&existing),
		Splits:  responseSplits,
	}, nil
}

// DeleteExpense deletes an expense and its splits. It does not reverse the
// expense's effect on the engine: internal/ledger has no operation for
// retracting a past add(), only for offsetting it with a further one (see
// DESIGN.md). Deleting a miskeyed expense therefore still requires an
// equal-and-opposite settle-up to correct the balance.
func (s *expenseService) DeleteExpense(ctx context.Context, req *DeleteExpenseRequest) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var expense database.Expense
	if err := tx.First(&expense, req.ExpenseId).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("expense not found")
		}
		return fmt.Errorf("failed to get expense: %w", err)
	}

	if err := tx.Where("expense_id = ?", req.ExpenseId).Delete(&database.Split{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete splits: %w", err)
	}

	if err := tx.Delete(&expense).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return tx.Commit().Error
}
