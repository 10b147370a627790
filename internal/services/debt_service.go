package services

import (
	"context"
	"fmt"

	"freesplit/internal/database"
	"freesplit/internal/ledger"

	"gorm.io/gorm"
)

type debtService struct {
	db       *gorm.DB
	registry *EngineRegistry
}

// NewDebtService creates a new instance of the debt service with database
// and engine registry dependencies.
func NewDebtService(db *gorm.DB, registry *EngineRegistry) DebtService {
	return &debtService{db: db, registry: registry}
}

// GetDebts calls engine.GetCreditors() for the group and flattens the
// two-level map into the response list of non-zero pairs, each carrying its
// full per-debt history.
func (s *debtService) GetDebts(ctx context.Context, req *GetDebtsRequest) (*GetDebtsResponse, error) {
	var debts []*Debt
	err := s.registry.withReadOnlyEngine(uint(req.GroupId), func(l *ledger.Ledger) error {
		debts = debtsFromEngine(l.GetCreditors(), true)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get debts: %w", err)
	}
	return &GetDebtsResponse{Debts: debts}, nil
}

// GetLedgerText exposes the engine's raw ToText() serialization, the full
// audit trail of every balance in the group, over the wire.
func (s *debtService) GetLedgerText(ctx context.Context, req *GetLedgerTextRequest) (*GetLedgerTextResponse, error) {
	var text string
	err := s.registry.withReadOnlyEngine(uint(req.GroupId), func(l *ledger.Ledger) error {
		t, err := l.ToText()
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize ledger: %w", err)
	}
	return &GetLedgerTextResponse{Text: text}, nil
}

// CreatePayment models a settle-up as add(payer, payee, amount, expenseId)
// with a synthetic expense id drawn from the group's dedicated counter, so
// it nets through the same algorithm as any expense, then records it in the
// Payment table for history/display purposes.
func (s *debtService) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	payer := participantID(uint(req.PayerId))
	payee := participantID(uint(req.PayeeId))

	var syntheticID ledger.ExpenseID
	err := s.registry.withEngine(uint(req.GroupId), func(l *ledger.Ledger, e *engineEntry) error {
		syntheticID = nextSyntheticExpenseID(e)
		l.Add(payer, payee, req.Amount, syntheticID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to net payment through engine: %w", err)
	}

	payment := database.Payment{
		GroupID:            uint(req.GroupId),
		PayerID:            uint(req.PayerId),
		PayeeID:            uint(req.PayeeId),
		Amount:             req.Amount,
		SyntheticExpenseID: int64(syntheticID),
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return &CreatePaymentResponse{Payment: PaymentFromDB(&payment)}, nil
}

func (s *debtService) GetPayments(ctx context.Context, req *GetPaymentsRequest) (*GetPaymentsResponse, error) {
	var payments []database.Payment
	if err := s.db.Where("group_id = ?", req.GroupId).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	responsePayments := make([]*Payment, len(payments))
	for i, p := range payments {
		responsePayments[i] = PaymentFromDB(&p)
	}

	return &GetPaymentsResponse{Payments: responsePayments}, nil
}
