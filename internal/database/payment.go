package database

import (
	"time"
)

// Payment represents a settle-up between two participants. It is folded
// straight into the engine: a payment is an add(payer, payee, amount,
// expenseId) call using a synthetic expense id (SyntheticExpenseID) drawn
// from the group's LedgerSnapshot.NextSeqNum counter, so it nets through the
// same pairwise algorithm as any expense.
type Payment struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	GroupID            uint        `gorm:"not null" json:"group_id"`
	Group              Group       `gorm:"foreignKey:GroupID" json:"group"`
	PayerID            uint        `gorm:"not null" json:"payer_id"`
	Payer              Participant `gorm:"foreignKey:PayerID" json:"payer"`
	PayeeID            uint        `gorm:"not null" json:"payee_id"`
	Payee              Participant `gorm:"foreignKey:PayeeID" json:"payee"`
	Amount             int64       `gorm:"not null" json:"amount"`
	SyntheticExpenseID int64       `gorm:"not null;uniqueIndex:idx_payment_synth" json:"synthetic_expense_id"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}
