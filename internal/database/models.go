package database

import (
	"time"

	"gorm.io/gorm"
)

// Group represents a group of people sharing expenses.
type Group struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	URLSlug      string        `gorm:"uniqueIndex;not null" json:"url_slug"`
	Name         string        `gorm:"not null" json:"name"`
	Currency     string        `gorm:"size:3;not null" json:"currency"`
	Participants []Participant `gorm:"foreignKey:GroupID" json:"participants"`
	Expenses     []Expense     `gorm:"foreignKey:GroupID" json:"expenses"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Participant represents a member of a group. The engine addresses
// participants by the string form of their ID (see services.participantID).
type Participant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	Group     Group     `gorm:"foreignKey:GroupID" json:"group"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expense represents a single expense in a group. Cost and Split.SplitAmount
// are stored in minor currency units (cents), matching the engine's Amount.
type Expense struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Name      string      `gorm:"not null" json:"name"`
	Cost      int64       `gorm:"not null" json:"cost"`
	Emoji     string      `json:"emoji"`
	PayerID   uint        `gorm:"not null" json:"payer_id"`
	Payer     Participant `gorm:"foreignKey:PayerID" json:"payer"`
	SplitType string      `gorm:"not null" json:"split_type"` // "equal", "amount", "shares"
	GroupID   uint        `gorm:"not null" json:"group_id"`
	Group     Group       `gorm:"foreignKey:GroupID" json:"group"`
	Splits    []Split     `gorm:"foreignKey:ExpenseID" json:"splits"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Split represents one participant's share of an expense.
type Split struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	GroupID       uint        `gorm:"not null" json:"group_id"`
	Group         Group       `gorm:"foreignKey:GroupID" json:"group"`
	ExpenseID     uint        `gorm:"not null" json:"expense_id"`
	Expense       Expense     `gorm:"foreignKey:ExpenseID" json:"expense"`
	ParticipantID uint        `gorm:"not null" json:"participant_id"`
	Participant   Participant `gorm:"foreignKey:ParticipantID" json:"participant"`
	SplitAmount   int64       `gorm:"not null" json:"split_amount"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// LedgerSnapshot persists one group's engine state (an internal/ledger.Ledger,
// serialized via ToText) so it can be rehydrated after a process restart
// without replaying every expense. One row per group.
type LedgerSnapshot struct {
	GroupID    uint      `gorm:"primaryKey" json:"group_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	NextSeqNum int64     `gorm:"not null;default:0" json:"next_seq_num"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Migrate runs database migrations for every model this package owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Group{},
		&Participant{},
		&Expense{},
		&Split{},
		&Payment{},
		&LedgerSnapshot{},
	)
}
