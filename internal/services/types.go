package services

import (
	"strconv"
	"time"

	"freesplit/internal/database"
	"freesplit/internal/ledger"
)

// Request and Response types for Group operations.
type CreateGroupRequest struct {
	Name             string   `json:"name"`
	Currency         string   `json:"currency"`
	ParticipantNames []string `json:"participant_names"`
}

type CreateGroupResponse struct {
	Group        *Group         `json:"group"`
	Participants []*Participant `json:"participants"`
}

type GetGroupRequest struct {
	UrlSlug string `json:"url_slug"`
}

type GetGroupResponse struct {
	Group        *Group         `json:"group"`
	Participants []*Participant `json:"participants"`
}

type UpdateGroupRequest struct {
	GroupId  int32  `json:"group_id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

// Request and Response types for Participant operations.
type AddParticipantRequest struct {
	Name    string `json:"name"`
	GroupId int32  `json:"group_id"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type UpdateParticipantRequest struct {
	Name          string `json:"name"`
	ParticipantId int32  `json:"participant_id"`
}

type UpdateParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type DeleteParticipantRequest struct {
	ParticipantId int32 `json:"participant_id"`
}

// Request and Response types for Expense operations.
type GetExpensesByGroupRequest struct {
	GroupId int32 `json:"group_id"`
}

type GetExpensesByGroupResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type CreateExpenseRequest struct {
	Expense *Expense `json:"expense"`
	Splits  []*Split `json:"splits"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
	Splits  []*Split `json:"splits"`
}

type GetExpenseWithSplitsRequest struct {
	ExpenseId int32 `json:"expense_id"`
}

type GetExpenseWithSplitsResponse struct {
	Expense *Expense `json:"expense"`
	Splits  []*Split `json:"splits"`
}

type UpdateExpenseRequest struct {
	Expense *Expense `json:"expense"`
	Splits  []*Split `json:"splits"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
	Splits  []*Split `json:"splits"`
}

type DeleteExpenseRequest struct {
	ExpenseId int32 `json:"expense_id"`
}

// Request and Response types for Debt operations.
type GetDebtsRequest struct {
	GroupId int32 `json:"group_id"`
}

type GetDebtsResponse struct {
	Debts []*Debt `json:"debts"`
}

type GetLedgerTextRequest struct {
	GroupId int32 `json:"group_id"`
}

type GetLedgerTextResponse struct {
	Text string `json:"text"`
}

type CreatePaymentRequest struct {
	GroupId int32 `json:"group_id"`
	PayerId int32 `json:"payer_id"`
	PayeeId int32 `json:"payee_id"`
	Amount  int64 `json:"amount"`
}

type CreatePaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type GetPaymentsRequest struct {
	GroupId int32 `json:"group_id"`
}

type GetPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

// Data types.
type Group struct {
	Id        int32     `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	UrlSlug   string    `json:"url_slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Participant struct {
	Id      int32  `json:"id"`
	Name    string `json:"name"`
	GroupId int32  `json:"group_id"`
}

type Expense struct {
	Id        int32     `json:"id"`
	Name      string    `json:"name"`
	Cost      int64     `json:"cost"`
	Emoji     string    `json:"emoji"`
	PayerId   int32     `json:"payer_id"`
	SplitType string    `json:"split_type"`
	GroupId   int32     `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Split struct {
	Id            int32 `json:"id"`
	GroupId       int32 `json:"group_id"`
	ExpenseId     int32 `json:"expense_id"`
	ParticipantId int32 `json:"participant_id"`
	SplitAmount   int64 `json:"split_amount"`
}

// Debt is a non-zero pairwise balance read straight off the engine
// (ledger.GetCreditors()), not a database row.
type Debt struct {
	LenderId int32          `json:"lender_id"`
	DebtorId int32          `json:"debtor_id"`
	Owes     int64          `json:"owes"`
	History  []HistoryEntry `json:"history,omitempty"`
}

type HistoryEntry struct {
	ExpenseId         int64 `json:"expense_id"`
	CausedByExpenseId int64 `json:"caused_by_expense_id"`
	Amount            int64 `json:"amount"`
}

type Payment struct {
	Id        int32     `json:"id"`
	GroupId   int32     `json:"group_id"`
	PayerId   int32     `json:"payer_id"`
	PayeeId   int32     `json:"payee_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// participantID renders a database participant id as the engine's opaque
// string identifier (ledger.ID is a type alias for string).
func participantID(id uint) ledger.ID {
	return strconv.FormatUint(uint64(id), 10)
}

// parseParticipantID reverses participantID for responses that need the
// numeric form back.
func parseParticipantID(id ledger.ID) int32 {
	n, _ := strconv.ParseInt(id, 10, 32)
	return int32(n)
}

// Conversion functions from database models to service types.
func GroupFromDB(dbGroup *database.Group) *Group {
	return &Group{
		Id:        int32(dbGroup.ID),
		Name:      dbGroup.Name,
		Currency:  dbGroup.Currency,
		UrlSlug:   dbGroup.URLSlug,
		CreatedAt: dbGroup.CreatedAt,
	}
}

func ParticipantFromDB(dbParticipant *database.Participant) *Participant {
	return &Participant{
		Id:      int32(dbParticipant.ID),
		Name:    dbParticipant.Name,
		GroupId: int32(dbParticipant.GroupID),
	}
}

func ExpenseFromDB(dbExpense *database.Expense) *Expense {
	return &Expense{
		Id:        int32(dbExpense.ID),
		Name:      dbExpense.Name,
		Cost:      dbExpense.Cost,
		Emoji:     dbExpense.Emoji,
		PayerId:   int32(dbExpense.PayerID),
		SplitType: dbExpense.SplitType,
		GroupId:   int32(dbExpense.GroupID),
		CreatedAt: dbExpense.CreatedAt,
	}
}

func SplitFromDB(dbSplit *database.Split) *Split {
	return &Split{
		Id:            int32(dbSplit.ID),
		GroupId:       int32(dbSplit.GroupID),
		ExpenseId:     int32(dbSplit.ExpenseID),
		ParticipantId: int32(dbSplit.ParticipantID),
		SplitAmount:   dbSplit.SplitAmount,
	}
}

func PaymentFromDB(dbPayment *database.Payment) *Payment {
	return &Payment{
		Id:        int32(dbPayment.ID),
		GroupId:   int32(dbPayment.GroupID),
		PayerId:   int32(dbPayment.PayerID),
		PayeeId:   int32(dbPayment.PayeeID),
		Amount:    dbPayment.Amount,
		CreatedAt: dbPayment.CreatedAt,
	}
}

// debtsFromEngine flattens the engine's two-level creditor->debtor map into
// the flat list the wire format uses, keeping only non-zero balances: at
// most one side of a pair is ever non-zero, so this never double-reports a
// pair.
func debtsFromEngine(creditors map[ledger.ID]map[ledger.ID]*ledger.DebtorRecord, withHistory bool) []*Debt {
	var out []*Debt
	for c, debtors := range creditors {
		for d, rec := range debtors {
			if rec.Owes == 0 {
				continue
			}
			debt := &Debt{
				LenderId: parseParticipantID(c),
				DebtorId: parseParticipantID(d),
				Owes:     rec.Owes,
			}
			if withHistory {
				for _, deb := range rec.Debts {
					for _, h := range deb.History {
						debt.History = append(debt.History, HistoryEntry{
							ExpenseId:         deb.ExpenseID,
							CausedByExpenseId: h.ExpenseID,
							Amount:            h.Amount,
						})
					}
				}
			}
			out = append(out, debt)
		}
	}
	return out
}
