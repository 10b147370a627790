package tests

import (
	"context"
	"testing"

	"freesplit/internal/database"
	"freesplit/internal/services"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to test database")
	}
	if err := database.Migrate(db); err != nil {
		panic("Failed to migrate test database")
	}
	return db
}

func seedGroupWithTwoParticipants(t *testing.T, db *gorm.DB) (database.Group, database.Participant, database.Participant) {
	t.Helper()
	group := database.Group{Name: "Test Group", URLSlug: "test-group", Currency: "USD"}
	require.NoError(t, db.Create(&group).Error)

	alice := database.Participant{Name: "Alice", GroupID: group.ID}
	bob := database.Participant{Name: "Bob", GroupID: group.ID}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	return group, alice, bob
}

func TestGetDebts_ReturnsNonZeroPairsAfterExpense(t *testing.T) {
	db := setupTestDB()
	registry := services.NewEngineRegistry(db)
	expenseService := services.NewExpenseService(db, registry)
	debtService := services.NewDebtService(db, registry)
	ctx := context.Background()

	group, alice, bob := seedGroupWithTwoParticipants(t, db)

	_, err := expenseService.CreateExpense(ctx, &services.CreateExpenseRequest{
		Expense: &services.Expense{
			Name: "Dinner", Cost: 10000, PayerId: int32(alice.ID),
			SplitType: "equal", GroupId: int32(group.ID),
		},
		Splits: []*services.Split{
			{GroupId: int32(group.ID), ParticipantId: int32(alice.ID), SplitAmount: 5000},
			{GroupId: int32(group.ID), ParticipantId: int32(bob.ID), SplitAmount: 5000},
		},
	})
	require.NoError(t, err)

	resp, err := debtService.GetDebts(ctx, &services.GetDebtsRequest{GroupId: int32(group.ID)})
	require.NoError(t, err)
	require.Len(t, resp.Debts, 1)
	assert.Equal(t, int32(alice.ID), resp.Debts[0].LenderId)
	assert.Equal(t, int32(bob.ID), resp.Debts[0].DebtorId)
	assert.Equal(t, int64(5000), resp.Debts[0].Owes)
}

func TestGetDebts_NetsMultipleExpensesBetweenSamePair(t *testing.T) {
	db := setupTestDB()
	registry := services.NewEngineRegistry(db)
	expenseService := services.NewExpenseService(db, registry)
	debtService := services.NewDebtService(db, registry)
	ctx := context.Background()

	group, alice, bob := seedGroupWithTwoParticipants(t, db)

	create := func(name string, payerID, participantID uint, cost, split int64) {
		_, err := expenseService.CreateExpense(ctx, &services.CreateExpenseRequest{
			Expense: &services.Expense{Name: name, Cost: cost, PayerId: int32(payerID), SplitType: "amount", GroupId: int32(group.ID)},
			Splits: []*services.Split{
				{GroupId: int32(group.ID), ParticipantId: int32(payerID), SplitAmount: cost - split},
				{GroupId: int32(group.ID), ParticipantId: int32(participantID), SplitAmount: split},
			},
		})
		require.NoError(t, err)
	}

	create("Dinner", alice.ID, bob.ID, 3000, 3000)
	create("Gas", bob.ID, alice.ID, 700, 700)

	resp, err := debtService.GetDebts(ctx, &services.GetDebtsRequest{GroupId: int32(group.ID)})
	require.NoError(t, err)
	require.Len(t, resp.Debts, 1)
	assert.Equal(t, int32(alice.ID), resp.Debts[0].LenderId)
	assert.Equal(t, int32(bob.ID), resp.Debts[0].DebtorId)
	assert.Equal(t, int64(2300), resp.Debts[0].Owes)
}

func TestCreatePayment_NetsAgainstExistingBalance(t *testing.T) {
	db := setupTestDB()
	registry := services.NewEngineRegistry(db)
	expenseService := services.NewExpenseService(db, registry)
	debtService := services.NewDebtService(db, registry)
	ctx := context.Background()

	group, alice, bob := seedGroupWithTwoParticipants(t, db)

	_, err := expenseService.CreateExpense(ctx, &services.CreateExpenseRequest{
		Expense: &services.Expense{Name: "Dinner", Cost: 10000, PayerId: int32(alice.ID), SplitType: "equal", GroupId: int32(group.ID)},
		Splits: []*services.Split{
			{GroupId: int32(group.ID), ParticipantId: int32(alice.ID), SplitAmount: 5000},
			{GroupId: int32(group.ID), ParticipantId: int32(bob.ID), SplitAmount: 5000},
		},
	})
	require.NoError(t, err)

	_, err = debtService.CreatePayment(ctx, &services.CreatePaymentRequest{
		GroupId: int32(group.ID), PayerId: int32(bob.ID), PayeeId: int32(alice.ID), Amount: 2000,
	})
	require.NoError(t, err)

	resp, err := debtService.GetDebts(ctx, &services.GetDebtsRequest{GroupId: int32(group.ID)})
	require.NoError(t, err)
	require.Len(t, resp.Debts, 1)
	assert.Equal(t, int64(3000), resp.Debts[0].Owes)

	payments, err := debtService.GetPayments(ctx, &services.GetPaymentsRequest{GroupId: int32(group.ID)})
	require.NoError(t, err)
	require.Len(t, payments.Payments, 1)
	assert.Equal(t, int64(2000), payments.Payments[0].Amount)
}

func TestCreatePayment_RejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB()
	registry := services.NewEngineRegistry(db)
	debtService := services.NewDebtService(db, registry)
	ctx := context.Background()

	group, alice, bob := seedGroupWithTwoParticipants(t, db)

	_, err := debtService.CreatePayment(ctx, &services.CreatePaymentRequest{
		GroupId: int32(group.ID), PayerId: int32(bob.ID), PayeeId: int32(alice.ID), Amount: 0,
	})
	assert.Error(t, err)
}

func TestUpdateExpense_GrowingSplitIncreasesBalance(t *testing.T) {
	db := setupTestDB()
	registry := services.NewEngineRegistry(db)
	expenseService := services.NewExpenseService(db, registry)
	debtService := services.NewDebtService(db, registry)
	ctx := context.Background()

	group, alice, bob := seedGroupWithTwoParticipants(t, db)

	created, err := expenseService.CreateExpense(ctx, &services.CreateExpenseRequest{
		Expense: &services.Expense{Name: "Dinner", Cost: 10000, PayerId: int32(alice.ID), SplitType: "equal", GroupId: int32(group.ID)},
		Splits: []*services.Split{
			{GroupId: int32(group.ID), ParticipantId: int32(alice.ID), SplitAmount: 5000},
			{GroupId: int32(group.ID), ParticipantId: int32(bob.ID), SplitAmount: 5000},
		},
	})
	require.NoError(t, err)

	_, err = expenseService.UpdateExpense(ctx, &services.UpdateExpenseRequest{
		Expense: &services.Expense{
			Id: created.Expense.Id, Name: "Dinner", Cost: 12000, PayerId: int32(alice.ID), SplitType: "equal",
		},
		Splits: []*services.Split{
			{ParticipantId: int32(alice.ID), SplitAmount: 5000},
			{ParticipantId: int32(bob.ID), SplitAmount: 7000},
		},
	})
	require.NoError(t, err)

	resp, err := debtService.GetDebts(ctx, &services.GetDebtsRequest{GroupId: int32(group.ID)})
	require.NoError(t, err)
	require.Len(t, resp.Debts, 1)
	assert.Equal(t, int32(alice.ID), resp.Debts[0].LenderId)
	assert.Equal(t, int64(7000), resp.Debts[0].Owes)
}

func TestUpdateExpense_ShrinkingSplitDecreasesBalance(t *testing.T) {
	db := setupTestDB()
	registry := services.NewEngineRegistry(db)
	expenseService := services.NewExpenseService(db, registry)
	debtService := services.NewDebtService(db, registry)
	ctx := context.Background()

	group, alice, bob := seedGroupWithTwoParticipants(t, db)

	created, err := expenseService.CreateExpense(ctx, &services.CreateExpenseRequest{
		Expense: &services.Expense{Name: "Dinner", Cost: 10000, PayerId: int32(alice.ID), SplitType: "equal", GroupId: int32(group.ID)},
		Splits: []*services.Split{
			{GroupId: int32(group.ID), ParticipantId: int32(alice.ID), SplitAmount: 5000},
			{GroupId: int32(group.ID), ParticipantId: int32(bob.ID), SplitAmount: 5000},
		},
	})
	require.NoError(t, err)

	_, err = expenseService.UpdateExpense(ctx, &services.UpdateExpenseRequest{
		Expense: &services.Expense{
			Id: created.Expense.Id, Name: "Dinner", Cost: 6000, PayerId: int32(alice.ID), SplitType: "equal",
		},
		Splits: []*services.Split{
			{ParticipantId: int32(alice.ID), SplitAmount: 3000},
			{ParticipantId: int32(bob.ID), SplitAmount: 3000},
		},
	})
	require.NoError(t, err)

	resp, err := debtService.GetDebts(ctx, &services.GetDebtsRequest{GroupId: int32(group.ID)})
	require.NoError(t, err)
	require.Len(t, resp.Debts, 1)
	assert.Equal(t, int32(alice.ID), resp.Debts[0].LenderId)
	assert.Equal(t, int64(3000), resp.Debts[0].Owes)
}

func TestUpdateExpense_RejectsPayerChange(t *testing.T) {
	db := setupTestDB()
	registry := services.NewEngineRegistry(db)
	expenseService := services.NewExpenseService(db, registry)
	ctx := context.Background()

	group, alice, bob := seedGroupWithTwoParticipants(t, db)

	created, err := expenseService.CreateExpense(ctx, &services.CreateExpenseRequest{
		Expense: &services.Expense{Name: "Dinner", Cost: 10000, PayerId: int32(alice.ID), SplitType: "equal", GroupId: int32(group.ID)},
		Splits: []*services.Split{
			{GroupId: int32(group.ID), ParticipantId: int32(alice.ID), SplitAmount: 5000},
			{GroupId: int32(group.ID), ParticipantId: int32(bob.ID), SplitAmount: 5000},
		},
	})
	require.NoError(t, err)

	_, err = expenseService.UpdateExpense(ctx, &services.UpdateExpenseRequest{
		Expense: &services.Expense{
			Id: created.Expense.Id, Name: "Dinner", Cost: 10000, PayerId: int32(bob.ID), SplitType: "equal",
		},
		Splits: []*services.Split{
			{ParticipantId: int32(alice.ID), SplitAmount: 5000},
			{ParticipantId: int32(bob.ID), SplitAmount: 5000},
		},
	})
	assert.Error(t, err)
}

// TestEngineSurvivesRegistryRestart confirms a snapshot round trip (save via
// one registry, load via a fresh one): GetDebts through the fresh registry
// reports the balance booked through the first.
func TestEngineSurvivesRegistryRestart(t *testing.T) {
	db := setupTestDB()
	registryA := services.NewEngineRegistry(db)
	expenseServiceA := services.NewExpenseService(db, registryA)
	ctx := context.Background()

	group, alice, bob := seedGroupWithTwoParticipants(t, db)

	_, err := expenseServiceA.CreateExpense(ctx, &services.CreateExpenseRequest{
		Expense: &services.Expense{Name: "Dinner", Cost: 10000, PayerId: int32(alice.ID), SplitType: "equal", GroupId: int32(group.ID)},
		Splits: []*services.Split{
			{GroupId: int32(group.ID), ParticipantId: int32(alice.ID), SplitAmount: 5000},
			{GroupId: int32(group.ID), ParticipantId: int32(bob.ID), SplitAmount: 5000},
		},
	})
	require.NoError(t, err)

	registryB := services.NewEngineRegistry(db)
	debtServiceB := services.NewDebtService(db, registryB)

	resp, err := debtServiceB.GetDebts(ctx, &services.GetDebtsRequest{GroupId: int32(group.ID)})
	require.NoError(t, err)
	require.Len(t, resp.Debts, 1)
	assert.Equal(t, int64(5000), resp.Debts[0].Owes)
}
