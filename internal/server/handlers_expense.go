package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"freesplit/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) getExpensesByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := s.resolveGroupID(r, chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, "Group not found", http.StatusNotFound)
		return
	}

	resp, err := s.expenseService.GetExpensesByGroup(r.Context(), &services.GetExpensesByGroupRequest{GroupId: groupID})
	if err != nil {
		s.logger.Error("get expenses failed", zap.Int32("group_id", groupID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp.Expenses)
}

type createExpenseBody struct {
	Expense struct {
		Name      string `json:"name"`
		Cost      int64  `json:"cost"`
		Emoji     string `json:"emoji"`
		PayerID   int32  `json:"payer_id"`
		SplitType string `json:"split_type"`
	} `json:"expense"`
	Splits []struct {
		ParticipantID int32 `json:"participant_id"`
		SplitAmount   int64 `json:"split_amount"`
	} `json:"splits"`
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	groupID, err := s.resolveGroupID(r, chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, "Group not found", http.StatusNotFound)
		return
	}

	var body createExpenseBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	splits := make([]*services.Split, len(body.Splits))
	for i, sp := range body.Splits {
		splits[i] = &services.Split{
			GroupId:       groupID,
			ParticipantId: sp.ParticipantID,
			SplitAmount:   sp.SplitAmount,
		}
	}

	resp, err := s.expenseService.CreateExpense(r.Context(), &services.CreateExpenseRequest{
		Expense: &services.Expense{
			Name:      body.Expense.Name,
			Cost:      body.Expense.Cost,
			Emoji:     body.Expense.Emoji,
			PayerId:   body.Expense.PayerID,
			SplitType: body.Expense.SplitType,
			GroupId:   groupID,
		},
		Splits: splits,
	})
	if err != nil {
		s.logger.Error("create expense failed", zap.Int32("group_id", groupID), zap.Error(err))
		http.Error(w, "Failed to create expense", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}

type updateExpenseBody struct {
	Name      string `json:"name"`
	Cost      int64  `json:"cost"`
	Emoji     string `json:"emoji"`
	PayerID   int32  `json:"payer_id"`
	SplitType string `json:"split_type"`
	Splits    []struct {
		ParticipantID int32 `json:"participant_id"`
		SplitAmount   int64 `json:"split_amount"`
	} `json:"splits"`
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, err := strconv.Atoi(chi.URLParam(r, "expenseId"))
	if err != nil {
		http.Error(w, "Invalid expense ID", http.StatusBadRequest)
		return
	}

	var body updateExpenseBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	splits := make([]*services.Split, len(body.Splits))
	for i, sp := range body.Splits {
		splits[i] = &services.Split{
			ParticipantId: sp.ParticipantID,
			SplitAmount:   sp.SplitAmount,
		}
	}

	resp, err := s.expenseService.UpdateExpense(r.Context(), &services.UpdateExpenseRequest{
		Expense: &services.Expense{
			Id:        int32(expenseID),
			Name:      body.Name,
			Cost:      body.Cost,
			Emoji:     body.Emoji,
			PayerId:   body.PayerID,
			SplitType: body.SplitType,
		},
		Splits: splits,
	})
	if err != nil {
		s.logger.Error("update expense failed", zap.Int("expense_id", expenseID), zap.Error(err))
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if strings.Contains(err.Error(), "cannot change") {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Failed to update expense", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}

func (s *Server) getExpenseWithSplits(w http.ResponseWriter, r *http.Request) {
	expenseID, err := strconv.Atoi(chi.URLParam(r, "expenseId"))
	if err != nil {
		http.Error(w, "Invalid expense ID", http.StatusBadRequest)
		return
	}

	resp, err := s.expenseService.GetExpenseWithSplits(r.Context(), &services.GetExpenseWithSplitsRequest{ExpenseId: int32(expenseID)})
	if err != nil {
		s.logger.Info("expense not found", zap.Int("expense_id", expenseID), zap.Error(err))
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	writeJSON(w, resp)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, err := strconv.Atoi(chi.URLParam(r, "expenseId"))
	if err != nil {
		http.Error(w, "Invalid expense ID", http.StatusBadRequest)
		return
	}

	if err := s.expenseService.DeleteExpense(r.Context(), &services.DeleteExpenseRequest{ExpenseId: int32(expenseID)}); err != nil {
		s.logger.Error("delete expense failed", zap.Int("expense_id", expenseID), zap.Error(err))
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete expense", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"message": "Expense deleted successfully"})
}
