package server

import (
	"encoding/json"
	"net/http"

	"freesplit/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) getDebts(w http.ResponseWriter, r *http.Request) {
	groupID, err := s.resolveGroupID(r, chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, "Group not found", http.StatusNotFound)
		return
	}

	resp, err := s.debtService.GetDebts(r.Context(), &services.GetDebtsRequest{GroupId: groupID})
	if err != nil {
		s.logger.Error("get debts failed", zap.Int32("group_id", groupID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp.Debts)
}

func (s *Server) getLedgerText(w http.ResponseWriter, r *http.Request) {
	groupID, err := s.resolveGroupID(r, chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, "Group not found", http.StatusNotFound)
		return
	}

	resp, err := s.debtService.GetLedgerText(r.Context(), &services.GetLedgerTextRequest{GroupId: groupID})
	if err != nil {
		s.logger.Error("get ledger text failed", zap.Int32("group_id", groupID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}

func (s *Server) getPayments(w http.ResponseWriter, r *http.Request) {
	groupID, err := s.resolveGroupID(r, chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, "Group not found", http.StatusNotFound)
		return
	}

	resp, err := s.debtService.GetPayments(r.Context(), &services.GetPaymentsRequest{GroupId: groupID})
	if err != nil {
		s.logger.Error("get payments failed", zap.Int32("group_id", groupID), zap.Error(err))
		http.Error(w, "Failed to get payments", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp.Payments)
}

type createPaymentBody struct {
	PayerID int32 `json:"payer_id"`
	PayeeID int32 `json:"payee_id"`
	Amount  int64 `json:"amount"`
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	groupID, err := s.resolveGroupID(r, chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, "Group not found", http.StatusNotFound)
		return
	}

	var body createPaymentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if body.Amount <= 0 {
		http.Error(w, "Amount must be positive", http.StatusBadRequest)
		return
	}

	resp, err := s.debtService.CreatePayment(r.Context(), &services.CreatePaymentRequest{
		GroupId: groupID,
		PayerId: body.PayerID,
		PayeeId: body.PayeeID,
		Amount:  body.Amount,
	})
	if err != nil {
		s.logger.Error("create payment failed", zap.Int32("group_id", groupID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}
