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

type addParticipantBody struct {
	Name string `json:"name"`
}

func (s *Server) addParticipant(w http.ResponseWriter, r *http.Request) {
	groupID, err := s.resolveGroupID(r, chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, "Group not found", http.StatusNotFound)
		return
	}

	var body addParticipantBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	resp, err := s.participantService.AddParticipant(r.Context(), &services.AddParticipantRequest{
		Name:    body.Name,
		GroupId: groupID,
	})
	if err != nil {
		s.logger.Error("add participant failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}

type updateParticipantBody struct {
	Name string `json:"name"`
}

func (s *Server) updateParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, err := strconv.Atoi(chi.URLParam(r, "participantId"))
	if err != nil {
		http.Error(w, "Invalid participant ID", http.StatusBadRequest)
		return
	}

	var body updateParticipantBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		http.Error(w, "Name cannot be empty", http.StatusBadRequest)
		return
	}

	resp, err := s.participantService.UpdateParticipant(r.Context(), &services.UpdateParticipantRequest{
		Name:          name,
		ParticipantId: int32(participantID),
	})
	if err != nil {
		s.logger.Error("update participant failed", zap.Int("participant_id", participantID), zap.Error(err))
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}

func (s *Server) deleteParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, err := strconv.Atoi(chi.URLParam(r, "participantId"))
	if err != nil {
		http.Error(w, "Invalid participant ID", http.StatusBadRequest)
		return
	}

	err = s.participantService.DeleteParticipant(r.Context(), &services.DeleteParticipantRequest{
		ParticipantId: int32(participantID),
	})
	if err != nil {
		s.logger.Info("delete participant failed", zap.Int("participant_id", participantID), zap.Error(err))
		if strings.Contains(err.Error(), "cannot delete participant") {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"message": "Participant deleted successfully"})
}
