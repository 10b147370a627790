package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"freesplit/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type createGroupBody struct {
	Name             string   `json:"name"`
	Currency         string   `json:"currency"`
	ParticipantNames []string `json:"participant_names"`
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var body createGroupBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	resp, err := s.groupService.CreateGroup(r.Context(), &services.CreateGroupRequest{
		Name:             body.Name,
		Currency:         body.Currency,
		ParticipantNames: body.ParticipantNames,
	})
	if err != nil {
		s.logger.Error("create group failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		http.Error(w, "url_slug parameter required", http.StatusBadRequest)
		return
	}

	resp, err := s.groupService.GetGroup(r.Context(), &services.GetGroupRequest{UrlSlug: slug})
	if err != nil {
		s.logger.Info("group not found", zap.String("url_slug", slug), zap.Error(err))
		http.Error(w, "Group not found", http.StatusNotFound)
		return
	}

	writeJSON(w, resp)
}

type updateGroupBody struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func (s *Server) updateGroup(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	groupID, err := s.resolveGroupID(r, slug)
	if err != nil {
		http.Error(w, "Group not found", http.StatusNotFound)
		return
	}

	var body updateGroupBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	resp, err := s.groupService.UpdateGroup(r.Context(), &services.UpdateGroupRequest{
		GroupId:  groupID,
		Name:     body.Name,
		Currency: body.Currency,
	})
	if err != nil {
		s.logger.Error("update group failed", zap.Int32("group_id", groupID), zap.Error(err))
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resp)
}
