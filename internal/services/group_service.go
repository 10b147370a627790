package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"freesplit/internal/database"
	"freesplit/internal/ledger"

	"gorm.io/gorm"
)

type groupService struct {
	db       *gorm.DB
	registry *EngineRegistry
}

// NewGroupService creates a new instance of the group service with database
// and engine registry dependencies.
func NewGroupService(db *gorm.DB, registry *EngineRegistry) GroupService {
	return &groupService{db: db, registry: registry}
}

// GetGroup retrieves a group by URL slug with all participants and expenses.
func (s *groupService) GetGroup(ctx context.Context, req *GetGroupRequest) (*GetGroupResponse, error) {
	var group database.Group
	if err := s.db.Preload("Participants").Preload("Expenses").Where("url_slug = ?", req.UrlSlug).First(&group).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("group not found")
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	participants := make([]*Participant, len(group.Participants))
	for i, p := range group.Participants {
		participants[i] = ParticipantFromDB(&p)
	}

	return &GetGroupResponse{
		Group:        GroupFromDB(&group),
		Participants: participants,
	}, nil
}

// CreateGroup creates a new group with a unique URL slug, its initial
// participants, and registers a fresh Engine for the group so the first
// expense never has to pay a rehydration cost.
func (s *groupService) CreateGroup(ctx context.Context, req *CreateGroupRequest) (*CreateGroupResponse, error) {
	urlSlug, err := generateURLSlug()
	if err != nil {
		return nil, fmt.Errorf("failed to generate URL slug: %w", err)
	}

	group := database.Group{
		Name:     req.Name,
		Currency: req.Currency,
		URLSlug:  urlSlug,
	}

	if err := s.db.Create(&group).Error; err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	var participants []database.Participant
	for _, name := range req.ParticipantNames {
		participants = append(participants, database.Participant{
			Name:    name,
			GroupID: group.ID,
		})
	}

	if len(participants) > 0 {
		if err := s.db.Create(&participants).Error; err != nil {
			return nil, fmt.Errorf("failed to create participants: %w", err)
		}
	}

	if err := s.registry.withEngine(group.ID, func(l *ledger.Ledger, e *engineEntry) error {
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to register engine for group: %w", err)
	}

	responseParticipants := make([]*Participant, len(participants))
	for i, p := range participants {
		responseParticipants[i] = ParticipantFromDB(&p)
	}

	return &CreateGroupResponse{
		Group:        GroupFromDB(&group),
		Participants: responseParticipants,
	}, nil
}

func (s *groupService) UpdateGroup(ctx context.Context, req *UpdateGroupRequest) (*UpdateGroupResponse, error) {
	var group database.Group
	if err := s.db.First(&group, "id = ?", req.GroupId).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("group not found")
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	group.Name = req.Name
	group.Currency = req.Currency

	if err := s.db.Save(&group).Error; err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return &UpdateGroupResponse{
		Group: GroupFromDB(&group),
	}, nil
}

// generateURLSlug generates a unique 32-character hexadecimal URL slug.
func generateURLSlug() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
