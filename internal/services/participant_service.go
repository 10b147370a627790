package services

import (
	"context"
	"fmt"

	"freesplit/internal/database"
	"freesplit/internal/ledger"

	"gorm.io/gorm"
)

type participantService struct {
	db       *gorm.DB
	registry *EngineRegistry
}

func NewParticipantService(db *gorm.DB, registry *EngineRegistry) ParticipantService {
	return &participantService{db: db, registry: registry}
}

func (s *participantService) AddParticipant(ctx context.Context, req *AddParticipantRequest) (*AddParticipantResponse, error) {
	participant := database.Participant{
		Name:    req.Name,
		GroupID: uint(req.GroupId),
	}

	if err := s.db.Create(&participant).Error; err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	return &AddParticipantResponse{
		Participant: ParticipantFromDB(&participant),
	}, nil
}

func (s *participantService) UpdateParticipant(ctx context.Context, req *UpdateParticipantRequest) (*UpdateParticipantResponse, error) {
	var participant database.Participant
	if err := s.db.First(&participant, req.ParticipantId).Error; err != nil {
		return nil, fmt.Errorf("participant not found: %w", err)
	}

	participant.Name = req.Name
	if err := s.db.Save(&participant).Error; err != nil {
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}

	return &UpdateParticipantResponse{
		Participant: ParticipantFromDB(&participant),
	}, nil
}

// DeleteParticipant removes a participant, refusing when they are still
// referenced by an expense (as payer or split) or carry a non-zero balance
// on the group's engine. The engine has no operation for reversing a past
// add(), so anyone with history must be settled up first.
func (s *participantService) DeleteParticipant(ctx context.Context, req *DeleteParticipantRequest) error {
	var participant database.Participant
	if err := s.db.First(&participant, req.ParticipantId).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("participant not found")
		}
		return fmt.Errorf("failed to find participant: %w", err)
	}

	var expenseCount int64
	if err := s.db.Model(&database.Expense{}).Where("payer_id = ?", req.ParticipantId).Count(&expenseCount).Error; err != nil {
		return fmt.Errorf("failed to check participant expenses: %w", err)
	}
	if expenseCount > 0 {
		return fmt.Errorf("cannot delete participant: they have %d expenses as payer", expenseCount)
	}

	var splitCount int64
	if err := s.db.Model(&database.Split{}).Where("participant_id = ?", req.ParticipantId).Count(&splitCount).Error; err != nil {
		return fmt.Errorf("failed to check participant splits: %w", err)
	}
	if splitCount > 0 {
		return fmt.Errorf("cannot delete participant: they are involved in %d expense splits", splitCount)
	}

	id := participantID(participant.ID)
	var hasBalance bool
	if err := s.registry.withReadOnlyEngine(participant.GroupID, func(l *ledger.Ledger) error {
		for _, rec := range l.GetCreditors()[id] {
			if rec.Owes != 0 {
				hasBalance = true
				return nil
			}
		}
		for _, debtors := range l.GetCreditors() {
			if rec, ok := debtors[id]; ok && rec.Owes != 0 {
				hasBalance = true
				return nil
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to check participant balance: %w", err)
	}
	if hasBalance {
		return fmt.Errorf("cannot delete participant: they have an outstanding balance, settle up first")
	}

	if err := s.db.Delete(&participant).Error; err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return nil
}
