package repository

import (
	"context"

	"github.com/fadilmartias/interview-engine/internal/model"
	"gorm.io/gorm"
)

type ConversationTurnRepository struct {
	db *gorm.DB
}

func NewConversationTurnRepository(db *gorm.DB) *ConversationTurnRepository {
	return &ConversationTurnRepository{db}
}

func (r *ConversationTurnRepository) CreateTurns(ctx context.Context, turns []model.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&turns).Error
}

func (r *ConversationTurnRepository) GetTurnsBySession(ctx context.Context, sessionID string) ([]model.ConversationTurn, error) {
	var turns []model.ConversationTurn
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&turns).Error
	return turns, err
}
