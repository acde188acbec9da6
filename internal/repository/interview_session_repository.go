package repository

import (
	"context"

	"github.com/fadilmartias/interview-engine/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterviewSessionRepository struct {
	db *gorm.DB
}

func NewInterviewSessionRepository(db *gorm.DB) *InterviewSessionRepository {
	return &InterviewSessionRepository{db}
}

// SaveSession upserts on session_id so a retried end is idempotent.
func (r *InterviewSessionRepository) SaveSession(ctx context.Context, rec *model.InterviewSessionRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			UpdateAll: true,
		}).
		Create(rec).Error
}

func (r *InterviewSessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*model.InterviewSessionRecord, error) {
	var rec model.InterviewSessionRecord
	err := r.db.WithContext(ctx).First(&rec, "session_id = ?", sessionID).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
