package repository

import (
	"context"

	"github.com/fadilmartias/interview-engine/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type InterviewScriptRepository struct {
	db *gorm.DB
}

func NewInterviewScriptRepository(db *gorm.DB) *InterviewScriptRepository {
	return &InterviewScriptRepository{db}
}

func (r *InterviewScriptRepository) CreateScript(ctx context.Context, script *model.InterviewScript) error {
	return r.db.WithContext(ctx).Create(script).Error
}

func (r *InterviewScriptRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector) error {
	return r.db.WithContext(ctx).
		Model(&model.InterviewScript{}).
		Where("id = ?", id).
		Update("embedding", embedding).Error
}

func (r *InterviewScriptRepository) FindScriptByID(ctx context.Context, id uuid.UUID) (*model.InterviewScript, error) {
	var s model.InterviewScript
	err := r.db.WithContext(ctx).Omit("embedding").First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetScripts returns one page of scripts, newest first, plus the total count.
func (r *InterviewScriptRepository) GetScripts(ctx context.Context, offset, limit int) ([]model.InterviewScript, int64, error) {
	var (
		scripts []model.InterviewScript
		total   int64
	)
	db := r.db.WithContext(ctx).Model(&model.InterviewScript{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Omit("embedding").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&scripts).Error
	return scripts, total, err
}

// SearchScripts orders embedded scripts by L2 distance to the query vector.
func (r *InterviewScriptRepository) SearchScripts(ctx context.Context, embedding pgvector.Vector, topK int) ([]model.InterviewScript, error) {
	var scripts []model.InterviewScript

	err := r.db.WithContext(ctx).Raw(`
        SELECT id, candidate_name, role, experience, interview_types, skills, questions, created_at, updated_at
        FROM interview_scripts
        WHERE embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, topK).Scan(&scripts).Error

	return scripts, err
}
