package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/fadilmartias/interview-engine/internal/config"
	"github.com/fadilmartias/interview-engine/internal/interview"
	"github.com/fadilmartias/interview-engine/internal/model"
	"github.com/fadilmartias/interview-engine/internal/response"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxRecommend    = 20
)

var ErrEmptyQuery = errors.New("query is required")

type ScriptRepository interface {
	ScriptFinder
	CreateScript(ctx context.Context, script *model.InterviewScript) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector) error
	GetScripts(ctx context.Context, offset, limit int) ([]model.InterviewScript, int64, error)
	SearchScripts(ctx context.Context, embedding pgvector.Vector, topK int) ([]model.InterviewScript, error)
}

// Embedder turns text into a vector. Nil disables embeddings.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type ScriptUsecase struct {
	repo     ScriptRepository
	llm      interview.Generator
	embedder Embedder
	cfg      *config.InterviewConfig
}

func NewScriptUsecase(repo ScriptRepository, llm interview.Generator, embedder Embedder, cfg *config.InterviewConfig) *ScriptUsecase {
	return &ScriptUsecase{repo: repo, llm: llm, embedder: embedder, cfg: cfg}
}

// Create stores a script. When no questions are supplied they are generated
// from the candidate info.
func (uc *ScriptUsecase) Create(ctx context.Context, candidate interview.CandidateInfo, questions []interview.Question, count int) (*model.InterviewScript, error) {
	questions = cleanQuestions(questions)
	if len(questions) == 0 {
		generated, err := uc.generateQuestions(ctx, candidate, count)
		if err != nil {
			return nil, err
		}
		questions = generated
	}

	script, err := model.NewInterviewScript(candidate, questions)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.CreateScript(ctx, script); err != nil {
		return nil, err
	}

	uc.embed(ctx, script)
	return script, nil
}

func (uc *ScriptUsecase) generateQuestions(ctx context.Context, candidate interview.CandidateInfo, count int) ([]interview.Question, error) {
	if count <= 0 {
		count = uc.cfg.DefaultQuestionCount
	}
	if count > uc.cfg.MaxQuestionCount {
		count = uc.cfg.MaxQuestionCount
	}

	raw, err := uc.llm.Generate(ctx, interview.QuestionGenerationPrompt(candidate, count))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	questions, err := interview.ParseGeneratedQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// embed is best effort; a script without an embedding is simply not recommended.
func (uc *ScriptUsecase) embed(ctx context.Context, script *model.InterviewScript) {
	if uc.embedder == nil {
		return
	}
	vec, err := uc.embedder.GenerateEmbedding(ctx, script.EmbeddingText())
	if err != nil {
		slog.WarnContext(ctx, "script embedding failed", "script_id", script.ID, "error", err)
		return
	}
	v := pgvector.NewVector(vec)
	if err := uc.repo.UpdateEmbedding(ctx, script.ID, v); err != nil {
		slog.WarnContext(ctx, "store script embedding failed", "script_id", script.ID, "error", err)
		return
	}
	script.Embedding = &v
}

func (uc *ScriptUsecase) Get(ctx context.Context, id string) (*model.InterviewScript, error) {
	scriptID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", interview.ErrScriptNotFound, id)
	}
	script, err := uc.repo.FindScriptByID(ctx, scriptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", interview.ErrScriptNotFound, id)
	}
	return script, err
}

func (uc *ScriptUsecase) List(ctx context.Context, page, pageSize int) ([]model.InterviewScript, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	offset := (page - 1) * pageSize

	scripts, total, err := uc.repo.GetScripts(ctx, offset, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return scripts, NewPagination(page, pageSize, total, len(scripts)), nil
}

// Recommend returns the scripts closest to a free-text query.
func (uc *ScriptUsecase) Recommend(ctx context.Context, query string, limit int) ([]model.InterviewScript, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if uc.embedder == nil {
		return nil, errors.New("embeddings are not configured")
	}
	if limit < 1 {
		limit = 5
	}
	if limit > maxRecommend {
		limit = maxRecommend
	}

	vec, err := uc.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}
	return uc.repo.SearchScripts(ctx, pgvector.NewVector(vec), limit)
}

func NewPagination(page, pageSize int, total int64, count int) *response.Pagination {
	totalPages := int64(math.Ceil(float64(total) / float64(pageSize)))
	from, to := 0, 0
	if count > 0 {
		from = (page-1)*pageSize + 1
		to = from + count - 1
	}
	return &response.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
		HasMore:    int64(page) < totalPages,
		From:       from,
		To:         to,
	}
}

func cleanQuestions(questions []interview.Question) []interview.Question {
	out := make([]interview.Question, 0, len(questions))
	for _, q := range questions {
		q.Question = strings.TrimSpace(q.Question)
		if q.Question != "" {
			out = append(out, q)
		}
	}
	return out
}
