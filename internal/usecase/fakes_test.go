package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/fadilmartias/interview-engine/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type fakeScriptRepo struct {
	mu         sync.Mutex
	scripts    map[uuid.UUID]*model.InterviewScript
	embeddings map[uuid.UUID]pgvector.Vector
	searched   []pgvector.Vector
	createErr  error
}

func newFakeScriptRepo() *fakeScriptRepo {
	return &fakeScriptRepo{
		scripts:    make(map[uuid.UUID]*model.InterviewScript),
		embeddings: make(map[uuid.UUID]pgvector.Vector),
	}
}

func (r *fakeScriptRepo) add(s *model.InterviewScript) *model.InterviewScript {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.scripts[s.ID] = s
	return s
}

func (r *fakeScriptRepo) CreateScript(_ context.Context, s *model.InterviewScript) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(s)
	return nil
}

func (r *fakeScriptRepo) UpdateEmbedding(_ context.Context, id uuid.UUID, v pgvector.Vector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embeddings[id] = v
	return nil
}

func (r *fakeScriptRepo) FindScriptByID(_ context.Context, id uuid.UUID) (*model.InterviewScript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scripts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeScriptRepo) GetScripts(_ context.Context, offset, limit int) ([]model.InterviewScript, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]model.InterviewScript, 0, len(r.scripts))
	for _, s := range r.scripts {
		all = append(all, *s)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeScriptRepo) SearchScripts(_ context.Context, v pgvector.Vector, topK int) ([]model.InterviewScript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searched = append(r.searched, v)
	var out []model.InterviewScript
	for id := range r.embeddings {
		if len(out) == topK {
			break
		}
		out = append(out, *r.scripts[id])
	}
	return out, nil
}

type fakeTurnRepo struct {
	mu    sync.Mutex
	turns []model.ConversationTurn
	err   error
}

func (r *fakeTurnRepo) CreateTurns(_ context.Context, turns []model.ConversationTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.turns = append(r.turns, turns...)
	return nil
}

func (r *fakeTurnRepo) GetTurnsBySession(_ context.Context, sessionID string) ([]model.ConversationTurn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ConversationTurn
	for _, t := range r.turns {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu      sync.Mutex
	records map[string]*model.InterviewSessionRecord
	err     error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{records: make(map[string]*model.InterviewSessionRecord)}
}

func (r *fakeSessionRepo) SaveSession(_ context.Context, rec *model.InterviewSessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records[rec.SessionID] = rec
	return nil
}

func (r *fakeSessionRepo) FindSessionByID(_ context.Context, id string) (*model.InterviewSessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

// fakeLLM answers "next" to every classification prompt and echoes a fixed
// line otherwise. Setting err makes every call fail.
type fakeLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if strings.Contains(prompt, `"decision"`) {
		return `{"decision":"next"}`, nil
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return "Interviewer line.", nil
}

type fakeEmbedder struct {
	err   error
	texts []string
}

func (f *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

var errBoom = errors.New("boom")
