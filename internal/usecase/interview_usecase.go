package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fadilmartias/interview-engine/internal/config"
	"github.com/fadilmartias/interview-engine/internal/interview"
	"github.com/fadilmartias/interview-engine/internal/metrics"
	"github.com/fadilmartias/interview-engine/internal/model"
	"github.com/fadilmartias/interview-engine/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const turnLogTimeout = 5 * time.Second

type ScriptFinder interface {
	FindScriptByID(ctx context.Context, id uuid.UUID) (*model.InterviewScript, error)
}

type TurnRepository interface {
	CreateTurns(ctx context.Context, turns []model.ConversationTurn) error
	GetTurnsBySession(ctx context.Context, sessionID string) ([]model.ConversationTurn, error)
}

type SessionRepository interface {
	SaveSession(ctx context.Context, rec *model.InterviewSessionRecord) error
	FindSessionByID(ctx context.Context, sessionID string) (*model.InterviewSessionRecord, error)
}

type InterviewUsecase struct {
	scripts      ScriptFinder
	turns        TurnRepository
	sessions     SessionRepository
	store        store.Store
	controller   *interview.Controller
	metrics      *metrics.Metrics
	maxFollowUps int
	now          func() time.Time
}

func NewInterviewUsecase(
	scripts ScriptFinder,
	turns TurnRepository,
	sessions SessionRepository,
	st store.Store,
	llm interview.Generator,
	cfg *config.InterviewConfig,
	m *metrics.Metrics,
) *InterviewUsecase {
	return &InterviewUsecase{
		scripts:  scripts,
		turns:    turns,
		sessions: sessions,
		store:    st,
		controller: interview.NewController(llm, interview.Persona{
			InterviewerName: cfg.InterviewerName,
			CompanyName:     cfg.CompanyName,
		}),
		metrics:      m,
		maxFollowUps: cfg.MaxFollowUps,
		now:          time.Now,
	}
}

// Start creates a session from a stored script and greets the candidate.
// An empty sessionID gets a generated one.
func (uc *InterviewUsecase) Start(ctx context.Context, scriptID, sessionID string) (*interview.Session, interview.Reply, error) {
	script, err := uc.findScript(ctx, scriptID)
	if err != nil {
		return nil, interview.Reply{}, err
	}
	candidate, err := script.Candidate()
	if err != nil {
		return nil, interview.Reply{}, err
	}
	questions, err := script.QuestionList()
	if err != nil {
		return nil, interview.Reply{}, err
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	unlock, err := uc.store.Lock(ctx, sessionID)
	if err != nil {
		return nil, interview.Reply{}, err
	}
	defer unlock()

	if _, err := uc.store.Get(ctx, sessionID); err == nil {
		return nil, interview.Reply{}, fmt.Errorf("%w: %s", interview.ErrSessionExists, sessionID)
	} else if !errors.Is(err, interview.ErrSessionNotFound) {
		return nil, interview.Reply{}, err
	}

	s, err := interview.NewSession(sessionID, script.ID.String(), candidate, questions, uc.maxFollowUps, uc.now())
	if err != nil {
		return nil, interview.Reply{}, err
	}
	reply, err := uc.controller.Start(ctx, s)
	if err != nil {
		return nil, interview.Reply{}, err
	}
	if err := uc.store.Create(ctx, s); err != nil {
		return nil, interview.Reply{}, err
	}

	uc.metrics.IncrementSessionsStarted()
	slog.InfoContext(ctx, "interview started", "session_id", sessionID, "script_id", s.ScriptID, "questions", s.TotalQuestions())
	uc.logTurns(ctx, s, 0)
	return s, reply, nil
}

// Chat feeds one candidate message through the phase controller. The stored
// session only changes when the whole step succeeds.
func (uc *InterviewUsecase) Chat(ctx context.Context, sessionID, userMessage string) (*interview.Session, interview.Reply, error) {
	unlock, err := uc.store.Lock(ctx, sessionID)
	if err != nil {
		return nil, interview.Reply{}, err
	}
	defer unlock()

	s, err := uc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, interview.Reply{}, err
	}
	before := len(s.ConversationHistory)

	reply, err := uc.controller.Respond(ctx, s, userMessage)
	if err != nil {
		return nil, interview.Reply{}, err
	}
	if err := uc.store.Save(ctx, s); err != nil {
		return nil, interview.Reply{}, err
	}

	uc.metrics.IncrementChatTurns(reply.FollowUp)
	uc.logTurns(ctx, s, before)
	return s, reply, nil
}

// End archives the session and removes it from the live store. If the
// archive write fails the live session is kept so End can be retried.
func (uc *InterviewUsecase) End(ctx context.Context, sessionID string) (*model.InterviewSessionRecord, error) {
	unlock, err := uc.store.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	s, err := uc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rec, err := uc.snapshot(s)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.SaveSession(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist session %s: %w", sessionID, err)
	}
	if err := uc.store.Delete(ctx, sessionID); err != nil {
		return nil, err
	}

	uc.metrics.IncrementSessionsEnded()
	slog.InfoContext(ctx, "interview ended", "session_id", sessionID, "phase", rec.Phase, "duration_seconds", rec.DurationSeconds)
	return rec, nil
}

func (uc *InterviewUsecase) GetSession(ctx context.Context, sessionID string) (*interview.Session, error) {
	return uc.store.Get(ctx, sessionID)
}

func (uc *InterviewUsecase) GetSessionRecord(ctx context.Context, sessionID string) (*model.InterviewSessionRecord, error) {
	rec, err := uc.sessions.FindSessionByID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", interview.ErrSessionNotFound, sessionID)
	}
	return rec, err
}

// GetTurns returns the logged turns of a session. An empty log is only
// reported as not found when the session is neither live nor snapshotted.
func (uc *InterviewUsecase) GetTurns(ctx context.Context, sessionID string) ([]model.ConversationTurn, error) {
	turns, err := uc.turns.GetTurnsBySession(ctx, sessionID)
	if err != nil || len(turns) > 0 {
		return turns, err
	}

	_, err = uc.store.Get(ctx, sessionID)
	if err == nil {
		return turns, nil
	}
	if !errors.Is(err, interview.ErrSessionNotFound) {
		return nil, err
	}
	if _, err := uc.GetSessionRecord(ctx, sessionID); err != nil {
		return nil, err
	}
	return turns, nil
}

func (uc *InterviewUsecase) findScript(ctx context.Context, scriptID string) (*model.InterviewScript, error) {
	id, err := uuid.Parse(scriptID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", interview.ErrScriptNotFound, scriptID)
	}
	script, err := uc.scripts.FindScriptByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", interview.ErrScriptNotFound, scriptID)
	}
	if err != nil {
		return nil, err
	}
	return script, nil
}

func (uc *InterviewUsecase) snapshot(s *interview.Session) (*model.InterviewSessionRecord, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	ended := uc.now()
	return &model.InterviewSessionRecord{
		SessionID:         s.SessionID,
		ScriptID:          s.ScriptID,
		CandidateName:     s.CandidateInfo.Name,
		Phase:             string(s.InterviewPhase),
		TotalQuestions:    s.TotalQuestions(),
		QuestionsAnswered: s.CurrentQuestionIndex,
		FollowUpsAsked:    s.FollowUpsTotal(),
		TotalExchanges:    s.CandidateTurns(),
		DurationSeconds:   int64(ended.Sub(s.StartTime).Seconds()),
		SessionData:       datatypes.JSON(data),
		StartedAt:         s.StartTime,
		EndedAt:           ended,
	}, nil
}

// logTurns writes history[from:] to the turn log. Failures are logged and
// counted, never returned.
func (uc *InterviewUsecase) logTurns(ctx context.Context, s *interview.Session, from int) {
	if from >= len(s.ConversationHistory) {
		return
	}
	turns := make([]model.ConversationTurn, 0, len(s.ConversationHistory)-from)
	for _, t := range s.ConversationHistory[from:] {
		turns = append(turns, model.ConversationTurn{
			SessionID:     s.SessionID,
			ScriptID:      s.ScriptID,
			Speaker:       string(t.Speaker),
			Message:       t.Message,
			Phase:         string(t.Phase),
			QuestionIndex: t.QuestionIndex,
			CreatedAt:     t.Timestamp,
		})
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), turnLogTimeout)
	defer cancel()
	if err := uc.turns.CreateTurns(writeCtx, turns); err != nil {
		uc.metrics.IncrementDroppedWrites()
		slog.WarnContext(ctx, "turn log write failed", "session_id", s.SessionID, "turns", len(turns), "error", err)
	}
}
