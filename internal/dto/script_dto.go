package dto

import (
	"encoding/json"
	"time"

	"github.com/fadilmartias/interview-engine/internal/interview"
	"github.com/fadilmartias/interview-engine/internal/model"
	"github.com/google/uuid"
)

type CreateScriptRequest struct {
	CandidateInfo interview.CandidateInfo `json:"candidateInfo"`
	Questions     []interview.Question    `json:"questions"`
	QuestionCount int                     `json:"questionCount"`
}

type ScriptDTO struct {
	ID            uuid.UUID               `json:"id"`
	CandidateInfo interview.CandidateInfo `json:"candidateInfo"`
	Questions     []interview.Question    `json:"questions"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

func NewScriptDTO(s *model.InterviewScript) (ScriptDTO, error) {
	candidate, err := s.Candidate()
	if err != nil {
		return ScriptDTO{}, err
	}
	questions, err := s.QuestionList()
	if err != nil {
		return ScriptDTO{}, err
	}
	return ScriptDTO{
		ID:            s.ID,
		CandidateInfo: candidate,
		Questions:     questions,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}, nil
}

type SessionRecordDTO struct {
	SessionID         string          `json:"session_id"`
	ScriptID          string          `json:"script_id"`
	CandidateName     string          `json:"candidate_name"`
	Phase             string          `json:"phase"`
	TotalQuestions    int             `json:"total_questions"`
	QuestionsAnswered int             `json:"questions_answered"`
	FollowUpsAsked    int             `json:"follow_ups_asked"`
	TotalExchanges    int             `json:"total_exchanges"`
	DurationSeconds   int64           `json:"duration_seconds"`
	SessionData       json.RawMessage `json:"session_data"`
	StartedAt         time.Time       `json:"started_at"`
	EndedAt           time.Time       `json:"ended_at"`
}

func NewSessionRecordDTO(r *model.InterviewSessionRecord) SessionRecordDTO {
	var data json.RawMessage
	if len(r.SessionData) > 0 {
		data = json.RawMessage(r.SessionData)
	}
	return SessionRecordDTO{
		SessionID:         r.SessionID,
		ScriptID:          r.ScriptID,
		CandidateName:     r.CandidateName,
		Phase:             r.Phase,
		TotalQuestions:    r.TotalQuestions,
		QuestionsAnswered: r.QuestionsAnswered,
		FollowUpsAsked:    r.FollowUpsAsked,
		TotalExchanges:    r.TotalExchanges,
		DurationSeconds:   r.DurationSeconds,
		SessionData:       data,
		StartedAt:         r.StartedAt,
		EndedAt:           r.EndedAt,
	}
}

type TurnDTO struct {
	Speaker       string    `json:"speaker"`
	Message       string    `json:"message"`
	Phase         string    `json:"phase"`
	QuestionIndex int       `json:"question_index"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewTurnDTOs(turns []model.ConversationTurn) []TurnDTO {
	out := make([]TurnDTO, 0, len(turns))
	for _, t := range turns {
		out = append(out, TurnDTO{
			Speaker:       t.Speaker,
			Message:       t.Message,
			Phase:         t.Phase,
			QuestionIndex: t.QuestionIndex,
			CreatedAt:     t.CreatedAt,
		})
	}
	return out
}
