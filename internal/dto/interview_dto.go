package dto

import (
	"time"

	"github.com/fadilmartias/interview-engine/internal/interview"
)

const (
	ActionStart = "start"
	ActionChat  = "chat"
	ActionEnd   = "end"
)

type InterviewRequest struct {
	ScriptID    string `json:"scriptId"`
	Action      string `json:"action"`
	UserMessage string `json:"userMessage"`
	SessionID   string `json:"sessionId"`
}

// InterviewResponse is returned by start and chat.
type InterviewResponse struct {
	Success         bool            `json:"success"`
	SessionID       string          `json:"sessionId"`
	Message         string          `json:"message"`
	Phase           interview.Phase `json:"phase"`
	Progress        int             `json:"progress"`
	Completed       bool            `json:"completed"`
	CurrentQuestion int             `json:"currentQuestion"`
	TotalQuestions  int             `json:"totalQuestions"`
	FollowUpsAsked  int             `json:"followUpsAsked"`
	FollowUp        bool            `json:"followUp"`
}

type EndSummary struct {
	DurationSeconds   int64           `json:"durationSeconds"`
	TotalExchanges    int             `json:"totalExchanges"`
	QuestionsAnswered int             `json:"questionsAnswered"`
	TotalQuestions    int             `json:"totalQuestions"`
	FollowUpsAsked    int             `json:"followUpsAsked"`
	Phase             interview.Phase `json:"phase"`
}

type EndResponse struct {
	Success   bool       `json:"success"`
	SessionID string     `json:"sessionId"`
	Message   string     `json:"message"`
	Summary   EndSummary `json:"summary"`
}

// SessionStateDTO is the live view of a session.
type SessionStateDTO struct {
	SessionID           string                  `json:"sessionId"`
	ScriptID            string                  `json:"scriptId"`
	CandidateInfo       interview.CandidateInfo `json:"candidateInfo"`
	Phase               interview.Phase         `json:"phase"`
	Progress            int                     `json:"progress"`
	Completed           bool                    `json:"completed"`
	CurrentQuestion     int                     `json:"currentQuestion"`
	TotalQuestions      int                     `json:"totalQuestions"`
	FollowUpsAsked      int                     `json:"followUpsAsked"`
	MaxFollowUps        int                     `json:"maxFollowUps"`
	ConversationHistory []interview.Turn        `json:"conversationHistory"`
	StartTime           time.Time               `json:"startTime"`
	UpdatedAt           time.Time               `json:"updatedAt"`
}

func NewInterviewResponse(s *interview.Session, r interview.Reply) InterviewResponse {
	return InterviewResponse{
		Success:         true,
		SessionID:       s.SessionID,
		Message:         r.Message,
		Phase:           s.InterviewPhase,
		Progress:        s.Progress(),
		Completed:       s.Completed(),
		CurrentQuestion: s.QuestionNumber(),
		TotalQuestions:  s.TotalQuestions(),
		FollowUpsAsked:  s.AskedFollowUps,
		FollowUp:        r.FollowUp,
	}
}

func NewSessionStateDTO(s *interview.Session) SessionStateDTO {
	return SessionStateDTO{
		SessionID:           s.SessionID,
		ScriptID:            s.ScriptID,
		CandidateInfo:       s.CandidateInfo,
		Phase:               s.InterviewPhase,
		Progress:            s.Progress(),
		Completed:           s.Completed(),
		CurrentQuestion:     s.QuestionNumber(),
		TotalQuestions:      s.TotalQuestions(),
		FollowUpsAsked:      s.AskedFollowUps,
		MaxFollowUps:        s.MaxFollowUps,
		ConversationHistory: s.ConversationHistory,
		StartTime:           s.StartTime,
		UpdatedAt:           s.UpdatedAt,
	}
}
