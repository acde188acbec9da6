package model

import (
	"time"

	"gorm.io/datatypes"
)

// InterviewSessionRecord is the snapshot written when a session ends.
type InterviewSessionRecord struct {
	SessionID         string         `gorm:"type:varchar(64);primaryKey" json:"session_id"`
	ScriptID          string         `gorm:"type:varchar(64);index" json:"script_id"`
	CandidateName     string         `gorm:"type:varchar(255)" json:"candidate_name"`
	Phase             string         `gorm:"type:varchar(20)" json:"phase"`
	TotalQuestions    int            `json:"total_questions"`
	QuestionsAnswered int            `json:"questions_answered"`
	FollowUpsAsked    int            `json:"follow_ups_asked"`
	TotalExchanges    int            `json:"total_exchanges"`
	DurationSeconds   int64          `json:"duration_seconds"`
	SessionData       datatypes.JSON `gorm:"type:jsonb" json:"session_data"`
	StartedAt         time.Time      `json:"started_at"`
	EndedAt           time.Time      `json:"ended_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (r *InterviewSessionRecord) TableName() string {
	return "interview_sessions"
}
