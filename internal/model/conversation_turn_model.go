package model

import "time"

// ConversationTurn is one logged utterance of a live interview.
type ConversationTurn struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID     string    `gorm:"type:varchar(64);index;not null" json:"session_id"`
	ScriptID      string    `gorm:"type:varchar(64);index" json:"script_id"`
	Speaker       string    `gorm:"type:varchar(20);not null" json:"speaker"`
	Message       string    `gorm:"type:text" json:"message"`
	Phase         string    `gorm:"type:varchar(20)" json:"phase"`
	QuestionIndex int       `json:"question_index"`
	CreatedAt     time.Time `json:"created_at"`
}

func (t *ConversationTurn) TableName() string {
	return "interview_conversation_logs"
}
