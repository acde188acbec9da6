package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/interview-engine/internal/interview"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type InterviewScript struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CandidateName  string           `gorm:"type:varchar(255)" json:"candidate_name"`
	Role           string           `gorm:"type:varchar(255)" json:"role"`
	Experience     string           `gorm:"type:text" json:"experience"`
	InterviewTypes datatypes.JSON   `gorm:"type:jsonb" json:"interview_types"`
	Skills         datatypes.JSON   `gorm:"type:jsonb" json:"skills"`
	Questions      datatypes.JSON   `gorm:"type:jsonb;not null" json:"questions"`
	Embedding      *pgvector.Vector `gorm:"type:vector(3072)" json:"-"` // nil until embedded
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (s *InterviewScript) TableName() string {
	return "interview_scripts"
}

func NewInterviewScript(candidate interview.CandidateInfo, questions []interview.Question) (*InterviewScript, error) {
	types, err := json.Marshal(nonNil(candidate.InterviewTypes))
	if err != nil {
		return nil, err
	}
	skills, err := json.Marshal(nonNil(candidate.Skills))
	if err != nil {
		return nil, err
	}
	qs, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	return &InterviewScript{
		CandidateName:  candidate.Name,
		Role:           candidate.Role,
		Experience:     candidate.Experience,
		InterviewTypes: datatypes.JSON(types),
		Skills:         datatypes.JSON(skills),
		Questions:      datatypes.JSON(qs),
	}, nil
}

func (s *InterviewScript) Candidate() (interview.CandidateInfo, error) {
	c := interview.CandidateInfo{
		Name:       s.CandidateName,
		Role:       s.Role,
		Experience: s.Experience,
	}
	if err := unmarshalOptional(s.InterviewTypes, &c.InterviewTypes); err != nil {
		return c, fmt.Errorf("decode interview_types: %w", err)
	}
	if err := unmarshalOptional(s.Skills, &c.Skills); err != nil {
		return c, fmt.Errorf("decode skills: %w", err)
	}
	return c, nil
}

func (s *InterviewScript) QuestionList() ([]interview.Question, error) {
	var qs []interview.Question
	if err := unmarshalOptional(s.Questions, &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	out := qs[:0]
	for _, q := range qs {
		if strings.TrimSpace(q.Question) != "" {
			out = append(out, q)
		}
	}
	return out, nil
}

// EmbeddingText is what gets embedded for script recommendation.
func (s *InterviewScript) EmbeddingText() string {
	c, _ := s.Candidate()
	qs, _ := s.QuestionList()
	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\nExperience: %s\n", c.Role, c.Experience)
	if len(c.InterviewTypes) > 0 {
		fmt.Fprintf(&b, "Interview types: %s\n", strings.Join(c.InterviewTypes, ", "))
	}
	if len(c.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(c.Skills, ", "))
	}
	for _, q := range qs {
		fmt.Fprintf(&b, "- %s\n", q.Question)
	}
	return b.String()
}

func unmarshalOptional(raw datatypes.JSON, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
