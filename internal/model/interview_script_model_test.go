package model

import (
	"testing"

	"github.com/fadilmartias/interview-engine/internal/interview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestInterviewScriptRoundTrip(t *testing.T) {
	candidate := interview.CandidateInfo{
		Name:           "Ravi",
		Role:           "Backend Engineer",
		Experience:     "3 years",
		InterviewTypes: []string{"technical"},
		Skills:         []string{"Go", "Postgres"},
	}
	script, err := NewInterviewScript(candidate, []interview.Question{
		{Question: "Why Go?", Type: "technical"},
		{Question: "  "},
	})
	require.NoError(t, err)

	got, err := script.Candidate()
	require.NoError(t, err)
	assert.Equal(t, candidate, got)

	qs, err := script.QuestionList()
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Why Go?", qs[0].Question)

	text := script.EmbeddingText()
	assert.Contains(t, text, "Role: Backend Engineer")
	assert.Contains(t, text, "Skills: Go, Postgres")
	assert.Contains(t, text, "- Why Go?")
}

func TestInterviewScriptToleratesEmptyColumns(t *testing.T) {
	script := &InterviewScript{CandidateName: "Ravi", Skills: datatypes.JSON("null")}

	c, err := script.Candidate()
	require.NoError(t, err)
	assert.Equal(t, "Ravi", c.Name)
	assert.Nil(t, c.Skills)

	qs, err := script.QuestionList()
	require.NoError(t, err)
	assert.Empty(t, qs)

	script.Questions = datatypes.JSON(`{"bad":`)
	_, err = script.QuestionList()
	assert.Error(t, err)
}
