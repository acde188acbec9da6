package interview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionRequiresQuestions(t *testing.T) {
	_, err := NewSession("s", "script", CandidateInfo{}, nil, 2, time.Now())
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestNewSessionClampsNegativeFollowUps(t *testing.T) {
	s, err := NewSession("s", "script", CandidateInfo{}, []Question{{Question: "q"}}, -3, time.Now())
	require.NoError(t, err)
	assert.Zero(t, s.MaxFollowUps)
	assert.Equal(t, PhaseGreeting, s.InterviewPhase)
}

func TestCloneIsIndependent(t *testing.T) {
	s, err := NewSession("s", "script", CandidateInfo{Skills: []string{"Go"}}, []Question{{Question: "q1"}}, 1, time.Now())
	require.NoError(t, err)
	s.appendTurn(SpeakerInterviewer, "hello", time.Now())

	c := s.Clone()
	c.appendTurn(SpeakerCandidate, "hi", time.Now())
	c.CandidateInfo.Skills[0] = "Rust"
	c.Questions[0].Question = "changed"

	assert.Len(t, s.ConversationHistory, 1)
	assert.Equal(t, "Go", s.CandidateInfo.Skills[0])
	assert.Equal(t, "q1", s.Questions[0].Question)
}

func TestProgressRounds(t *testing.T) {
	s, err := NewSession("s", "script", CandidateInfo{}, []Question{{Question: "a"}, {Question: "b"}, {Question: "c"}}, 1, time.Now())
	require.NoError(t, err)

	s.CurrentQuestionIndex = 1
	assert.Equal(t, 33, s.Progress())
	s.CurrentQuestionIndex = 2
	assert.Equal(t, 67, s.Progress())
}

func TestAdvanceStopsAtQuestionCount(t *testing.T) {
	s, err := NewSession("s", "script", CandidateInfo{}, []Question{{Question: "a"}}, 1, time.Now())
	require.NoError(t, err)
	s.AskedFollowUps = 1

	s.advance()
	s.advance()
	assert.Equal(t, 1, s.CurrentQuestionIndex)
	assert.Zero(t, s.AskedFollowUps)
	assert.Nil(t, s.CurrentQuestion())
}

func TestLastCandidateAnswer(t *testing.T) {
	s, err := NewSession("s", "script", CandidateInfo{}, []Question{{Question: "a"}}, 1, time.Now())
	require.NoError(t, err)
	assert.Empty(t, s.LastCandidateAnswer())

	s.appendTurn(SpeakerCandidate, "first", time.Now())
	s.appendTurn(SpeakerInterviewer, "ok", time.Now())
	s.appendTurn(SpeakerCandidate, "second", time.Now())
	s.appendTurn(SpeakerInterviewer, "thanks", time.Now())
	assert.Equal(t, "second", s.LastCandidateAnswer())
}
