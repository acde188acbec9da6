package interview

import (
	"math"
	"time"
)

type Speaker string

const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerCandidate   Speaker = "candidate"
)

type CandidateInfo struct {
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Experience     string   `json:"experience"`
	InterviewTypes []string `json:"interviewTypes"`
	Skills         []string `json:"skills"`
}

type Question struct {
	Question string `json:"question"`
	Type     string `json:"type,omitempty"`
}

type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Phase     Phase     `json:"phase"`

	// QuestionIndex is the script position when the turn was spoken.
	QuestionIndex int `json:"questionIndex"`
}

// Session is the mutable per-candidate conversation record keyed by SessionID.
type Session struct {
	ScriptID             string        `json:"scriptId"`
	SessionID            string        `json:"sessionId"`
	CandidateInfo        CandidateInfo `json:"candidateInfo"`
	Questions            []Question    `json:"questions"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex"`
	ConversationHistory  []Turn        `json:"conversationHistory"`
	InterviewPhase       Phase         `json:"interviewPhase"`
	AskedFollowUps       int           `json:"askedFollowUps"`
	MaxFollowUps         int           `json:"maxFollowUps"`
	StartTime            time.Time     `json:"startTime"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

func NewSession(sessionID, scriptID string, candidate CandidateInfo, questions []Question, maxFollowUps int, now time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if maxFollowUps < 0 {
		maxFollowUps = 0
	}
	return &Session{
		ScriptID:            scriptID,
		SessionID:           sessionID,
		CandidateInfo:       candidate,
		Questions:           append([]Question(nil), questions...),
		ConversationHistory: []Turn{},
		InterviewPhase:      PhaseGreeting,
		MaxFollowUps:        maxFollowUps,
		StartTime:           now,
		UpdatedAt:           now,
	}, nil
}

// Clone returns a deep copy so a transition can be attempted without
// touching the stored session.
func (s *Session) Clone() *Session {
	c := *s
	c.Questions = append([]Question(nil), s.Questions...)
	c.ConversationHistory = append([]Turn(nil), s.ConversationHistory...)
	c.CandidateInfo.InterviewTypes = append([]string(nil), s.CandidateInfo.InterviewTypes...)
	c.CandidateInfo.Skills = append([]string(nil), s.CandidateInfo.Skills...)
	return &c
}

func (s *Session) TotalQuestions() int {
	return len(s.Questions)
}

// CurrentQuestion returns the scripted question under discussion, or nil once
// every question has been covered.
func (s *Session) CurrentQuestion() *Question {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentQuestionIndex]
}

// QuestionNumber is the 1-based position shown to clients, capped at the total.
func (s *Session) QuestionNumber() int {
	if s.InterviewPhase == PhaseGreeting {
		return 0
	}
	n := s.CurrentQuestionIndex + 1
	if n > len(s.Questions) {
		n = len(s.Questions)
	}
	return n
}

func (s *Session) Progress() int {
	if len(s.Questions) == 0 {
		return 0
	}
	return int(math.Round(float64(s.CurrentQuestionIndex) / float64(len(s.Questions)) * 100))
}

func (s *Session) Completed() bool {
	return s.InterviewPhase.Terminal()
}

// LastCandidateAnswer returns the most recent candidate message.
func (s *Session) LastCandidateAnswer() string {
	for i := len(s.ConversationHistory) - 1; i >= 0; i-- {
		if s.ConversationHistory[i].Speaker == SpeakerCandidate {
			return s.ConversationHistory[i].Message
		}
	}
	return ""
}

func (s *Session) appendTurn(speaker Speaker, message string, now time.Time) {
	s.ConversationHistory = append(s.ConversationHistory, Turn{
		Speaker:       speaker,
		Message:       message,
		Timestamp:     now,
		Phase:         s.InterviewPhase,
		QuestionIndex: s.CurrentQuestionIndex,
	})
	s.UpdatedAt = now
}

func (s *Session) transition(to Phase) error {
	if err := checkTransition(s.InterviewPhase, to); err != nil {
		return err
	}
	s.InterviewPhase = to
	return nil
}

// advance moves to the next scripted question. The index stops at len(Questions).
func (s *Session) advance() {
	if s.CurrentQuestionIndex < len(s.Questions) {
		s.CurrentQuestionIndex++
	}
	s.AskedFollowUps = 0
}

func (s *Session) canFollowUp() bool {
	return s.AskedFollowUps < s.MaxFollowUps
}

// CandidateTurns counts the messages the candidate has sent.
func (s *Session) CandidateTurns() int {
	n := 0
	for _, t := range s.ConversationHistory {
		if t.Speaker == SpeakerCandidate {
			n++
		}
	}
	return n
}

// FollowUpsTotal counts follow-up questions across the whole session.
func (s *Session) FollowUpsTotal() int {
	n := 0
	for _, t := range s.ConversationHistory {
		if t.Speaker == SpeakerInterviewer && t.Phase == PhaseDeepDive {
			n++
		}
	}
	return n
}
