package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const closingAcknowledgement = "This interview has already wrapped up. Thank you for your time! You can end the session to see your summary."

var errEmptyReply = errors.New("model returned an empty reply")

// Generator produces a single text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Reply struct {
	Message   string
	Phase     Phase
	FollowUp  bool
	Completed bool
}

// Controller drives the phase state machine. It mutates the session it is
// given, so callers pass a clone and keep it only when the step succeeds.
type Controller struct {
	llm     Generator
	persona Persona
	clock   func() time.Time
}

func NewController(llm Generator, persona Persona) *Controller {
	return &Controller{
		llm:     llm,
		persona: persona,
		clock:   time.Now,
	}
}

// Start produces the greeting for a freshly created session.
func (c *Controller) Start(ctx context.Context, s *Session) (Reply, error) {
	if s.InterviewPhase != PhaseGreeting || len(s.ConversationHistory) > 0 {
		return Reply{}, fmt.Errorf("%w: session %s already started", ErrInvalidTransition, s.SessionID)
	}
	msg, err := c.generate(ctx, greetingPrompt(c.persona, s))
	if err != nil {
		return Reply{}, fmt.Errorf("generate greeting: %w", err)
	}
	s.appendTurn(SpeakerInterviewer, msg, c.clock())
	return Reply{Message: msg, Phase: s.InterviewPhase}, nil
}

// Respond records the candidate message and produces the interviewer's next utterance.
func (c *Controller) Respond(ctx context.Context, s *Session, userMessage string) (Reply, error) {
	msg := strings.TrimSpace(userMessage)
	if msg == "" {
		return Reply{}, ErrEmptyMessage
	}
	if !s.InterviewPhase.Valid() {
		return Reply{}, fmt.Errorf("%w: unknown phase %q", ErrInvalidTransition, s.InterviewPhase)
	}

	s.appendTurn(SpeakerCandidate, msg, c.clock())

	var (
		reply Reply
		err   error
	)
	switch s.InterviewPhase {
	case PhaseGreeting:
		reply, err = c.handleGreeting(ctx, s)
	case PhaseQuestioning:
		reply, err = c.handleQuestioning(ctx, s)
	case PhaseDeepDive:
		// one exchange only, then back to the questioning rules
		if err = s.transition(PhaseQuestioning); err == nil {
			reply, err = c.handleQuestioning(ctx, s)
		}
	case PhaseClosing:
		reply = Reply{Message: closingAcknowledgement}
	}
	if err != nil {
		return Reply{}, err
	}

	s.appendTurn(SpeakerInterviewer, reply.Message, c.clock())
	reply.Phase = s.InterviewPhase
	reply.Completed = s.Completed()
	return reply, nil
}

func (c *Controller) handleGreeting(ctx context.Context, s *Session) (Reply, error) {
	if err := s.transition(PhaseQuestioning); err != nil {
		return Reply{}, err
	}
	return c.askCurrent(ctx, s)
}

func (c *Controller) handleQuestioning(ctx context.Context, s *Session) (Reply, error) {
	if s.CurrentQuestion() != nil && s.canFollowUp() {
		raw, err := c.generate(ctx, decisionPrompt(s))
		if err != nil {
			return Reply{}, fmt.Errorf("classify answer: %w", err)
		}
		if parseDecision(raw) {
			if err := s.transition(PhaseDeepDive); err != nil {
				return Reply{}, err
			}
			s.AskedFollowUps++
			msg, err := c.generate(ctx, followUpPrompt(c.persona, s))
			if err != nil {
				return Reply{}, fmt.Errorf("generate follow-up: %w", err)
			}
			return Reply{Message: msg, FollowUp: true}, nil
		}
	}

	s.advance()
	if s.CurrentQuestion() != nil {
		if err := s.transition(PhaseQuestioning); err != nil {
			return Reply{}, err
		}
		return c.askCurrent(ctx, s)
	}

	if err := s.transition(PhaseClosing); err != nil {
		return Reply{}, err
	}
	msg, err := c.generate(ctx, closingPrompt(c.persona, s))
	if err != nil {
		return Reply{}, fmt.Errorf("generate closing: %w", err)
	}
	return Reply{Message: msg}, nil
}

func (c *Controller) askCurrent(ctx context.Context, s *Session) (Reply, error) {
	q := s.CurrentQuestion()
	if q == nil {
		return Reply{}, ErrNoQuestions
	}
	msg, err := c.generate(ctx, questionPrompt(c.persona, s, *q))
	if err != nil {
		return Reply{}, fmt.Errorf("generate question %d: %w", s.CurrentQuestionIndex+1, err)
	}
	return Reply{Message: msg}, nil
}

func (c *Controller) generate(ctx context.Context, prompt string) (string, error) {
	out, err := c.llm.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errEmptyReply
	}
	return out, nil
}
