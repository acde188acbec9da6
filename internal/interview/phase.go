package interview

import "fmt"

type Phase string

const (
	PhaseGreeting    Phase = "greeting"
	PhaseQuestioning Phase = "questioning"
	PhaseDeepDive    Phase = "deep_dive"
	PhaseClosing     Phase = "closing"
)

// transitions lists every allowed edge. questioning -> questioning is the
// move to the next scripted question. closing has no outgoing edges.
var transitions = map[Phase][]Phase{
	PhaseGreeting:    {PhaseQuestioning},
	PhaseQuestioning: {PhaseQuestioning, PhaseDeepDive, PhaseClosing},
	PhaseDeepDive:    {PhaseQuestioning},
	PhaseClosing:     nil,
}

func (p Phase) Valid() bool {
	_, ok := transitions[p]
	return ok
}

func (p Phase) Terminal() bool {
	return p == PhaseClosing
}

func CanTransition(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to Phase) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
