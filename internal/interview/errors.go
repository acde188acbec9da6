package interview

import "errors"

var (
	ErrScriptNotFound    = errors.New("script not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExists     = errors.New("session already exists")
	ErrNoQuestions       = errors.New("script has no questions")
	ErrEmptyMessage      = errors.New("user message is required")
	ErrInvalidTransition = errors.New("invalid phase transition")
)
