// Package store keeps live interview sessions between requests.
package store

import (
	"context"

	"github.com/fadilmartias/interview-engine/internal/interview"
)

// Store holds live sessions. Get returns an independent copy; changes become
// visible only through Save. Lock serializes work on one session id.
type Store interface {
	Create(ctx context.Context, s *interview.Session) error
	Get(ctx context.Context, sessionID string) (*interview.Session, error)
	Save(ctx context.Context, s *interview.Session) error
	Delete(ctx context.Context, sessionID string) error
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}
