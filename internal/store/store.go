package store

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/order-entry/internal/session"
)

var ErrSessionNotFound = errors.New("order session not found")

// SessionStore keeps in-progress order sessions. Confirmed orders are not
// persisted anywhere; a session only lives until it is deleted or expires.
type SessionStore interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	Save(ctx context.Context, s *session.Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}
