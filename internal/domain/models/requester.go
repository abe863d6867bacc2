package models

import (
	"context"

	"github.com/google/uuid"
)

// Requester identifies the authenticated caller. Authentication itself is
// owned by an external subsystem; only the verified identity travels here.
type Requester struct {
	ID   uuid.UUID
	Name string
}

var anonymous = &Requester{}

// AnonymousRequester returns the shared unauthenticated identity.
func AnonymousRequester() *Requester {
	return anonymous
}

// IsAnonymous reports whether the requester is unauthenticated.
func (r *Requester) IsAnonymous() bool {
	return r == anonymous || r.ID == uuid.Nil
}

type requesterCtxKey struct{}

// WithRequester stores the requester identity in the context.
func WithRequester(ctx context.Context, r *Requester) context.Context {
	return context.WithValue(ctx, requesterCtxKey{}, r)
}

// RequesterFromContext returns the requester identity, or the anonymous one.
func RequesterFromContext(ctx context.Context) *Requester {
	if r, ok := ctx.Value(requesterCtxKey{}).(*Requester); ok && r != nil {
		return r
	}
	return anonymous
}
