// Package session supplies the acting user's identity to the submitter.
package session

import (
	"context"

	"github.com/nikolayk812/cartflow/internal/domain"
)

// Static always returns the same identity, e.g. a kiosk user from config.
// A zero ID means no authenticated user.
type Static struct {
	Identity domain.Identity
}

func (s Static) CurrentUser(_ context.Context) (domain.Identity, bool) {
	if s.Identity.ID == "" {
		return domain.Identity{}, false
	}

	return s.Identity, true
}

type ctxKey struct{}

// WithIdentity attaches an identity to the context, typically done by a
// transport adapter after authenticating the request.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext reads the identity attached by WithIdentity.
type FromContext struct{}

func (FromContext) CurrentUser(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(domain.Identity)
	if !ok || id.ID == "" {
		return domain.Identity{}, false
	}

	return id, true
}
