package auth

import (
	"context"

	"kraft/model"
)

// Principal is an already-authenticated identity attached to a request,
// before it has been resolved to a domain user.
type Principal interface {
	isPrincipal()
}

// OAuthPrincipal carries the normalized attribute map of an OAuth2 login.
type OAuthPrincipal struct {
	Attributes map[string]any
}

func (OAuthPrincipal) isPrincipal() {}

// CredentialsPrincipal carries a verified username/password login. The
// username is treated as an email address.
type CredentialsPrincipal struct {
	Username string
}

func (CredentialsPrincipal) isPrincipal() {}

// UserFinder is the slice of the user DAO the resolver needs.
type UserFinder interface {
	FindByEmail(email string) (*model.User, error)
}

// SnapshotStore is the slice of the session manager the resolver needs.
type SnapshotStore interface {
	Get(ctx context.Context, id string) (*Snapshot, error)
}

// Resolver maps a request's session and principal to a domain user snapshot.
type Resolver struct {
	users    UserFinder
	sessions SnapshotStore
}

func NewResolver(users UserFinder, sessions SnapshotStore) *Resolver {
	return &Resolver{users: users, sessions: sessions}
}

// Resolve produces the request identity, or nil for anonymous. Order:
// cached session snapshot, then OAuth principal email, then credentials
// username-as-email. Lookup misses and store errors degrade to anonymous;
// resolution never fails a request.
func (r *Resolver) Resolve(ctx context.Context, sessionID string, principal Principal) *Snapshot {
	if sessionID != "" {
		if snap, err := r.sessions.Get(ctx, sessionID); err == nil && snap != nil {
			return snap
		}
	}

	switch p := principal.(type) {
	case OAuthPrincipal:
		email, ok := p.Attributes["email"].(string)
		if !ok || email == "" {
			return nil
		}
		if user, err := r.users.FindByEmail(email); err == nil {
			return SnapshotOf(user)
		}
	case CredentialsPrincipal:
		if user, err := r.users.FindByEmail(p.Username); err == nil {
			return SnapshotOf(user)
		}
	}
	return nil
}
