package auth

import (
	"context"
	"errors"
	"testing"

	"kraft/model"

	"gorm.io/gorm"
)

type fakeUsers map[string]*model.User

func (f fakeUsers) FindByEmail(email string) (*model.User, error) {
	if u, ok := f[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessions struct {
	snapshots map[string]*Snapshot
	err       error
}

func (f *fakeSessions) Get(_ context.Context, id string) (*Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshots[id], nil
}

func testUser(email string) *model.User {
	return &model.User{ID: 1, Name: "alice", Email: email, Role: model.RoleUser}
}

func TestResolvePrefersSessionSnapshot(t *testing.T) {
	cached := &Snapshot{ID: 42, Name: "cached", Email: "cached@x.com"}
	r := NewResolver(
		fakeUsers{"cached@x.com": testUser("cached@x.com")},
		&fakeSessions{snapshots: map[string]*Snapshot{"sid": cached}},
	)

	// The session snapshot wins even when a principal is present.
	got := r.Resolve(context.Background(), "sid", CredentialsPrincipal{Username: "cached@x.com"})
	if got != cached {
		t.Fatalf("expected cached snapshot, got %+v", got)
	}
}

func TestResolveOAuthPrincipal(t *testing.T) {
	r := NewResolver(
		fakeUsers{"a@x.com": testUser("a@x.com")},
		&fakeSessions{snapshots: map[string]*Snapshot{}},
	)

	got := r.Resolve(context.Background(), "", OAuthPrincipal{
		Attributes: map[string]any{"email": "a@x.com", "name": "alice"},
	})
	if got == nil || got.Email != "a@x.com" || got.ID != 1 {
		t.Fatalf("expected snapshot of a@x.com, got %+v", got)
	}

	// Unknown email degrades to anonymous.
	if got := r.Resolve(context.Background(), "", OAuthPrincipal{
		Attributes: map[string]any{"email": "ghost@x.com"},
	}); got != nil {
		t.Fatalf("expected anonymous for unknown email, got %+v", got)
	}

	// A principal without an email attribute is anonymous.
	if got := r.Resolve(context.Background(), "", OAuthPrincipal{
		Attributes: map[string]any{"name": "no-email"},
	}); got != nil {
		t.Fatalf("expected anonymous for missing email attribute, got %+v", got)
	}
}

func TestResolveCredentialsPrincipal(t *testing.T) {
	r := NewResolver(
		fakeUsers{"a@x.com": testUser("a@x.com")},
		&fakeSessions{snapshots: map[string]*Snapshot{}},
	)

	got := r.Resolve(context.Background(), "", CredentialsPrincipal{Username: "a@x.com"})
	if got == nil || got.Email != "a@x.com" {
		t.Fatalf("expected snapshot of a@x.com, got %+v", got)
	}

	if got := r.Resolve(context.Background(), "", CredentialsPrincipal{Username: "ghost@x.com"}); got != nil {
		t.Fatalf("expected anonymous for unknown username, got %+v", got)
	}
}

func TestResolveAnonymous(t *testing.T) {
	r := NewResolver(fakeUsers{}, &fakeSessions{snapshots: map[string]*Snapshot{}})

	if got := r.Resolve(context.Background(), "", nil); got != nil {
		t.Fatalf("expected anonymous with no session and no principal, got %+v", got)
	}
	if got := r.Resolve(context.Background(), "unknown-sid", nil); got != nil {
		t.Fatalf("expected anonymous for unknown session, got %+v", got)
	}
}

func TestResolveSessionStoreErrorDegrades(t *testing.T) {
	r := NewResolver(
		fakeUsers{"a@x.com": testUser("a@x.com")},
		&fakeSessions{err: errors.New("redis down")},
	)

	// Store failure falls through to the principal instead of erroring.
	got := r.Resolve(context.Background(), "sid", CredentialsPrincipal{Username: "a@x.com"})
	if got == nil || got.Email != "a@x.com" {
		t.Fatalf("expected fallback to principal, got %+v", got)
	}

	if got := r.Resolve(context.Background(), "sid", nil); got != nil {
		t.Fatalf("expected anonymous when store fails and no principal, got %+v", got)
	}
}
