package service

import (
	"errors"
	"testing"

	"kraft/dao"
	"kraft/model"
)

func newUserService(t *testing.T) (*UserService, *dao.UserDAO) {
	t.Helper()
	db := newTestDB(t)
	users := dao.NewUserDAO(db)
	return NewUserService(users), users
}

func TestSaveOrUpdateCreatesGuest(t *testing.T) {
	svc, _ := newUserService(t)

	user, err := svc.SaveOrUpdate("alice", "a@x.com", "pic-1")
	if err != nil {
		t.Fatalf("SaveOrUpdate: %v", err)
	}
	if user.Role != model.RoleGuest {
		t.Fatalf("first login should create a GUEST, got %s", user.Role)
	}
	if user.ID == 0 {
		t.Fatal("expected generated id")
	}
}

func TestSaveOrUpdateRefreshesExisting(t *testing.T) {
	svc, users := newUserService(t)

	first, err := svc.SaveOrUpdate("alice", "a@x.com", "pic-1")
	if err != nil {
		t.Fatalf("SaveOrUpdate: %v", err)
	}

	second, err := svc.SaveOrUpdate("alice renamed", "a@x.com", "pic-2")
	if err != nil {
		t.Fatalf("SaveOrUpdate (repeat): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("repeat login created a new user: %d != %d", second.ID, first.ID)
	}

	stored, err := users.FindByEmail("a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if stored.Name != "alice renamed" || stored.Picture != "pic-2" {
		t.Fatalf("repeat login did not refresh name/picture: %+v", stored)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newUserService(t)

	if err := svc.SeedAdmin("admin@x.com", "s3cret"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}

	user, err := svc.Authenticate("admin@x.com", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Fatalf("seeded admin should have ADMIN role, got %s", user.Role)
	}

	if _, err := svc.Authenticate("admin@x.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate("ghost@x.com", "s3cret"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for unknown email, got %v", err)
	}

	// Provider-created users have no password hash and can never form-login.
	if _, err := svc.SaveOrUpdate("alice", "a@x.com", ""); err != nil {
		t.Fatalf("SaveOrUpdate: %v", err)
	}
	if _, err := svc.Authenticate("a@x.com", ""); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for provider account, got %v", err)
	}
}

func TestSeedAdminIdempotent(t *testing.T) {
	svc, users := newUserService(t)

	if err := svc.SeedAdmin("admin@x.com", "s3cret"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	first, err := users.FindByEmail("admin@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}

	if err := svc.SeedAdmin("admin@x.com", "different"); err != nil {
		t.Fatalf("SeedAdmin (repeat): %v", err)
	}
	second, err := users.FindByEmail("admin@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if second.ID != first.ID || second.PasswordHash != first.PasswordHash {
		t.Fatal("repeat seeding must not replace the existing admin")
	}

	// Incomplete configuration is a no-op.
	if err := svc.SeedAdmin("", ""); err != nil {
		t.Fatalf("SeedAdmin (empty): %v", err)
	}
}
