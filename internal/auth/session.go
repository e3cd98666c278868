package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kraft/model"

	"github.com/go-redis/redis/v8"
)

// CookieName is the session cookie issued after a successful login.
const CookieName = "KSESSION"

// Snapshot is the minimal cached view of a resolved user, stored per session.
type Snapshot struct {
	ID      uint64     `json:"id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Picture string     `json:"picture"`
	Role    model.Role `json:"role"`
}

// SnapshotOf builds the session view of a user record.
func SnapshotOf(u *model.User) *Snapshot {
	return &Snapshot{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Picture: u.Picture,
		Role:    u.Role,
	}
}

// SessionManager persists identity snapshots in Redis, keyed by a random
// session ID carried in the cookie.
type SessionManager struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionManager(rdb *redis.Client, ttl time.Duration) *SessionManager {
	return &SessionManager{rdb: rdb, ttl: ttl}
}

// Create stores the snapshot under a fresh session ID and returns the ID.
func (s *SessionManager) Create(ctx context.Context, snap *Snapshot) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	id := hex.EncodeToString(buf)

	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get fetches the snapshot for a session ID. Unknown or expired sessions
// return (nil, nil).
func (s *SessionManager) Get(ctx context.Context, id string) (*Snapshot, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	// Sliding expiry: each hit renews the session.
	_ = s.rdb.Expire(ctx, sessionKey(id), s.ttl).Err()
	return &snap, nil
}

// Delete revokes a session, used during logout.
func (s *SessionManager) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return fmt.Sprintf("kb:session:%s", id)
}
