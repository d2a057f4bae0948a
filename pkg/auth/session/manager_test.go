package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

type prefixKeyer struct{}

func (prefixKeyer) AccessSessionKey(accessID string) string { return "session:access:" + accessID }

func newTestManager(store sessionStore) *Manager {
	return &Manager{store: store, keyer: prefixKeyer{}, ttl: time.Hour}
}

func TestGenerateAndHasSession(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)
	accessID := NewAccessID()

	token, err := mgr.Generate(context.Background(), accessID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty refresh token")
	}

	ok, err := mgr.HasSession(context.Background(), accessID)
	if err != nil {
		t.Fatalf("has session failed: %v", err)
	}
	if !ok {
		t.Fatal("expected session to exist")
	}

	ok, err = mgr.HasSession(context.Background(), NewAccessID())
	if err != nil {
		t.Fatalf("has session failed: %v", err)
	}
	if ok {
		t.Fatal("expected unknown session to be absent")
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)
	accessID := NewAccessID()

	token, err := mgr.Generate(context.Background(), accessID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	newAccessID, newToken, err := mgr.Rotate(context.Background(), accessID, token)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if newAccessID == accessID || newToken == token {
		t.Fatal("rotation must produce a fresh pair")
	}

	if ok, _ := mgr.HasSession(context.Background(), accessID); ok {
		t.Fatal("old session should be gone")
	}
	if ok, _ := mgr.HasSession(context.Background(), newAccessID); !ok {
		t.Fatal("new session should exist")
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)
	accessID := NewAccessID()

	if _, err := mgr.Generate(context.Background(), accessID); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, _, err := mgr.Rotate(context.Background(), accessID, "forged"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)
	accessID := NewAccessID()

	if _, err := mgr.Generate(context.Background(), accessID); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if err := mgr.Revoke(context.Background(), accessID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if ok, _ := mgr.HasSession(context.Background(), accessID); ok {
		t.Fatal("revoked session should be gone")
	}
}
