package session_test

import (
	"path/filepath"
	"testing"

	"github.com/quickbite/merchant/internal/session"
)

func newSession(t *testing.T, store session.Store) *session.Session {
	t.Helper()
	s, err := session.New(store)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestIsAuthenticatedTracksToken(t *testing.T) {
	s := newSession(t, session.NewMemStore())

	if s.IsAuthenticated() {
		t.Fatal("fresh session should not be authenticated")
	}

	if err := s.SetToken("tok-123"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Fatal("authenticated should be true after SetToken")
	}
	if s.Token() != "tok-123" {
		t.Errorf("token: got %q", s.Token())
	}

	if err := s.RemoveToken(); err != nil {
		t.Fatalf("remove token: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("authenticated should be false after RemoveToken")
	}
	if s.Token() != "" {
		t.Errorf("token after remove: got %q", s.Token())
	}
}

func TestFileStoreSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quickbite", "token")
	store := session.NewFileStoreAt(path)

	s := newSession(t, store)
	if err := s.SetToken("persisted-token"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	// A new Session over the same store simulates a process restart.
	restarted := newSession(t, session.NewFileStoreAt(path))
	if !restarted.IsAuthenticated() {
		t.Fatal("token did not survive restart")
	}
	if restarted.Token() != "persisted-token" {
		t.Errorf("token after restart: got %q", restarted.Token())
	}

	if err := restarted.RemoveToken(); err != nil {
		t.Fatalf("remove token: %v", err)
	}
	again := newSession(t, session.NewFileStoreAt(path))
	if again.IsAuthenticated() {
		t.Fatal("removed token reappeared after restart")
	}
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	store := session.NewFileStoreAt(filepath.Join(t.TempDir(), "token"))
	if err := store.Clear(); err != nil {
		t.Fatalf("clear with no file: %v", err)
	}
}
