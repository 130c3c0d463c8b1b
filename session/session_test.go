package session

import (
	"strings"
	"testing"
)

func TestStartAndGet(t *testing.T) {
	s := NewStore()
	st, token := s.Start("Ana@Example.com", " Ana Souza ")
	if st.Email != "ana@example.com" {
		t.Errorf("email = %q, want lowercased", st.Email)
	}
	if st.Name != "Ana Souza" {
		t.Errorf("name = %q, want trimmed", st.Name)
	}
	if st.Unlocked {
		t.Error("fresh session must not be unlocked")
	}

	got, ok := s.Get(token)
	if !ok || got.ID != st.ID {
		t.Fatalf("Get(token) = %v, %v", got, ok)
	}
}

func TestGetRejectsForgedTokens(t *testing.T) {
	s := NewStore()
	st, token := s.Start("a@b.c", "Ana")

	if _, ok := s.Get("garbage"); ok {
		t.Error("malformed token accepted")
	}
	if _, ok := s.Get(st.ID + ".forged-signature"); ok {
		t.Error("bad signature accepted")
	}
	// Signature from one id must not validate another.
	parts := strings.SplitN(token, ".", 2)
	if _, ok := s.Get("other-id." + parts[1]); ok {
		t.Error("transplanted signature accepted")
	}
}

func TestUnlockIdempotent(t *testing.T) {
	s := NewStore()
	st, _ := s.Start("a@b.c", "Ana")

	if s.Unlocked(st.ID) {
		t.Fatal("unlocked before payment")
	}
	s.Unlock(st.ID)
	s.Unlock(st.ID)
	if !s.Unlocked(st.ID) {
		t.Fatal("unlock did not stick")
	}
	// Unknown ids are a no-op, not a panic.
	s.Unlock("missing")
	if s.Unlocked("missing") {
		t.Fatal("unknown session reported unlocked")
	}
}

func TestByID(t *testing.T) {
	s := NewStore()
	st, _ := s.Start("a@b.c", "Ana")
	if got := s.ByID(st.ID); got == nil || got.Email != "a@b.c" {
		t.Fatalf("ByID = %+v", got)
	}
	if s.ByID("missing") != nil {
		t.Fatal("unknown id should yield nil")
	}
}
