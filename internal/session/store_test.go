package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "tok", []byte(`{"id":"1"}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	payload, ok, err := s.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected payload to be present")
	}
	if string(payload) != `{"id":"1"}` {
		t.Fatalf("unexpected payload: %s", payload)
	}
}

func TestMemoryStore_MissingToken(t *testing.T) {
	s := NewMemoryStore()

	_, ok, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("unknown token must read as absent")
	}
}

func TestMemoryStore_LazyExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "tok", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	_, ok, err := s.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expired entry must read as absent")
	}

	// a second read stays absent (the entry was dropped on first read)
	_, ok, _ = s.Get(ctx, "tok")
	if ok {
		t.Fatalf("entry must stay absent after lazy delete")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "tok", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := s.Delete(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, ok, _ := s.Get(ctx, "tok")
	if ok {
		t.Fatalf("deleted entry must read as absent")
	}

	// deleting again is not an error
	if err := s.Delete(ctx, "tok"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
