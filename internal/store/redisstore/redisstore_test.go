package redisstore

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set; skipping redis store tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := New(ctx, url, "test:"+uuid.NewString()+":", 2)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKeyUsesPrefix(t *testing.T) {
	s := NewWithClient(nil, "")
	if got := s.Key("tasks"); got != "@tarefas:tasks" {
		t.Fatalf("expected default prefix, got %q", got)
	}
}

func TestRedisRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	t.Cleanup(func() { _ = s.client.Del(context.Background(), s.Key("tasks")).Err() })

	_, found, err := s.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatalf("expected absent key")
	}

	records := []json.RawMessage{json.RawMessage(`{"id":"1"}`)}
	if err := s.Put(ctx, "tasks", records); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found, err := s.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || len(got) != 1 || string(got[0]) != `{"id":"1"}` {
		t.Fatalf("unexpected records found=%v %s", found, got)
	}
}
