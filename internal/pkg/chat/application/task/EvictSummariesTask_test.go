package task

import (
	"context"
	"testing"
	"time"

	cport "webochat/internal/infrastructure/cache/port"
	qport "webochat/internal/infrastructure/queue/port"
)

type stubServer struct {
	handlers map[string]qport.Handler
}

func (s *stubServer) Register(taskType string, h qport.Handler) {
	s.handlers[taskType] = h
}

func (s *stubServer) Run(context.Context) error  { return nil }
func (s *stubServer) Stop(context.Context) error { return nil }

type stubCache struct {
	deleted []string
}

func (c *stubCache) Get(context.Context, string) (string, error) { return "", cport.ErrMiss }
func (c *stubCache) Set(context.Context, string, string, time.Duration) error {
	return nil
}
func (c *stubCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.deleted = append(c.deleted, keys...)
	return int64(len(keys)), nil
}
func (c *stubCache) Ping(context.Context) error { return nil }
func (c *stubCache) Close() error               { return nil }

func TestEvictSummariesDropsPerUserKeys(t *testing.T) {
	srv := &stubServer{handlers: make(map[string]qport.Handler)}
	cache := &stubCache{}
	RegisterEvictSummariesTask(srv, cache)

	h := srv.handlers[EvictSummariesTaskType]
	if h == nil {
		t.Fatal("handler not registered")
	}

	tsk, err := NewEvictSummariesTask("user-a", "", "user-b")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := h(context.Background(), tsk); err != nil {
		t.Fatalf("handle: %v", err)
	}

	want := []string{SummaryCacheKey("user-a"), SummaryCacheKey("user-b")}
	if len(cache.deleted) != len(want) {
		t.Fatalf("expected %v deleted, got %v", want, cache.deleted)
	}
	for i, key := range want {
		if cache.deleted[i] != key {
			t.Errorf("position %d: expected %s, got %s", i, key, cache.deleted[i])
		}
	}
}

func TestEvictSummariesRejectsMalformedPayload(t *testing.T) {
	srv := &stubServer{handlers: make(map[string]qport.Handler)}
	RegisterEvictSummariesTask(srv, &stubCache{})

	err := srv.handlers[EvictSummariesTaskType](context.Background(), qport.Task{
		Type:    EvictSummariesTaskType,
		Payload: []byte("{broken"),
	})
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
