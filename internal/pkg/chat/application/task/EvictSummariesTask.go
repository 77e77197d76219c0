package task

import (
	"context"
	"encoding/json"
	"log"
	"time"

	cport "webochat/internal/infrastructure/cache/port"
	qport "webochat/internal/infrastructure/queue/port"
)

// EvictSummariesTaskType is the queue task name for dropping cached
// conversation summaries after an append, hide or unhide touched them.
const EvictSummariesTaskType = "chat:evict_summaries"

// EvictSummariesTaskPayload is the JSON payload transported via the queue.
type EvictSummariesTaskPayload struct {
	UserIDs []string `json:"userIds"`
}

// SummaryCacheKey is the cache key holding a user's visible-conversation
// summaries.
func SummaryCacheKey(userID string) string {
	return "chat:visible:" + userID
}

// NewEvictSummariesTask builds the queue task for the given users.
func NewEvictSummariesTask(userIDs ...string) (qport.Task, error) {
	payload, err := json.Marshal(EvictSummariesTaskPayload{UserIDs: userIDs})
	if err != nil {
		return qport.Task{}, err
	}
	return qport.Task{Type: EvictSummariesTaskType, Payload: payload}, nil
}

// RegisterEvictSummariesTask binds the eviction handler to the server.
// Deleting keys is idempotent, so retries are harmless.
func RegisterEvictSummariesTask(srv qport.Server, cache cport.Cache) {
	srv.Register(EvictSummariesTaskType, func(ctx context.Context, t qport.Task) error {
		var p EvictSummariesTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}
		if cache == nil || len(p.UserIDs) == 0 {
			return nil
		}

		keys := make([]string, 0, len(p.UserIDs))
		for _, id := range p.UserIDs {
			if id != "" {
				keys = append(keys, SummaryCacheKey(id))
			}
		}

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		n, err := cache.Del(ctx, keys...)
		if err != nil {
			return err
		}
		if n < int64(len(keys)) {
			// Some keys had already expired or were never populated.
			log.Printf("chat: evicted %d of %d cached summaries", n, len(keys))
		}
		return nil
	})
}
