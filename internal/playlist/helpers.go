package playlist

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// publishEvent fans a change event out to the realtime channel.
// Best-effort: a nil client disables publishing and failures are only
// logged, never surfaced to the request.
func (s *Server) publishEvent(ctx context.Context, event map[string]any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("mixtape-service: marshal event: %v", err)
		return
	}
	if err := s.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		log.Printf("mixtape-service: publish event: %v", err)
	}
}

type RedisClient = redis.Client
