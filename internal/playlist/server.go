package playlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// maxRequestBody is the maximum allowed request body size (1 MB).
const maxRequestBody int64 = 1 << 20

type Server struct {
	engine *Engine
	rdb    *redis.Client
}

func NewServer(engine *Engine, rdb *redis.Client) *Server {
	return &Server{
		engine: engine,
		rdb:    rdb,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Post("/playlists", s.handleCreatePlaylist)
	r.Get("/playlists/{id}", s.handleGetPlaylist)
	r.Patch("/playlists/{id}", s.handlePatchPlaylist)

	r.Post("/playlists/{id}/items", s.handleAddItem)
	r.Put("/playlists/{id}/items/{itemId}", s.handleUpdateItem)

	r.Post("/playlists/{id}/reorder", s.handleReorder)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "mixtape-service",
	})
}

// CORSMiddleware sets CORS headers for the browser frontend. An empty
// origin defaults to "*" for development.
func CORSMiddleware(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimitBody restricts request bodies to maxRequestBody bytes.
func LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		next.ServeHTTP(w, r)
	})
}
