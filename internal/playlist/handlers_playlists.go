package playlist

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleCreatePlaylist mints a new, empty playlist. The body is
// optional: {"name": ..., "description": ...}.
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Description = strings.TrimSpace(body.Description)

	if len(body.Name) > 200 {
		writeError(w, http.StatusBadRequest, "name must be at most 200 characters")
		return
	}
	if len(body.Description) > 1000 {
		writeError(w, http.StatusBadRequest, "description is too long")
		return
	}

	pl, err := s.engine.Create(ctx, body.Name, body.Description)
	if err != nil {
		log.Printf("mixtape-service: create playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	event := map[string]any{
		"type": "playlist.created",
		"payload": map[string]any{
			"playlist": pl,
		},
	}
	s.publishEvent(ctx, event)

	writeJSON(w, http.StatusCreated, map[string]string{"id": pl.ID})
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}

	pl, err := s.engine.Get(ctx, playlistID)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("mixtape-service: get playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	writeJSON(w, http.StatusOK, pl)
}

// handlePatchPlaylist updates playlist metadata.
func (s *Server) handlePatchPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if len(name) > 200 {
			writeError(w, http.StatusBadRequest, "name must be at most 200 characters")
			return
		}
		body.Name = &name
	}
	if body.Description != nil {
		desc := strings.TrimSpace(*body.Description)
		if len(desc) > 1000 {
			writeError(w, http.StatusBadRequest, "description is too long")
			return
		}
		body.Description = &desc
	}

	pl, err := s.engine.PatchMeta(ctx, playlistID, body.Name, body.Description)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("mixtape-service: patch playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	event := map[string]any{
		"type": "playlist.updated",
		"payload": map[string]any{
			"playlist": pl,
		},
	}
	s.publishEvent(ctx, event)

	writeJSON(w, http.StatusOK, pl)
}
