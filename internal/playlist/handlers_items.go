package playlist

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleAddItem appends an item to a playlist. The body carries item
// fields; when "type" is omitted the pasted text is classified into a
// typed item.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}

	var input ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := s.engine.AddItem(ctx, playlistID, input)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	var sv *SchemaViolation
	if errors.As(err, &sv) {
		writeError(w, http.StatusBadRequest, sv.Error())
		return
	}
	if err != nil {
		log.Printf("mixtape-service: add item: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	event := map[string]any{
		"type": "item.added",
		"payload": map[string]any{
			"playlistId": playlistID,
			"item":       item,
		},
	}
	s.publishEvent(ctx, event)

	writeJSON(w, http.StatusCreated, item)
}

// handleUpdateItem merges partial item fields into an existing item.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")
	if playlistID == "" || itemID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist or item id")
		return
	}

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := s.engine.UpdateItem(ctx, playlistID, itemID, patch)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if errors.Is(err, ErrItemNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	var sv *SchemaViolation
	if errors.As(err, &sv) {
		writeError(w, http.StatusBadRequest, sv.Error())
		return
	}
	if err != nil {
		log.Printf("mixtape-service: update item: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	event := map[string]any{
		"type": "item.updated",
		"payload": map[string]any{
			"playlistId": playlistID,
			"item":       item,
		},
	}
	s.publishEvent(ctx, event)

	writeJSON(w, http.StatusOK, item)
}
