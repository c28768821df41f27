package playlist

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleReorder replaces the playlist's item sequence with the
// caller-supplied id ordering, intersected with the items that still
// exist. Stale or unknown ids are dropped silently rather than
// rejected; collaborating clients routinely submit orders computed from
// an outdated snapshot.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}

	var body struct {
		OrderedIDs []string `json:"orderedIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	pl, err := s.engine.Reorder(ctx, playlistID, body.OrderedIDs)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("mixtape-service: reorder: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	itemIDs := make([]string, 0, len(pl.Items))
	for _, it := range pl.Items {
		itemIDs = append(itemIDs, it.ID)
	}
	event := map[string]any{
		"type": "playlist.reordered",
		"payload": map[string]any{
			"playlistId": playlistID,
			"itemIds":    itemIDs,
		},
	}
	s.publishEvent(ctx, event)

	writeJSON(w, http.StatusOK, pl)
}
