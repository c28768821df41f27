package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mixtape-service/internal/ident"
)

// Engine orchestrates playlist commands against the Repository. Every
// write is expressed as a single Repository.Mutate so the store's
// per-playlist serialization covers the whole read-modify-write cycle.
type Engine struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewEngine(repo Repository) *Engine {
	return &Engine{
		repo:  repo,
		now:   time.Now,
		newID: ident.New,
	}
}

// ItemInput is the add-item request payload. When Type is empty the
// classifier infers the kind from Text (falling back to Content, then
// URL, so a bare pasted string works whichever field carried it).
// Any client-supplied id is ignored; items are never created with a
// pre-chosen id.
type ItemInput struct {
	Item
	Text string `json:"text,omitempty"`
}

// Create mints a playlist. Metadata is optional; the caller gets back
// the persisted document.
func (e *Engine) Create(ctx context.Context, name, description string) (*Playlist, error) {
	return e.repo.Create(ctx, name, description)
}

// Get returns the playlist or ErrNotFound.
func (e *Engine) Get(ctx context.Context, id string) (*Playlist, error) {
	return e.repo.Get(ctx, id)
}

// PatchMeta updates playlist name and/or description.
func (e *Engine) PatchMeta(ctx context.Context, id string, name, description *string) (*Playlist, error) {
	return e.repo.Mutate(ctx, id, func(p *Playlist) error {
		if name != nil {
			p.Name = *name
		}
		if description != nil {
			p.Description = *description
		}
		p.UpdatedAt = e.now()
		return nil
	})
}

// AddItem appends a new item to the playlist. An explicit type is
// validated against the kind registry; without one the classifier runs
// on the pasted text. The item id is minted here and addedAt is stamped
// when absent.
func (e *Engine) AddItem(ctx context.Context, playlistID string, input ItemInput) (*Item, error) {
	var item Item
	if input.Type == "" {
		raw := input.Text
		if raw == "" {
			raw = input.Content
		}
		if raw == "" {
			raw = input.URL
		}
		item = Classify(raw)
		item.Title = input.Title
		item.AddedContext = input.AddedContext
		item.AddedAt = input.AddedAt
	} else {
		item = input.Item
		item.Type = CanonicalKind(input.Type)
		if v := Validate(&item); v != nil {
			return nil, v
		}
	}

	var created Item
	_, err := e.repo.Mutate(ctx, playlistID, func(p *Playlist) error {
		item.ID = e.mintItemID(p)
		if item.AddedAt == nil {
			now := e.now()
			item.AddedAt = &now
		}
		p.Items = append(p.Items, item)
		p.UpdatedAt = e.now()
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// mintItemID generates an id not already present in the playlist.
// Collisions are vanishingly rare but re-minting is cheap and keeps the
// per-playlist uniqueness invariant unconditional.
func (e *Engine) mintItemID(p *Playlist) string {
	for {
		id := e.newID()
		if !p.HasItem(id) {
			return id
		}
	}
}

// UpdateItem merges patch fields into the item with the matching id.
// "id" and "type" are immutable: a patch restating the current value is
// tolerated, an attempt to change either fails with a SchemaViolation,
// as does any field not legal for the item's kind.
func (e *Engine) UpdateItem(ctx context.Context, playlistID, itemID string, patch map[string]json.RawMessage) (*Item, error) {
	var updated Item
	_, err := e.repo.Mutate(ctx, playlistID, func(p *Playlist) error {
		existing := p.FindItem(itemID)
		if existing == nil {
			return ErrItemNotFound
		}

		if raw, ok := patch["id"]; ok {
			var id string
			if err := json.Unmarshal(raw, &id); err != nil || id != existing.ID {
				return violation("id", "immutable")
			}
			delete(patch, "id")
		}
		if raw, ok := patch["type"]; ok {
			var k Kind
			if err := json.Unmarshal(raw, &k); err != nil || CanonicalKind(k) != existing.Type {
				return violation("type", "immutable")
			}
			delete(patch, "type")
		}

		keys := make([]string, 0, len(patch))
		for k := range patch {
			keys = append(keys, k)
		}
		if v := ValidatePatchKeys(existing.Type, keys); v != nil {
			return v
		}

		merged, err := mergeItem(existing, patch)
		if err != nil {
			return err
		}
		if v := Validate(merged); v != nil {
			return v
		}

		*existing = *merged
		p.UpdatedAt = e.now()
		updated = *merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// mergeItem overlays patch fields onto the existing item via its JSON
// representation, preserving id and type.
func mergeItem(existing *Item, patch map[string]json.RawMessage) (*Item, error) {
	base, err := json.Marshal(existing)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	for k, v := range patch {
		doc[k] = v
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal merged item: %w", err)
	}
	var merged Item
	if err := json.Unmarshal(out, &merged); err != nil {
		return nil, violation("patch", "malformed field value")
	}
	merged.ID = existing.ID
	merged.Type = existing.Type
	return &merged, nil
}

// Reorder computes the new item sequence: each id in orderedIDs maps to
// its current item, in orderedIDs order. Unknown ids contribute nothing
// and current items absent from orderedIDs are removed; duplicates count
// once. The permissive drop-don't-reject policy matches collaborating
// clients holding stale snapshots of each other's edits.
func (e *Engine) Reorder(ctx context.Context, playlistID string, orderedIDs []string) (*Playlist, error) {
	return e.repo.Mutate(ctx, playlistID, func(p *Playlist) error {
		byID := make(map[string]Item, len(p.Items))
		for _, it := range p.Items {
			byID[it.ID] = it
		}

		next := make([]Item, 0, len(orderedIDs))
		seen := make(map[string]bool, len(orderedIDs))
		for _, id := range orderedIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			if it, ok := byID[id]; ok {
				next = append(next, it)
			}
		}

		p.Items = next
		p.UpdatedAt = e.now()
		return nil
	})
}
