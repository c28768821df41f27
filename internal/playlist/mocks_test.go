package playlist

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mixtape-service/internal/ident"
)

// memRepo is an in-memory Repository for handler and engine tests. Its
// single mutex serializes Mutate calls, satisfying the per-id
// single-writer contract trivially.
type memRepo struct {
	mu        sync.Mutex
	playlists map[string]*Playlist

	// failWith, when set, is returned from every call to exercise the
	// storage-failure paths.
	failWith error
}

var _ Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{playlists: map[string]*Playlist{}}
}

func clonePlaylist(p *Playlist) *Playlist {
	data, _ := json.Marshal(p)
	out := &Playlist{}
	json.Unmarshal(data, out)
	return out
}

func (m *memRepo) Create(ctx context.Context, name, description string) (*Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	now := time.Now().UTC()
	pl := &Playlist{
		ID:          ident.New(),
		Name:        name,
		Description: description,
		Items:       []Item{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.playlists[pl.ID] = pl
	return clonePlaylist(pl), nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	pl, ok := m.playlists[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePlaylist(pl), nil
}

func (m *memRepo) Mutate(ctx context.Context, id string, fn func(*Playlist) error) (*Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	pl, ok := m.playlists[id]
	if !ok {
		return nil, ErrNotFound
	}
	working := clonePlaylist(pl)
	if err := fn(working); err != nil {
		return nil, err
	}
	m.playlists[id] = working
	return clonePlaylist(working), nil
}
