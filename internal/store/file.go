// Package store provides Repository implementations: a Postgres-backed
// document store for deployments and a single-file JSON store for
// development and tests.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mixtape-service/internal/ident"
	"mixtape-service/internal/playlist"
)

// fileDB is the on-disk layout: one record per playlist keyed by id.
type fileDB struct {
	Playlists map[string]*playlist.Playlist `json:"playlists"`
}

// File is a Repository backed by a single JSON file. Writes go through
// a per-playlist lock arena so concurrent Mutate calls for the same id
// serialize while different ids only contend on the brief file
// read/write sections.
type File struct {
	path  string
	newID func() string

	fileMu sync.RWMutex // guards the file itself

	arenaMu sync.Mutex
	arena   map[string]*sync.Mutex // per-playlist write locks
}

var _ playlist.Repository = (*File)(nil)

func NewFile(path string) (*File, error) {
	s := &File{
		path:  path,
		newID: ident.New,
		arena: make(map[string]*sync.Mutex),
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	// Fail fast on a corrupt file instead of silently starting empty.
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *File) load() (*fileDB, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileDB{Playlists: map[string]*playlist.Playlist{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	db := &fileDB{}
	if err := json.Unmarshal(data, db); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if db.Playlists == nil {
		db.Playlists = map[string]*playlist.Playlist{}
	}
	return db, nil
}

func (s *File) save(db *fileDB) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encode db: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// lock returns the write lock for one playlist id.
func (s *File) lock(id string) *sync.Mutex {
	s.arenaMu.Lock()
	defer s.arenaMu.Unlock()
	l, ok := s.arena[id]
	if !ok {
		l = &sync.Mutex{}
		s.arena[id] = l
	}
	return l
}

func (s *File) Create(ctx context.Context, name, description string) (*playlist.Playlist, error) {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}

	var id string
	for {
		id = s.newID()
		if _, exists := db.Playlists[id]; !exists {
			break
		}
	}

	now := time.Now().UTC()
	pl := &playlist.Playlist{
		ID:          id,
		Name:        name,
		Description: description,
		Items:       []playlist.Item{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	db.Playlists[id] = pl
	if err := s.save(db); err != nil {
		return nil, err
	}

	out := *pl
	return &out, nil
}

func (s *File) Get(ctx context.Context, id string) (*playlist.Playlist, error) {
	s.fileMu.RLock()
	defer s.fileMu.RUnlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	pl, ok := db.Playlists[id]
	if !ok {
		return nil, playlist.ErrNotFound
	}
	out := *pl
	return &out, nil
}

// Mutate applies fn under the playlist's write lock and persists the
// result. The lock releases on every exit path; when fn fails nothing
// is written.
func (s *File) Mutate(ctx context.Context, id string, fn func(*playlist.Playlist) error) (*playlist.Playlist, error) {
	l := s.lock(id)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.fileMu.RLock()
	db, err := s.load()
	s.fileMu.RUnlock()
	if err != nil {
		return nil, err
	}

	pl, ok := db.Playlists[id]
	if !ok {
		return nil, playlist.ErrNotFound
	}

	working := *pl
	if err := fn(&working); err != nil {
		return nil, err
	}

	// Re-read before writing so a concurrent writer on a different id
	// is not clobbered; our own key cannot have changed while the
	// per-id lock is held.
	s.fileMu.Lock()
	defer s.fileMu.Unlock()
	db, err = s.load()
	if err != nil {
		return nil, err
	}
	db.Playlists[id] = &working
	if err := s.save(db); err != nil {
		return nil, err
	}

	out := working
	return &out, nil
}
