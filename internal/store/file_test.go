package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"mixtape-service/internal/playlist"
)

func newFileStore(t *testing.T) (*File, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "playlists.json")
	s, err := NewFile(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return s, path
}

func TestFileCreateAndGet(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	pl, err := s.Create(ctx, "Weekend", "links for the weekend")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pl.ID == "" {
		t.Fatal("expected minted id")
	}
	if len(pl.Items) != 0 {
		t.Fatalf("expected empty playlist, got %d items", len(pl.Items))
	}

	got, err := s.Get(ctx, pl.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Weekend" || got.Description != "links for the weekend" {
		t.Errorf("metadata mismatch: %+v", got)
	}
}

func TestFileGetUnknown(t *testing.T) {
	s, _ := newFileStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, playlist.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileSurvivesReopen(t *testing.T) {
	s, path := newFileStore(t)
	ctx := context.Background()

	pl, err := s.Create(ctx, "Durable", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Mutate(ctx, pl.ID, func(p *playlist.Playlist) error {
		p.Items = append(p.Items, playlist.Item{ID: "it-1", Type: playlist.KindText, Content: "hello"})
		return nil
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}

	// A fresh store over the same file sees the committed state.
	reopened, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(ctx, pl.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Content != "hello" {
		t.Fatalf("state lost across reopen: %+v", got.Items)
	}
}

func TestFileMutateUnknown(t *testing.T) {
	s, _ := newFileStore(t)
	_, err := s.Mutate(context.Background(), "nope", func(p *playlist.Playlist) error { return nil })
	if !errors.Is(err, playlist.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileMutateFailurePersistsNothing(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	pl, _ := s.Create(ctx, "Untouched", "")
	boom := errors.New("boom")
	_, err := s.Mutate(ctx, pl.ID, func(p *playlist.Playlist) error {
		p.Name = "changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error returned unchanged, got %v", err)
	}

	got, _ := s.Get(ctx, pl.ID)
	if got.Name != "Untouched" {
		t.Fatalf("failed mutate leaked a write: %q", got.Name)
	}
}

func TestFileRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(path); err == nil {
		t.Fatal("expected corrupt file to fail open, not start empty")
	}
}

func TestFileConcurrentMutates(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	plA, _ := s.Create(ctx, "A", "")
	plB, _ := s.Create(ctx, "B", "")

	const perPlaylist = 10
	var wg sync.WaitGroup
	for i := 0; i < perPlaylist; i++ {
		for _, id := range []string{plA.ID, plB.ID} {
			wg.Add(1)
			go func(id string, i int) {
				defer wg.Done()
				s.Mutate(ctx, id, func(p *playlist.Playlist) error {
					p.Items = append(p.Items, playlist.Item{
						ID:      fmt.Sprintf("%s-item-%d", id, i),
						Type:    playlist.KindText,
						Content: "x",
					})
					return nil
				})
			}(id, i)
		}
	}
	wg.Wait()

	for _, id := range []string{plA.ID, plB.ID} {
		got, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if len(got.Items) != perPlaylist {
			t.Errorf("playlist %s: expected %d items, got %d", id, perPlaylist, len(got.Items))
		}
	}
}

func TestFileMutateCancelledContext(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()
	pl, _ := s.Create(ctx, "C", "")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.Mutate(cancelled, pl.ID, func(p *playlist.Playlist) error { return nil }); err == nil {
		t.Fatal("expected error from cancelled context")
	}

	// The abandoned call must not leave the per-id lock held.
	if _, err := s.Mutate(ctx, pl.ID, func(p *playlist.Playlist) error { return nil }); err != nil {
		t.Fatalf("lock left held after cancelled mutate: %v", err)
	}
}
