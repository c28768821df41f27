package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"mixtape-service/internal/ident"
	"mixtape-service/internal/playlist"
)

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Postgres stores each playlist as one JSONB document row. Row-level
// locking (SELECT ... FOR UPDATE) gives Mutate its per-playlist
// single-writer guarantee; different ids never contend.
type Postgres struct {
	db    DB
	newID func() string
}

var _ playlist.Repository = (*Postgres)(nil)

func NewPostgres(db DB) *Postgres {
	return &Postgres{
		db:    db,
		newID: ident.New,
	}
}

func AutoMigrate(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlists (
          id         TEXT PRIMARY KEY,
          doc        JSONB NOT NULL,
          created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `)
	return err
}

func (s *Postgres) Create(ctx context.Context, name, description string) (*playlist.Playlist, error) {
	now := time.Now().UTC()
	pl := &playlist.Playlist{
		Name:        name,
		Description: description,
		Items:       []playlist.Item{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Re-mint on the (vanishingly rare) id collision instead of
	// overwriting the colliding row.
	for {
		pl.ID = s.newID()
		doc, err := json.Marshal(pl)
		if err != nil {
			return nil, fmt.Errorf("encode playlist: %w", err)
		}
		tag, err := s.db.Exec(ctx, `
			INSERT INTO playlists (id, doc)
			VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, pl.ID, doc)
		if err != nil {
			return nil, fmt.Errorf("insert playlist: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return pl, nil
		}
	}
}

func (s *Postgres) Get(ctx context.Context, id string) (*playlist.Playlist, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `
		SELECT doc FROM playlists WHERE id = $1
	`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, playlist.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select playlist: %w", err)
	}

	pl := &playlist.Playlist{}
	if err := json.Unmarshal(doc, pl); err != nil {
		return nil, fmt.Errorf("decode playlist %s: %w", id, err)
	}
	return pl, nil
}

// Mutate runs the load-transform-store cycle inside one transaction.
// FOR UPDATE holds the row lock only for the cycle; rollback on any
// exit path (fn failure, context cancellation, commit error) releases
// it.
func (s *Postgres) Mutate(ctx context.Context, id string, fn func(*playlist.Playlist) error) (*playlist.Playlist, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var doc []byte
	err = tx.QueryRow(ctx, `
		SELECT doc FROM playlists WHERE id = $1 FOR UPDATE
	`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, playlist.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select playlist for update: %w", err)
	}

	pl := &playlist.Playlist{}
	if err := json.Unmarshal(doc, pl); err != nil {
		return nil, fmt.Errorf("decode playlist %s: %w", id, err)
	}

	if err := fn(pl); err != nil {
		return nil, err
	}

	out, err := json.Marshal(pl)
	if err != nil {
		return nil, fmt.Errorf("encode playlist: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE playlists SET doc = $2, updated_at = now() WHERE id = $1
	`, id, out); err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return pl, nil
}
