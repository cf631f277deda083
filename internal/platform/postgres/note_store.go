package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/phrazzld/janus/dbpools"
	"github.com/phrazzld/janus/internal/domain"
	"github.com/phrazzld/janus/internal/platform/logger"
	"github.com/phrazzld/janus/internal/store"
)

const noteColumns = "id, title, body, version, created_at, updated_at"

// PostgresNoteStore implements store.NoteStore on top of any dbpools.Provider.
// Plain reads go to Read; mutations and locking reads go to Write.
type PostgresNoteStore[P dbpools.Provider] struct {
	pools  P
	logger *slog.Logger
}

// NewPostgresNoteStore creates a note store routing through pools.
// If logger is nil, a default logger will be used.
func NewPostgresNoteStore[P dbpools.Provider](pools P, logger *slog.Logger) *PostgresNoteStore[P] {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore[P]{
		pools:  pools,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Pools returns the provider the store routes through.
func (s *PostgresNoteStore[P]) Pools() P {
	return s.pools
}

// Create implements store.NoteStore.Create.
func (s *PostgresNoteStore[P]) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during create",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.pools.Write().Exec(ctx, `
		INSERT INTO notes (id, title, body, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, note.ID, note.Title, note.Body, note.Version, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		level := slog.LevelError
		if IsUniqueViolation(err) {
			level = slog.LevelWarn
		}
		log.Log(ctx, level, "failed to create note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return store.NewStoreError("note", "create", "insert failed", MapError(err))
	}

	log.Info("note created", slog.String("note_id", note.ID.String()))
	return nil
}

// Get implements store.NoteStore.Get.
func (s *PostgresNoteStore[P]) Get(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving note", slog.String("note_id", id.String()))

	row := s.pools.Read().QueryRow(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = $1", id)

	note, err := scanNote(row)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrNoteNotFound
		}
		log.Error("failed to get note",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return nil, MapError(err)
	}
	return note, nil
}

// List implements store.NoteStore.List.
func (s *PostgresNoteStore[P]) List(ctx context.Context, limit, offset int) ([]*domain.Note, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.pools.Read().Query(ctx,
		"SELECT "+noteColumns+" FROM notes ORDER BY created_at DESC, id LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, MapError(err)
	}

	notes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Note, error) {
		return scanNote(row)
	})
	if err != nil {
		return nil, MapError(err)
	}
	return notes, nil
}

// Count implements store.NoteStore.Count.
func (s *PostgresNoteStore[P]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pools.Read().QueryRow(ctx, "SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// Rename implements store.NoteStore.Rename. The row is read with
// SELECT ... FOR UPDATE, which must see the latest committed state, so the
// whole transaction runs on the write pool.
func (s *PostgresNoteStore[P]) Rename(ctx context.Context, id uuid.UUID, title string) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var renamed *domain.Note
	err := store.RunInTransaction(ctx, s.pools.Write(), func(ctx context.Context, tx pgx.Tx) error {
		note, err := getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := note.Rename(title); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		tag, err := tx.Exec(ctx,
			"UPDATE notes SET title = $2, version = $3, updated_at = $4 WHERE id = $1",
			note.ID, note.Title, note.Version, note.UpdatedAt)
		if err != nil {
			return MapError(err)
		}
		if err := CheckRowsAffected(tag, "note"); err != nil {
			return err
		}

		renamed = note
		return nil
	})
	if err != nil {
		log.Debug("note rename failed",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return nil, err
	}

	log.Info("note renamed",
		slog.String("note_id", id.String()),
		slog.Int("version", renamed.Version))
	return renamed, nil
}

// Delete implements store.NoteStore.Delete.
func (s *PostgresNoteStore[P]) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pools.Write().Exec(ctx, "DELETE FROM notes WHERE id = $1", id)
	if err != nil {
		return MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNoteNotFound
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("note deleted", slog.String("note_id", id.String()))
	return nil
}

// getForUpdate locks and returns the note row inside tx.
func getForUpdate(ctx context.Context, tx store.DBTX, id uuid.UUID) (*domain.Note, error) {
	row := tx.QueryRow(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = $1 FOR UPDATE", id)

	note, err := scanNote(row)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrNoteNotFound
		}
		return nil, MapError(err)
	}
	return note, nil
}

func scanNote(row pgx.Row) (*domain.Note, error) {
	var n domain.Note
	if err := row.Scan(&n.ID, &n.Title, &n.Body, &n.Version, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

var _ store.NoteStore = (*PostgresNoteStore[*dbpools.DBPools])(nil)
