package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/janus/internal/domain"
)

// NoteStore defines the interface for note data persistence.
//
// Get, List and Count may be served by a replica and can trail recent writes.
// Rename and the other mutating methods always use the primary.
type NoteStore interface {
	// Create saves a new note. Returns validation errors if data is invalid.
	Create(ctx context.Context, note *domain.Note) error

	// Get retrieves a note by ID from the read pool.
	// Returns ErrNoteNotFound if the note does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// List returns notes ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.Note, error)

	// Count returns the number of stored notes.
	Count(ctx context.Context) (int64, error)

	// Rename loads the note with a row lock on the primary, renames it and
	// saves it in one transaction. Returns the updated note.
	Rename(ctx context.Context, id uuid.UUID, title string) (*domain.Note, error)

	// Delete removes a note. Returns ErrNoteNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
