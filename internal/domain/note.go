package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxNoteTitleLength bounds Note.Title in characters.
const MaxNoteTitleLength = 200

// Note validation errors
var (
	ErrEmptyNoteID      = fmt.Errorf("%w: note ID cannot be empty", ErrInvalidID)
	ErrEmptyNoteTitle   = fmt.Errorf("%w: note title", ErrEmptyContent)
	ErrNoteTitleTooLong = fmt.Errorf("%w: note title exceeds %d characters", ErrValidation, MaxNoteTitleLength)
)

// Note is a titled piece of text. Version counts successful updates and lets
// callers detect that a replica has not caught up with the primary yet.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote creates a validated Note with a fresh ID and version 1.
func NewNote(title, body string) (*Note, error) {
	now := time.Now().UTC()
	note := &Note{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Body:      body,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}
	return note, nil
}

// Validate checks if the Note has valid data.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNoteID
	}
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyNoteTitle
	}
	if len([]rune(n.Title)) > MaxNoteTitleLength {
		return ErrNoteTitleTooLong
	}
	return nil
}

// Rename changes the title, bumps the version and the update timestamp.
func (n *Note) Rename(title string) error {
	previous := n.Title
	n.Title = strings.TrimSpace(title)
	if err := n.Validate(); err != nil {
		n.Title = previous
		return err
	}
	n.Version++
	n.UpdatedAt = time.Now().UTC()
	return nil
}
