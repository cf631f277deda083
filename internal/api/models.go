package api

import (
	"time"

	"github.com/phrazzld/janus/internal/domain"
)

// CreateNoteRequest defines the payload for POST /notes.
type CreateNoteRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body"`
}

// RenameNoteRequest defines the payload for PUT /notes/{id}.
type RenameNoteRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// NoteResponse represents a note returned to clients.
type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteListResponse is one page of notes plus the total count.
type NoteListResponse struct {
	Notes  []NoteResponse `json:"notes"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// HealthResponse reports reachability of each pool.
type HealthResponse struct {
	Status  string `json:"status"`
	Primary string `json:"primary"`
	Replica string `json:"replica"`
}

func noteToResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID.String(),
		Title:     note.Title,
		Body:      note.Body,
		Version:   note.Version,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
