package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/janus/internal/api/shared"
	"github.com/phrazzld/janus/internal/domain"
	"github.com/phrazzld/janus/internal/platform/logger"
	"github.com/phrazzld/janus/internal/store"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	notes  store.NoteStore
	logger *slog.Logger
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(notes store.NoteStore, logger *slog.Logger) *NoteHandler {
	if notes == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("notes cannot be nil for NoteHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NoteHandler")
	}

	return &NoteHandler{
		notes:  notes,
		logger: logger.With(slog.String("component", "note_handler")),
	}
}

// ListNotes handles GET /notes requests. Served from the read pool.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := getPagination(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	notes, err := h.notes.List(r.Context(), limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notes")
		return
	}

	total, err := h.notes.Count(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count notes")
		return
	}

	resp := NoteListResponse{
		Notes:  make([]NoteResponse, 0, len(notes)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, noteToResponse(n))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetNote handles GET /notes/{id} requests. Served from the read pool, so a
// note created moments ago may not be visible yet when a replica lags.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	note, err := h.notes.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get note")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// CreateNote handles POST /notes requests
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	note, err := domain.NewNote(req.Title, req.Body)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.notes.Create(r.Context(), note); err != nil {
		HandleAPIError(w, r, err, "Failed to create note")
		return
	}

	log.Debug("note created via API", slog.String("note_id", note.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, noteToResponse(note))
}

// RenameNote handles PUT /notes/{id} requests
func (h *NoteHandler) RenameNote(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req RenameNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	note, err := h.notes.Rename(r.Context(), id, req.Title)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update note")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// DeleteNote handles DELETE /notes/{id} requests
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.notes.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
