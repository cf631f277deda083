package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/janus/internal/domain"
)

// Pagination bounds for GET /notes.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// getPagination reads limit and offset query parameters, applying defaults
// and clamping limit to MaxPageSize.
func getPagination(r *http.Request) (limit, offset int, err error) {
	limit, err = intQueryParam(r, "limit", DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	offset, err = intQueryParam(r, "offset", 0)
	if err != nil {
		return 0, 0, err
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	return limit, offset, nil
}

func intQueryParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrValidation, name)
	}
	return v, nil
}
