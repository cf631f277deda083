package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/janus/internal/api"
	apiMiddleware "github.com/phrazzld/janus/internal/api/middleware"
)

func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Recoverer)

	notes := api.NewNoteHandler(app.noteStore, app.logger)
	health := api.NewHealthHandler(app.pools, 0, app.logger)

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", notes.ListNotes)
		r.Post("/", notes.CreateNote)
		r.Get("/{id}", notes.GetNote)
		r.Put("/{id}", notes.RenameNote)
		r.Delete("/{id}", notes.DeleteNote)
	})

	r.Get("/healthz", health.Check)

	return r
}
