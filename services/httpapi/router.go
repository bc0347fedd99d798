package httpapi

import (
	"dueboard/services/deadlines"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the API under /api. authEnabled gates the whole
// surface behind a bearer token.
func NewRouter(engine *deadlines.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(engine)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(AuthMiddleware(authEnabled, token))

	r.Route("/api", func(r chi.Router) {
		r.Get("/data", h.GetData)
		r.Get("/badge", h.GetBadge)
		r.Post("/items/{id}/done", h.ToggleDone)
		r.Patch("/settings", h.UpdateSettings)
		r.Delete("/data", h.ClearData)
		r.Post("/scrape", h.DeliverScrape)
		r.Get("/events", Events(engine))
	})

	return r
}
