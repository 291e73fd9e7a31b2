package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/auth/refresh", h.refreshSession)
		r.Get("/health", h.health)
		r.Get("/version", h.getServerVersion)
	})

	// sync routes, device identity comes from the access token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/sync/push", h.pushEvents)
		r.Get("/sync/pull", h.pullChanges)
		r.Get("/sync/status", h.syncStatus)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
