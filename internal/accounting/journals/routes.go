package journals

import "github.com/go-chi/chi/v5"

// MountRoutes registers journal inspection routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}
