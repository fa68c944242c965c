// internal/app/features/admin/routes.go
package admin

import (
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes wires the administration area. Everything here is restricted to
// the general coordinator.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleGeneral))

		pr.Get("/", h.ServeAdmin)

		pr.Get("/subjects", h.ServeSubjects)
		pr.Post("/subjects", h.HandleCreateSubject)
		pr.Post("/subjects/delete", h.HandleDeleteSubject)

		pr.Get("/users", h.ServeUsers)
		pr.Get("/users/new", h.ServeNewUser)
		pr.Post("/users/new", h.HandleCreateUser)
		pr.Post("/users/{username}/delete", h.HandleDeleteUser)
	})

	return r
}
