// internal/app/features/plans/routes.go
package plans

import (
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Submission is teacher-only; a coordinator hitting these gets a 403.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleTeacher))
		pr.Get("/new", h.ServeNewPlan)
		pr.Post("/new", h.HandleNewPlan)
	})

	// Review is area-coordinator-only.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleArea))
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
	})

	return r
}
