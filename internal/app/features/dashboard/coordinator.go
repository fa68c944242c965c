// internal/app/features/dashboard/coordinator.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/planaula/planaula/internal/app/policy/planpolicy"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/app/system/timeouts"
	"github.com/planaula/planaula/internal/app/system/viewdata"
	"github.com/planaula/planaula/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type coordinatorDashboardData struct {
	viewdata.BaseVM
	Plans        []planRow
	AreaSubjects []models.Subject
}

// ServeCoordinator lists the plans in the coordinator's area with
// approve/reject controls. A coordinator without assigned subjects sees
// an empty review queue, not an error.
func (h *Handler) ServeCoordinator(w http.ResponseWriter, r *http.Request, u *auth.SessionUser) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	scope := planpolicy.VisibleScope(u)
	plans, err := h.Plans.ListByScope(ctx, scope)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list area plans failed", err, "Ocorreu um erro ao carregar os planos da sua área.", "/")
		return
	}

	subjects, err := h.Subjects.GetByIDs(ctx, scope.SubjectIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load area subjects failed", err, "Ocorreu um erro ao carregar os planos da sua área.", "/")
		return
	}

	templates.Render(w, r, "coordinator_dashboard", coordinatorDashboardData{
		BaseVM:       h.baseVM(w, r, "Planos da área"),
		Plans:        planRows(plans),
		AreaSubjects: subjects,
	})
}
