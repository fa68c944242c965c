// internal/app/features/dashboard/general.go
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

type generalDashboardData struct {
	viewdata.BaseVM
	Plans     []planRow
	Submitted int64
	Approved  int64
	Rejected  int64
}

// ServeGeneral shows every plan in the school plus status totals.
func (h *Handler) ServeGeneral(w http.ResponseWriter, r *http.Request, u *auth.SessionUser) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	plans, err := h.Plans.ListByScope(ctx, planpolicy.VisibleScope(u))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list all plans failed", err, "Ocorreu um erro ao carregar os planos.", "/")
		return
	}

	counts, err := h.Plans.CountByStatus(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count plans failed", err, "Ocorreu um erro ao carregar os planos.", "/")
		return
	}

	templates.Render(w, r, "general_dashboard", generalDashboardData{
		BaseVM:    h.baseVM(w, r, "Todos os planos"),
		Plans:     planRows(plans),
		Submitted: counts[models.StatusSubmitted],
		Approved:  counts[models.StatusApproved],
		Rejected:  counts[models.StatusRejected],
	})
}
