// internal/app/features/dashboard/teacher.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/planaula/planaula/internal/app/policy/planpolicy"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/app/system/timeouts"
	"github.com/planaula/planaula/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

type teacherDashboardData struct {
	viewdata.BaseVM
	Plans       []planRow
	TeacherKind string
}

// ServeTeacher lists the teacher's own plans, newest first.
func (h *Handler) ServeTeacher(w http.ResponseWriter, r *http.Request, u *auth.SessionUser) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	plans, err := h.Plans.ListByScope(ctx, planpolicy.VisibleScope(u))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list own plans failed", err, "Ocorreu um erro ao carregar seus planos.", "/")
		return
	}

	templates.Render(w, r, "teacher_dashboard", teacherDashboardData{
		BaseVM:      h.baseVM(w, r, "Meus planos de aula"),
		Plans:       planRows(plans),
		TeacherKind: u.TeacherKind.Label(),
	})
}
