// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	uierrors "github.com/planaula/planaula/internal/app/features/errors"
	planstore "github.com/planaula/planaula/internal/app/store/plans"
	subjectstore "github.com/planaula/planaula/internal/app/store/subjects"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/app/system/viewdata"
	"github.com/planaula/planaula/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Plans      *planstore.Store
	Subjects   *subjectstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(plans *planstore.Store, subjects *subjectstore.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Plans:      plans,
		Subjects:   subjects,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
	}
}

// planRow is one rendered plan with its display labels resolved.
type planRow struct {
	Plan        models.LessonPlan
	StatusLabel string
}

func planRows(plans []models.LessonPlan) []planRow {
	rows := make([]planRow, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, planRow{Plan: p, StatusLabel: p.Status.Label()})
	}
	return rows
}

// ServeDashboard dispatches to the role-specific view.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch u.Role {
	case models.RoleTeacher:
		h.ServeTeacher(w, r, u)
	case models.RoleArea:
		h.ServeCoordinator(w, r, u)
	case models.RoleGeneral:
		h.ServeGeneral(w, r, u)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h *Handler) baseVM(w http.ResponseWriter, r *http.Request, title string) viewdata.BaseVM {
	return viewdata.NewBaseVM(w, r, h.SessionMgr, title, "/dashboard")
}
