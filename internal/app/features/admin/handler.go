// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"net/http"

	uierrors "github.com/planaula/planaula/internal/app/features/errors"
	assignmentstore "github.com/planaula/planaula/internal/app/store/assignments"
	planstore "github.com/planaula/planaula/internal/app/store/plans"
	subjectstore "github.com/planaula/planaula/internal/app/store/subjects"
	userstore "github.com/planaula/planaula/internal/app/store/users"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/app/system/timeouts"
	"github.com/planaula/planaula/internal/app/system/viewdata"
	"github.com/planaula/planaula/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the general coordinator's administration area.
type Handler struct {
	Users       *userstore.Store
	Subjects    *subjectstore.Store
	Assignments *assignmentstore.Store
	Plans       *planstore.Store
	Log         *zap.Logger
	SessionMgr  *auth.SessionManager
	ErrLog      *uierrors.ErrorLogger
}

func NewHandler(users *userstore.Store, subjects *subjectstore.Store, assignments *assignmentstore.Store, plans *planstore.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:       users,
		Subjects:    subjects,
		Assignments: assignments,
		Plans:       plans,
		Log:         logger,
		SessionMgr:  sessionMgr,
		ErrLog:      errLog,
	}
}

type adminHomeData struct {
	viewdata.BaseVM
	UserCount    int64
	SubjectCount int64
	PlanCount    int64
	Submitted    int64
	Approved     int64
	Rejected     int64
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.Count(ctx)
	if err != nil {
		h.serverError(w, r, "count users failed", err)
		return
	}
	subjects, err := h.Subjects.Count(ctx)
	if err != nil {
		h.serverError(w, r, "count subjects failed", err)
		return
	}
	planTotal, err := h.Plans.Count(ctx)
	if err != nil {
		h.serverError(w, r, "count plans failed", err)
		return
	}
	byStatus, err := h.Plans.CountByStatus(ctx)
	if err != nil {
		h.serverError(w, r, "count plans by status failed", err)
		return
	}

	templates.Render(w, r, "admin_home", adminHomeData{
		BaseVM:       viewdata.NewBaseVM(w, r, h.SessionMgr, "Administração", "/dashboard"),
		UserCount:    users,
		SubjectCount: subjects,
		PlanCount:    planTotal,
		Submitted:    byStatus[models.StatusSubmitted],
		Approved:     byStatus[models.StatusApproved],
		Rejected:     byStatus[models.StatusRejected],
	})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, what string, err error) {
	h.ErrLog.LogServerError(w, r, what, err, "Ocorreu um erro no servidor.", "/admin")
}
