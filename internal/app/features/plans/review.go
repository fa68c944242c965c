// internal/app/features/plans/review.go
package plans

import (
	"context"
	"net/http"

	"github.com/planaula/planaula/internal/app/policy/planpolicy"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/app/system/flash"
	"github.com/planaula/planaula/internal/app/system/timeouts"
	"github.com/planaula/planaula/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /plans/{id}/approve and /plans/{id}/reject                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.StatusApproved, "Plano aprovado!")
}

func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.StatusRejected, "Plano reprovado!")
}

// review applies a decision to a plan. Decisions on plans outside the
// coordinator's area, or on ids that no longer exist, change nothing and
// redirect without complaint; a decision simply overwrites an earlier one.
func (h *Handler) review(w http.ResponseWriter, r *http.Request, to models.PlanStatus, confirmation string) {
	u, _ := auth.CurrentUser(r)

	// The policy, not the route, decides who may transition: anyone
	// without review authority gets the same silent redirect as an
	// out-of-area decision.
	area, canReview := planpolicy.ReviewScope(u)
	if !canReview {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	planID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	applied, err := h.Plans.Transition(ctx, planID, to, area)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "plan transition failed", err, "Ocorreu um erro ao registrar a decisão.", "/dashboard")
		return
	}

	if applied {
		h.Log.Info("plan reviewed",
			zap.String("plan_id", planID.Hex()),
			zap.String("status", string(to)),
			zap.String("reviewer", u.Username))
		flash.Add(h.SessionMgr, w, r, flash.LevelSuccess, confirmation)
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
