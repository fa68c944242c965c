// internal/app/features/admin/subjects.go
package admin

import (
	"context"
	"net/http"

	subjectstore "github.com/planaula/planaula/internal/app/store/subjects"
	"github.com/planaula/planaula/internal/app/system/flash"
	"github.com/planaula/planaula/internal/app/system/sanitize"
	"github.com/planaula/planaula/internal/app/system/timeouts"
	"github.com/planaula/planaula/internal/app/system/viewdata"
	"github.com/planaula/planaula/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type subjectsPageData struct {
	viewdata.BaseVM
	Subjects []models.Subject
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/subjects                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSubjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	subjects, err := h.Subjects.List(ctx)
	if err != nil {
		h.serverError(w, r, "list subjects failed", err)
		return
	}

	templates.Render(w, r, "admin_subjects", subjectsPageData{
		BaseVM:   viewdata.NewBaseVM(w, r, h.SessionMgr, "Disciplinas", "/admin"),
		Subjects: subjects,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/subjects                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreateSubject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dados do formulário inválidos.", "/admin/subjects")
		return
	}

	name := sanitize.Text(r.FormValue("nome"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	subj, err := h.Subjects.Create(ctx, name)
	switch err {
	case nil:
		h.Log.Info("subject created", zap.String("name", subj.Name))
		flash.Add(h.SessionMgr, w, r, flash.LevelSuccess, "Disciplina cadastrada com sucesso!")
	case subjectstore.ErrDuplicateSubject:
		flash.Add(h.SessionMgr, w, r, flash.LevelDanger, "Já existe uma disciplina com esse nome.")
	case subjectstore.ErrEmptyName:
		flash.Add(h.SessionMgr, w, r, flash.LevelDanger, "Informe o nome da disciplina.")
	default:
		h.serverError(w, r, "create subject failed", err)
		return
	}

	http.Redirect(w, r, "/admin/subjects", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/subjects/delete                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDeleteSubject removes a subject and strips it from every user's
// assignments. Deleting a name that no longer exists is not an error.
func (h *Handler) HandleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dados do formulário inválidos.", "/admin/subjects")
		return
	}

	name := sanitize.Text(r.FormValue("nome"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	deleted, err := h.Subjects.DeleteByName(ctx, name)
	if err != nil {
		h.serverError(w, r, "delete subject failed", err)
		return
	}

	if deleted {
		h.Log.Info("subject deleted", zap.String("name", name))
		flash.Add(h.SessionMgr, w, r, flash.LevelSuccess, "Disciplina removida.")
	}

	http.Redirect(w, r, "/admin/subjects", http.StatusSeeOther)
}
