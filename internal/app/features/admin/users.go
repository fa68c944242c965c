// internal/app/features/admin/users.go
package admin

import (
	"context"
	"net/http"
	"strings"

	userstore "github.com/planaula/planaula/internal/app/store/users"
	"github.com/planaula/planaula/internal/app/system/flash"
	"github.com/planaula/planaula/internal/app/system/sanitize"
	"github.com/planaula/planaula/internal/app/system/timeouts"
	"github.com/planaula/planaula/internal/app/system/viewdata"
	"github.com/planaula/planaula/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type userRow struct {
	User        models.User
	RoleLabel   string
	KindLabel   string
	Subjects    []string
	IsProtected bool
}

type usersPageData struct {
	viewdata.BaseVM
	Users []userRow
}

type userFormData struct {
	viewdata.BaseVM
	Subjects []models.Subject

	Username     string
	Role         string
	TeacherKind  string
	TeacherKinds []models.TeacherKind
	Picked       map[string]bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.serverError(w, r, "list users failed", err)
		return
	}

	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		kind := models.AssignmentDiscipline
		if u.Role == models.RoleArea {
			kind = models.AssignmentArea
		}

		var names []string
		if u.Role != models.RoleGeneral {
			links, err := h.Assignments.ListByUser(ctx, u.ID, kind)
			if err != nil {
				h.serverError(w, r, "list assignments failed", err)
				return
			}
			for _, l := range links {
				names = append(names, l.SubjectName)
			}
		}

		rows = append(rows, userRow{
			User:        u,
			RoleLabel:   u.Role.Label(),
			KindLabel:   u.TeacherKind.Label(),
			Subjects:    names,
			IsProtected: u.Role == models.RoleGeneral,
		})
	}

	templates.Render(w, r, "admin_users", usersPageData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Usuários", "/admin"),
		Users:  rows,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users/new                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNewUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	subjects, err := h.Subjects.List(ctx)
	if err != nil {
		h.serverError(w, r, "list subjects failed", err)
		return
	}

	templates.Render(w, r, "admin_user_new", userFormData{
		BaseVM:       viewdata.NewBaseVM(w, r, h.SessionMgr, "Novo usuário", "/admin/users"),
		Subjects:     subjects,
		Role:         string(models.RoleTeacher),
		TeacherKinds: []models.TeacherKind{models.TeacherLead, models.TeacherAssistant},
		Picked:       map[string]bool{},
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/new                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dados do formulário inválidos.", "/admin/users/new")
		return
	}

	username := sanitize.Text(r.FormValue("username"))
	password := r.FormValue("password")
	role, roleOK := models.ParseRole(r.FormValue("role"))
	kind, _ := models.ParseTeacherKind(r.FormValue("tipo_docente"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if !roleOK {
		h.renderUserFormWithError(w, r, username, r.FormValue("role"), r.FormValue("tipo_docente"), r.Form["disciplinas"], `Perfil inválido.`)
		return
	}

	// Resolve the picked subject ids into full documents so the store can
	// denormalize names into the assignment links.
	var picked []models.Subject
	if hexes := r.Form["disciplinas"]; len(hexes) > 0 {
		ids := make([]primitive.ObjectID, 0, len(hexes))
		for _, hex := range hexes {
			if id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex)); err == nil {
				ids = append(ids, id)
			}
		}
		subjects, err := h.Subjects.GetByIDs(ctx, ids)
		if err != nil {
			h.serverError(w, r, "resolve subjects failed", err)
			return
		}
		picked = subjects
	}

	created, err := h.Users.Create(ctx, userstore.CreateInput{
		Username:    username,
		Password:    password,
		Role:        role,
		TeacherKind: kind,
		Subjects:    picked,
	})
	switch err {
	case nil:
		h.Log.Info("user created",
			zap.String("username", created.Username),
			zap.String("role", string(created.Role)))
		flash.Add(h.SessionMgr, w, r, flash.LevelSuccess, "Usuário cadastrado com sucesso!")
		http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
	case userstore.ErrDuplicateUser:
		h.renderUserFormWithError(w, r, username, string(role), string(kind), r.Form["disciplinas"], "Já existe um usuário com esse nome.")
	case userstore.ErrEmptyCredential:
		h.renderUserFormWithError(w, r, username, string(role), string(kind), r.Form["disciplinas"], "Informe usuário e senha.")
	case userstore.ErrInvalidRole:
		h.renderUserFormWithError(w, r, username, string(role), string(kind), r.Form["disciplinas"], "Perfil inválido.")
	default:
		h.serverError(w, r, "create user failed", err)
	}
}

func (h *Handler) renderUserFormWithError(w http.ResponseWriter, r *http.Request, username, role, kind string, pickedHexes []string, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	subjects, err := h.Subjects.List(ctx)
	if err != nil {
		h.serverError(w, r, "list subjects failed", err)
		return
	}

	picked := make(map[string]bool, len(pickedHexes))
	for _, hex := range pickedHexes {
		picked[strings.TrimSpace(hex)] = true
	}

	vm := userFormData{
		BaseVM:       viewdata.NewBaseVM(w, r, h.SessionMgr, "Novo usuário", "/admin/users"),
		Subjects:     subjects,
		Username:     username,
		Role:         role,
		TeacherKind:  kind,
		TeacherKinds: []models.TeacherKind{models.TeacherLead, models.TeacherAssistant},
		Picked:       picked,
	}
	vm.SetError(msg)
	templates.Render(w, r, "admin_user_new", vm)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{username}/delete                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDeleteUser removes an account and its assignments. The general
// coordinator account is protected; unknown usernames are a quiet no-op.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	deleted, err := h.Users.Delete(ctx, username)
	switch err {
	case nil:
		if deleted {
			h.Log.Info("user deleted", zap.String("username", username))
			flash.Add(h.SessionMgr, w, r, flash.LevelSuccess, "Usuário removido.")
		}
	case userstore.ErrProtectedUser:
		flash.Add(h.SessionMgr, w, r, flash.LevelDanger, "A conta da coordenação geral não pode ser removida.")
	default:
		h.serverError(w, r, "delete user failed", err)
		return
	}

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
