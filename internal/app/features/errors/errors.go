// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

func currentIdentity(r *http.Request) (role, name string, signedIn bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", false
	}
	return string(u.Role), u.Username, true
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	role, name, signedIn := currentIdentity(r)

	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_forbidden", pageData{
		Title:      "Acesso negado",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    "Você não tem permissão para ver esta página.",
		BackURL:    "/dashboard",
	})
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	role, name, signedIn := currentIdentity(r)

	templates.Render(w, r, "error_forbidden", pageData{
		Title:      "Login necessário",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    "Entre com sua conta para continuar.",
		BackURL:    "/login",
	})
}
