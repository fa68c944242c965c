// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/planaula/planaula/internal/app/system/auth"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ServeHome handles GET /. Signed-in users land on their dashboard;
// everyone else starts at the login form.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
