// internal/app/system/viewdata/viewdata.go

// Package viewdata provides the BaseVM embedded in every page view model.
package viewdata

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/app/system/flash"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(w, r, sm, "Page Title", "/dashboard"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	RoleLabel  string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string

	// One-shot notices, popped from the session when the VM is built.
	Notices []flash.Notice

	// Form error, set by handlers that re-render after validation failures.
	Error template.HTML
}

// SiteName is the fixed display name for the institution portal.
const SiteName = "Planaula"

// NewBaseVM creates a fully populated BaseVM for a page. Popping the flash
// notices mutates the session, which is why it takes the ResponseWriter.
func NewBaseVM(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = strings.ToLower(string(u.Role))
		vm.RoleLabel = u.Role.Label()
		vm.UserName = u.Username
	}

	if sm != nil {
		vm.Notices = flash.Pop(sm, w, r)
	}
	return vm
}

// SetError sets the form error message on the view model.
func (b *BaseVM) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}
