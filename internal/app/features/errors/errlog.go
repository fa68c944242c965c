// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger couples structured logging with user-facing error pages so
// handlers fail in one line instead of repeating log-then-render.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: log}
}

// LogServerError logs an internal failure and renders a 500 page with a
// generic message. The real error never reaches the response body.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.Log.Error(what,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	e.render(w, r, http.StatusInternalServerError, "Erro no servidor", userMsg, backURL)
}

// LogBadRequest logs a malformed request and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.Log.Warn(what,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	e.render(w, r, http.StatusBadRequest, "Requisição inválida", userMsg, backURL)
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	role, name, signedIn := "", "", false
	if u, ok := auth.CurrentUser(r); ok {
		role, name, signedIn = string(u.Role), u.Username, true
	}
	if backURL == "" {
		backURL = "/"
	}

	w.WriteHeader(status)
	templates.Render(w, r, "error_message", pageData{
		Title:      title,
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	})
}
