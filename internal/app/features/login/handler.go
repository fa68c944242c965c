// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/planaula/planaula/internal/app/features/errors"
	loginstore "github.com/planaula/planaula/internal/app/store/logins"
	userstore "github.com/planaula/planaula/internal/app/store/users"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/app/system/flash"
	"github.com/planaula/planaula/internal/app/system/ratelimit"
	"github.com/planaula/planaula/internal/app/system/timeouts"
	"github.com/planaula/planaula/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a throwaway bcrypt hash compared against when the username
// does not exist, so unknown-user and wrong-password attempts take the
// same time.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("planaula-timing-pad"), userstore.BcryptCost)
	if err != nil {
		panic(err)
	}
	return h
}()

type Handler struct {
	Users      *userstore.Store
	Logins     *loginstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Limiter    *ratelimit.LoginLimiter
}

type loginFormData struct {
	viewdata.BaseVM
	Username  string
	ReturnURL string
}

func NewHandler(users *userstore.Store, logins *loginstore.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		Logins:     logins,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in: go straight to the dashboard.
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(w, r, h.SessionMgr, "Login", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dados do formulário inválidos.", "/login")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		h.renderFormWithError(w, r, "Informe usuário e senha.", username)
		return
	}

	if allowed, reason := h.Limiter.Check(r, username); !allowed {
		h.Log.Warn("login rate limited",
			zap.String("username", username),
			zap.String("ip", ratelimit.ClientIP(r)))
		h.renderFormWithError(w, r, reason, username)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	switch err {
	case nil:
		// found, continue
	case mongo.ErrNoDocuments:
		// Same cost as a real comparison; the failure message never says
		// whether the username or the password was wrong.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		h.Logins.RecordFailure(ctx, h.attempt(r, username, "unknown_user"))
		h.renderFormWithError(w, r, "Usuário ou senha inválidos.", username)
		return
	default:
		h.ErrLog.LogServerError(w, r, "user lookup failed", err, "Ocorreu um erro no servidor.", "/login")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		a := h.attempt(r, username, "wrong_password")
		a.UserID = u.ID
		h.Logins.RecordFailure(ctx, a)
		h.renderFormWithError(w, r, "Usuário ou senha inválidos.", username)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Não foi possível iniciar a sessão. Tente novamente.", "/login")
		return
	}

	h.Limiter.ResetUser(username)
	a := h.attempt(r, username, "")
	a.UserID = u.ID
	h.Logins.RecordSuccess(ctx, a)
	h.Log.Info("user signed in",
		zap.String("username", u.Username),
		zap.String("role", string(u.Role)))

	flash.Add(h.SessionMgr, w, r, flash.LevelSuccess, "Login realizado com sucesso!")

	dest := urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) attempt(r *http.Request, username, reason string) loginstore.Attempt {
	return loginstore.Attempt{
		Username:  username,
		Remote:    ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Reason:    reason,
	}
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, username string) {
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	vm := loginFormData{
		BaseVM:    viewdata.NewBaseVM(w, r, h.SessionMgr, "Login", "/"),
		Username:  username,
		ReturnURL: ret,
	}
	vm.SetError(msg)
	templates.Render(w, r, "login", vm)
}
