// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/planaula/planaula/internal/domain/models"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User model                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the per-request identity injected into r.Context().
// Only the user id lives in the cookie; everything else is refetched from
// the directory on each request so role and assignment changes take effect
// immediately.
type SessionUser struct {
	ID          string
	Username    string
	Role        models.Role
	TeacherKind models.TeacherKind

	// SubjectIDs holds the hex ids of the user's assigned subjects:
	// the area for coordinators, the disciplines for teachers.
	// Empty for the general coordinator.
	SubjectIDs []string
}

// UserFetcher loads fresh user data for a session's user id.
// Implementations return nil when the user no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithUser returns a shallow copy of r carrying u in its context.
// The LoadSessionUser middleware uses this; tests use it to simulate an
// authenticated request without a cookie round-trip.
func WithUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and the auth middleware chain.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	log     *zap.Logger
	fetcher UserFetcher
}

// NewSessionManager initializes the cookie store with the provided signing
// key and cookie settings. The secure flag controls Secure cookies and the
// SameSite mode: prod uses Secure + SameSite=Lax, local dev over http needs
// secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide 32+ random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Store exposes the underlying cookie store (logout needs its Options to
// emit a matching deletion cookie).
func (m *SessionManager) Store() *sessions.CookieStore { return m.store }

// SetUserFetcher wires the directory lookup used by LoadSessionUser.
func (m *SessionManager) SetUserFetcher(f UserFetcher) { m.fetcher = f }

// GetSession returns the request's session, creating a fresh one when the
// cookie is absent or fails to decode. The error is the decode error, if
// any; the returned session is always usable.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return m.store.Get(r, m.name)
}

// SignIn marks the session authenticated for the given user id.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, err := m.GetSession(r)
	if err != nil {
		// Stale or tampered cookie; continue with the fresh session. A
		// decode failure is routine after a key rotation, anything else
		// deserves a louder log line.
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			m.log.Error("session store error during sign-in, using fresh session", zap.Error(err))
		}
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// SignOut clears the session by expiring the cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.GetSession(r)
	if err != nil {
		m.log.Warn("session decode failed during logout", zap.Error(err))
	}

	// Ensure the deletion-cookie matches the original store settings.
	if opts := m.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1 // delete immediately

	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser injects the user into context if they are logged in.
// The fetcher reloads the user from the directory on every request, so a
// deleted account or a changed role/assignment set is picked up without
// waiting for the cookie to expire.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.store.Get(r, m.name)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth && m.fetcher != nil {
			if id, _ := sess.Values[userIDKey].(string); id != "" {
				if u := m.fetcher.FetchUser(r.Context(), id); u != nil {
					r = WithUser(r, u)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser). Anonymous requests are redirected to /login with a
// return parameter preserving the original destination.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		ret := url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
	})
}

// RequireRole ensures the current user holds one of the allowed roles.
// Anonymous requests get the login redirect; an authenticated user with the
// wrong role gets a hard 403 page, never a redirect.
func (m *SessionManager) RequireRole(allowed ...models.Role) func(http.Handler) http.Handler {
	set := make(map[models.Role]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				ret := url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
				return
			}
			if _, has := set[u.Role]; !has {
				m.log.Warn("role check failed",
					zap.String("username", u.Username),
					zap.String("role", string(u.Role)),
					zap.String("path", r.URL.Path))
				RenderForbidden(w, r, "Você não tem permissão para acessar esta área.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| 403 rendering                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type forbiddenData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
}

// RenderForbidden writes a 403 and renders the access-denied page. It lives
// here (rather than in the errors feature) so middleware can use it without
// an import cycle; the errors feature registers the template.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	role, name := "", ""
	u, signed := CurrentUser(r)
	if signed {
		role, name = strings.ToLower(string(u.Role)), u.Username
	}

	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_forbidden", forbiddenData{
		Title:      "Acesso negado",
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    "/dashboard",
	})
}
