// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/planaula/planaula/internal/app/features/admin"
	dashboardfeature "github.com/planaula/planaula/internal/app/features/dashboard"
	errorsfeature "github.com/planaula/planaula/internal/app/features/errors"
	healthfeature "github.com/planaula/planaula/internal/app/features/health"
	homefeature "github.com/planaula/planaula/internal/app/features/home"
	loginfeature "github.com/planaula/planaula/internal/app/features/login"
	logoutfeature "github.com/planaula/planaula/internal/app/features/logout"
	plansfeature "github.com/planaula/planaula/internal/app/features/plans"
	assignmentstore "github.com/planaula/planaula/internal/app/store/assignments"
	loginstore "github.com/planaula/planaula/internal/app/store/logins"
	planstore "github.com/planaula/planaula/internal/app/store/plans"
	subjectstore "github.com/planaula/planaula/internal/app/store/subjects"
	userstore "github.com/planaula/planaula/internal/app/store/users"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It creates the session manager, boots
// the template engine, builds the stores once, and mounts every feature
// router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// The fetcher reloads the user from the database on every request, so
	// role and assignment changes take effect without waiting for the
	// cookie to expire.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	// Initialize and boot the template engine once at startup. Dev mode
	// enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	// Stores shared by the feature handlers.
	users := userstore.New(deps.MongoDatabase, logger)
	subjects := subjectstore.New(deps.MongoDatabase, logger)
	assignments := assignmentstore.New(deps.MongoDatabase)
	plans := planstore.New(deps.MongoDatabase)
	logins := loginstore.New(deps.MongoDatabase, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the SessionUser into context if logged
	// in, making the current user available via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Every form in the app carries the gorilla/csrf token.
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrf.Secure(secure), csrf.Path("/")))

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli).
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler()
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, logins, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Role-based dashboards
	dashboardHandler := dashboardfeature.NewHandler(plans, subjects, sessionMgr, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Lesson plan submission and review
	plansHandler := plansfeature.NewHandler(plans, subjects, sessionMgr, errLog, logger)
	r.Mount("/plans", plansfeature.Routes(plansHandler, sessionMgr))

	// Administration (general coordinator only)
	adminHandler := adminfeature.NewHandler(users, subjects, assignments, plans, sessionMgr, errLog, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

	return r, nil
}
