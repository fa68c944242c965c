package dashboard_test

import (
	"testing"

	uierrors "github.com/planaula/planaula/internal/app/features/errors"
	"github.com/planaula/planaula/internal/app/features/dashboard"
	planstore "github.com/planaula/planaula/internal/app/store/plans"
	subjectstore "github.com/planaula/planaula/internal/app/store/subjects"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/domain/models"
	"github.com/planaula/planaula/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*dashboard.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	handler := dashboard.NewHandler(
		planstore.New(db),
		subjectstore.New(db, logger),
		sessionMgr,
		uierrors.NewErrorLogger(logger),
		logger,
	)
	return handler, testutil.NewFixtures(t, db)
}

func TestServeDashboard_Unauthenticated(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/dashboard")
	rec := testutil.NewRecorder()
	handler.ServeDashboard(rec, req)

	rec.AssertRedirect(t, "/")
}

func TestServeDashboard_UnknownRole(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest("GET", "/dashboard", &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Role: models.Role("unknown_role"),
	})
	rec := testutil.NewRecorder()
	handler.ServeDashboard(rec, req)

	rec.AssertRedirect(t, "/")
}

func TestServeDashboard_RoleDispatch(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	math := fixtures.CreateSubject(ctx, "Matemática")
	teacher := fixtures.CreateTeacher(ctx, "maria", math)
	fixtures.CreatePlan(ctx, teacher, math)

	users := []*auth.SessionUser{
		testutil.SessionUserFor(teacher, math),
		testutil.AreaUser(math),
		testutil.GeneralUser(),
	}

	for _, u := range users {
		req := testutil.NewAuthenticatedRequest("GET", "/dashboard", u)
		rec := testutil.NewRecorder()

		// Handler will try to render a template which may panic without
		// initialized templates
		func() {
			defer func() { recover() }()
			handler.ServeDashboard(rec, req)
		}()

		// The role views never redirect; a redirect would mean the
		// dispatch fell through.
		if loc := rec.Header().Get("Location"); loc != "" {
			t.Errorf("role %s: unexpected redirect to %q", u.Role, loc)
		}
	}
}
