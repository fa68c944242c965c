package admin_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/planaula/planaula/internal/app/features/admin"
	uierrors "github.com/planaula/planaula/internal/app/features/errors"
	assignmentstore "github.com/planaula/planaula/internal/app/store/assignments"
	planstore "github.com/planaula/planaula/internal/app/store/plans"
	subjectstore "github.com/planaula/planaula/internal/app/store/subjects"
	userstore "github.com/planaula/planaula/internal/app/store/users"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*admin.Handler, *testutil.Fixtures, *auth.SessionManager) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	handler := admin.NewHandler(
		userstore.New(db, logger),
		subjectstore.New(db, logger),
		assignmentstore.New(db),
		planstore.New(db),
		sessionMgr,
		uierrors.NewErrorLogger(logger),
		logger,
	)
	return handler, testutil.NewFixtures(t, db), sessionMgr
}

func TestHandleCreateSubject_Success(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewFormRequest("/admin/subjects", url.Values{"nome": {"  Química  "}})
	req = auth.WithUser(req, testutil.GeneralUser())
	rec := testutil.NewRecorder()
	handler.HandleCreateSubject(rec, req)

	rec.AssertRedirect(t, "/admin/subjects")

	n, err := fixtures.DB().Collection("subjects").CountDocuments(ctx, bson.M{"name": "Química"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("subjects stored: got %d, want 1", n)
	}
}

func TestHandleCreateSubject_Duplicate(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateSubject(ctx, "Química")

	// Case-insensitive duplicate redirects back with a danger flash rather
	// than erroring; nothing new is stored.
	req := testutil.NewFormRequest("/admin/subjects", url.Values{"nome": {"QUÍMICA"}})
	req = auth.WithUser(req, testutil.GeneralUser())
	rec := testutil.NewRecorder()
	handler.HandleCreateSubject(rec, req)

	rec.AssertRedirect(t, "/admin/subjects")

	n, err := fixtures.DB().Collection("subjects").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("subjects stored: got %d, want 1", n)
	}
}

func TestHandleDeleteSubject_CascadesAssignments(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	physics := fixtures.CreateSubject(ctx, "Física")
	fixtures.CreateTeacher(ctx, "maria", physics)
	fixtures.CreateAreaCoordinator(ctx, "carlos", physics)

	req := testutil.NewFormRequest("/admin/subjects/delete", url.Values{"nome": {"Física"}})
	req = auth.WithUser(req, testutil.GeneralUser())
	rec := testutil.NewRecorder()
	handler.HandleDeleteSubject(rec, req)

	rec.AssertRedirect(t, "/admin/subjects")

	links, err := fixtures.DB().Collection("subject_assignments").CountDocuments(ctx, bson.M{"subject_id": physics.ID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if links != 0 {
		t.Errorf("assignments remaining: got %d, want 0", links)
	}
}

func TestHandleDeleteSubject_UnknownIsNoOp(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := testutil.NewFormRequest("/admin/subjects/delete", url.Values{"nome": {"Alquimia"}})
	req = auth.WithUser(req, testutil.GeneralUser())
	rec := testutil.NewRecorder()
	handler.HandleDeleteSubject(rec, req)

	rec.AssertRedirect(t, "/admin/subjects")
}

func TestHandleCreateUser_TeacherWithSubjects(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	physics := fixtures.CreateSubject(ctx, "Física")
	math := fixtures.CreateSubject(ctx, "Matemática")

	form := url.Values{
		"username":     {"joana"},
		"password":     {"senha-segura"},
		"role":         {"teacher"},
		"tipo_docente": {"lead"},
		"disciplinas":  {physics.ID.Hex(), math.ID.Hex()},
	}
	req := testutil.NewFormRequest("/admin/users/new", form)
	req = auth.WithUser(req, testutil.GeneralUser())
	rec := testutil.NewRecorder()
	handler.HandleCreateUser(rec, req)

	rec.AssertRedirect(t, "/admin/users")

	var user struct {
		ID   interface{} `bson:"_id"`
		Role string      `bson:"role"`
		Kind string      `bson:"teacher_kind"`
	}
	if err := fixtures.DB().Collection("users").FindOne(ctx, bson.M{"username": "joana"}).Decode(&user); err != nil {
		t.Fatalf("user lookup failed: %v", err)
	}
	if user.Role != "teacher" {
		t.Errorf("role: got %q, want teacher", user.Role)
	}
	if user.Kind != "lead" {
		t.Errorf("teacher kind: got %q, want lead", user.Kind)
	}

	links, err := fixtures.DB().Collection("subject_assignments").
		CountDocuments(ctx, bson.M{"user_id": user.ID, "kind": "discipline"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if links != 2 {
		t.Errorf("discipline links: got %d, want 2", links)
	}
}

func TestHandleCreateUser_AreaCoordinator(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	physics := fixtures.CreateSubject(ctx, "Física")

	form := url.Values{
		"username":    {"carlos"},
		"password":    {"senha-segura"},
		"role":        {"area"},
		"disciplinas": {physics.ID.Hex()},
	}
	req := testutil.NewFormRequest("/admin/users/new", form)
	req = auth.WithUser(req, testutil.GeneralUser())
	rec := testutil.NewRecorder()
	handler.HandleCreateUser(rec, req)

	rec.AssertRedirect(t, "/admin/users")

	links, err := fixtures.DB().Collection("subject_assignments").CountDocuments(ctx, bson.M{"kind": "area"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if links != 1 {
		t.Errorf("area links: got %d, want 1", links)
	}
}

func TestHandleCreateUser_DuplicateUsername(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	physics := fixtures.CreateSubject(ctx, "Física")
	fixtures.CreateTeacher(ctx, "maria", physics)

	form := url.Values{
		"username":     {"maria"},
		"password":     {"senha-segura"},
		"role":         {"teacher"},
		"tipo_docente": {"lead"},
	}
	req := testutil.NewFormRequest("/admin/users/new", form)
	req = auth.WithUser(req, testutil.GeneralUser())
	rec := testutil.NewRecorder()

	// The duplicate path re-renders the form, which panics without a booted
	// template engine. The store side effect is what matters here.
	func() {
		defer func() { _ = recover() }()
		handler.HandleCreateUser(rec, req)
	}()

	n, err := fixtures.DB().Collection("users").CountDocuments(ctx, bson.M{"username": "maria"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("users named maria: got %d, want 1", n)
	}
}

func TestHandleDeleteUser_Success(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	physics := fixtures.CreateSubject(ctx, "Física")
	teacher := fixtures.CreateTeacher(ctx, "maria", physics)

	req := testutil.NewFormRequest("/admin/users/maria/delete", url.Values{})
	req = testutil.WithChiURLParam(req, "username", "maria")
	req = auth.WithUser(req, testutil.GeneralUser())
	rec := testutil.NewRecorder()
	handler.HandleDeleteUser(rec, req)

	rec.AssertRedirect(t, "/admin/users")

	users, err := fixtures.DB().Collection("users").CountDocuments(ctx, bson.M{"username": "maria"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if users != 0 {
		t.Errorf("users remaining: got %d, want 0", users)
	}
	links, err := fixtures.DB().Collection("subject_assignments").CountDocuments(ctx, bson.M{"user_id": teacher.ID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if links != 0 {
		t.Errorf("assignments remaining: got %d, want 0", links)
	}
}

func TestHandleDeleteUser_ProtectedAccount(t *testing.T) {
	handler, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGeneralCoordinator(ctx, "cgpg")

	req := testutil.NewFormRequest("/admin/users/cgpg/delete", url.Values{})
	req = testutil.WithChiURLParam(req, "username", "cgpg")
	req = auth.WithUser(req, testutil.GeneralUser())
	rec := testutil.NewRecorder()
	handler.HandleDeleteUser(rec, req)

	rec.AssertRedirect(t, "/admin/users")

	n, err := fixtures.DB().Collection("users").CountDocuments(ctx, bson.M{"username": "cgpg"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("general coordinator count: got %d, want 1", n)
	}
}

func TestRoutes_NonGeneralRoleForbidden(t *testing.T) {
	handler, fixtures, sessionMgr := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	physics := fixtures.CreateSubject(ctx, "Física")
	router := admin.Routes(handler, sessionMgr)

	for _, user := range []*auth.SessionUser{
		testutil.TeacherUser(physics),
		testutil.AreaUser(physics),
	} {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", user)
		rec := testutil.NewRecorder()

		// RenderForbidden writes the 403 before rendering, so the status is
		// observable even though the template engine is not booted.
		func() {
			defer func() { _ = recover() }()
			router.ServeHTTP(rec, req)
		}()

		rec.AssertStatus(t, http.StatusForbidden)
	}
}

func TestRoutes_AnonymousRedirectsToLogin(t *testing.T) {
	handler, _, sessionMgr := newTestHandler(t)

	router := admin.Routes(handler, sessionMgr)
	req := testutil.NewRequest(http.MethodGet, "/users")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertRedirect(t, "/login?return=%2Fusers")
}
