package login_test

import (
	"net/http"
	"net/url"
	"testing"

	uierrors "github.com/planaula/planaula/internal/app/features/errors"
	"github.com/planaula/planaula/internal/app/features/login"
	loginstore "github.com/planaula/planaula/internal/app/store/logins"
	userstore "github.com/planaula/planaula/internal/app/store/users"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	handler := login.NewHandler(
		userstore.New(db, logger),
		loginstore.New(db, logger),
		sessionMgr,
		uierrors.NewErrorLogger(logger),
		logger,
	)
	return handler, testutil.NewFixtures(t, db)
}

func hasSessionCookie(rec *testutil.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.Value != "" {
			return true
		}
	}
	return false
}

func TestHandleLoginPost_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Fixture users authenticate with "password123".
	fixtures.CreateGeneralCoordinator(ctx, "cgpg")

	req := testutil.NewFormRequest("/login", url.Values{
		"username": {"cgpg"},
		"password": {"password123"},
	})
	rec := testutil.NewRecorder()
	handler.HandleLoginPost(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/dashboard")
	if !hasSessionCookie(rec) {
		t.Error("expected session cookie to be set")
	}

	// A success record was written.
	n, err := fixtures.DB().Collection("login_records").CountDocuments(ctx, bson.M{"username": "cgpg", "success": true})
	if err != nil {
		t.Fatalf("counting login records: %v", err)
	}
	if n != 1 {
		t.Errorf("success records: got %d, want 1", n)
	}
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGeneralCoordinator(ctx, "cgpg")

	req := testutil.NewFormRequest("/login", url.Values{
		"username": {"cgpg"},
		"password": {"password123"},
		"return":   {"/admin"},
	})
	rec := testutil.NewRecorder()
	handler.HandleLoginPost(rec, req)

	rec.AssertRedirect(t, "/admin")
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGeneralCoordinator(ctx, "cgpg")

	req := testutil.NewFormRequest("/login", url.Values{
		"username": {"cgpg"},
		"password": {"wrong-password"},
	})
	rec := testutil.NewRecorder()

	// Handler will try to render a template which will panic without
	// initialized templates
	func() {
		defer func() { recover() }()
		handler.HandleLoginPost(rec, req)
	}()

	if hasSessionCookie(rec) {
		t.Error("session cookie should not be set for wrong password")
	}

	var record loginstore.Record
	err := fixtures.DB().Collection("login_records").
		FindOne(ctx, bson.M{"username": "cgpg", "success": false}).Decode(&record)
	if err != nil {
		t.Fatalf("failure record lookup: %v", err)
	}
	if record.Reason != "wrong_password" {
		t.Errorf("reason: got %q, want wrong_password", record.Reason)
	}
	if record.UserID.IsZero() {
		t.Error("failure record for a known user should carry the user id")
	}
}

func TestHandleLoginPost_UnknownUsername(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewFormRequest("/login", url.Values{
		"username": {"ghost"},
		"password": {"whatever"},
	})
	rec := testutil.NewRecorder()

	func() {
		defer func() { recover() }()
		handler.HandleLoginPost(rec, req)
	}()

	if hasSessionCookie(rec) {
		t.Error("session cookie should not be set for unknown user")
	}
}

func TestHandleLoginPost_BlankCredentials(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewFormRequest("/login", url.Values{
		"username": {"   "},
		"password": {""},
	})
	rec := testutil.NewRecorder()

	func() {
		defer func() { recover() }()
		handler.HandleLoginPost(rec, req)
	}()

	if hasSessionCookie(rec) {
		t.Error("session cookie should not be set for blank credentials")
	}
}

func TestHandleLoginPost_ExternalReturnURLIgnored(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGeneralCoordinator(ctx, "cgpg")

	req := testutil.NewFormRequest("/login", url.Values{
		"username": {"cgpg"},
		"password": {"password123"},
		"return":   {"https://evil.example.com/phish"},
	})
	rec := testutil.NewRecorder()
	handler.HandleLoginPost(rec, req)

	// Off-site return targets fall back to the dashboard.
	rec.AssertRedirect(t, "/dashboard")
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGeneralCoordinator(ctx, "cgpg")

	// The per-username window allows five attempts; the sixth is blocked
	// before the password is even checked, so no failure record is written
	// for it.
	for i := 0; i < 6; i++ {
		req := testutil.NewFormRequest("/login", url.Values{
			"username": {"cgpg"},
			"password": {"wrong-password"},
		})
		rec := testutil.NewRecorder()
		func() {
			defer func() { recover() }()
			handler.HandleLoginPost(rec, req)
		}()
	}

	n, err := fixtures.DB().Collection("login_records").CountDocuments(ctx, bson.M{"username": "cgpg", "success": false})
	if err != nil {
		t.Fatalf("counting login records: %v", err)
	}
	if n != 5 {
		t.Errorf("failure records: got %d, want 5", n)
	}

	// A correct password while limited is still refused.
	req := testutil.NewFormRequest("/login", url.Values{
		"username": {"cgpg"},
		"password": {"password123"},
	})
	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }()
		handler.HandleLoginPost(rec, req)
	}()
	if hasSessionCookie(rec) {
		t.Error("session cookie should not be set while rate limited")
	}
}
