package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionUserFor builds the session view of a stored user, with the given
// subject ids in scope.
func SessionUserFor(u models.User, subjects ...models.Subject) *auth.SessionUser {
	su := &auth.SessionUser{
		ID:          u.ID.Hex(),
		Username:    u.Username,
		Role:        u.Role,
		TeacherKind: u.TeacherKind,
	}
	for _, subj := range subjects {
		su.SubjectIDs = append(su.SubjectIDs, subj.ID.Hex())
	}
	return su
}

// GeneralUser returns a session user with the general coordinator role.
func GeneralUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:       primitive.NewObjectID().Hex(),
		Username: "cgpg",
		Role:     models.RoleGeneral,
	}
}

// AreaUser returns a session user with the area coordinator role, scoped
// to the given subjects.
func AreaUser(subjects ...models.Subject) *auth.SessionUser {
	su := &auth.SessionUser{
		ID:       primitive.NewObjectID().Hex(),
		Username: "coordenador",
		Role:     models.RoleArea,
	}
	for _, subj := range subjects {
		su.SubjectIDs = append(su.SubjectIDs, subj.ID.Hex())
	}
	return su
}

// TeacherUser returns a session user with the teacher role, holding
// discipline links to the given subjects.
func TeacherUser(subjects ...models.Subject) *auth.SessionUser {
	su := &auth.SessionUser{
		ID:          primitive.NewObjectID().Hex(),
		Username:    "docente",
		Role:        models.RoleTeacher,
		TeacherKind: models.TeacherLead,
	}
	for _, subj := range subjects {
		su.SubjectIDs = append(su.SubjectIDs, subj.ID.Hex())
	}
	return su
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a session user in
// context, bypassing the session middleware.
func NewAuthenticatedRequest(method, target string, user *auth.SessionUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return auth.WithUser(req, user)
}

// NewFormRequest creates a POST request with form-encoded values and the
// right content type.
func NewFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t interface{ Errorf(string, ...any) }, expectedLocation string) {
	if r.Code != http.StatusSeeOther && r.Code != http.StatusFound && r.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect status, got %d", r.Code)
	}
	location := r.Header().Get("Location")
	if location != expectedLocation {
		t.Errorf("redirect location: got %q, want %q", location, expectedLocation)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
