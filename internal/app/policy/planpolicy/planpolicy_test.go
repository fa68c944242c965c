package planpolicy

import (
	"testing"

	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sessionUser(role models.Role, subjects ...primitive.ObjectID) *auth.SessionUser {
	u := &auth.SessionUser{
		ID:       primitive.NewObjectID().Hex(),
		Username: "u",
		Role:     role,
	}
	for _, s := range subjects {
		u.SubjectIDs = append(u.SubjectIDs, s.Hex())
	}
	return u
}

func TestVisibleScope_General(t *testing.T) {
	s := VisibleScope(sessionUser(models.RoleGeneral))
	if !s.CanView || !s.All {
		t.Fatalf("general scope = %+v, want CanView && All", s)
	}
	if len(s.Filter()) != 0 {
		t.Errorf("general filter should be empty, got %v", s.Filter())
	}
}

func TestVisibleScope_TeacherOwnPlansOnly(t *testing.T) {
	u := sessionUser(models.RoleTeacher)
	s := VisibleScope(u)
	if !s.CanView || s.All {
		t.Fatalf("teacher scope = %+v", s)
	}

	self, _ := primitive.ObjectIDFromHex(u.ID)
	other := primitive.NewObjectID()
	subject := primitive.NewObjectID()

	if !s.Contains(self, subject) {
		t.Error("teacher should see own plan")
	}
	if s.Contains(other, subject) {
		t.Error("teacher must not see another author's plan, even same subject")
	}
}

func TestVisibleScope_CoordinatorSubjects(t *testing.T) {
	math := primitive.NewObjectID()
	physics := primitive.NewObjectID()
	chemistry := primitive.NewObjectID()

	s := VisibleScope(sessionUser(models.RoleArea, math, physics))
	author := primitive.NewObjectID()

	if !s.Contains(author, math) || !s.Contains(author, physics) {
		t.Error("coordinator should see plans in assigned subjects")
	}
	if s.Contains(author, chemistry) {
		t.Error("coordinator must not see plans outside assigned subjects")
	}
}

func TestVisibleScope_CoordinatorWithoutAreaSeesNothing(t *testing.T) {
	s := VisibleScope(sessionUser(models.RoleArea))
	if !s.CanView {
		t.Fatal("coordinator may still open the listing")
	}
	if s.Contains(primitive.NewObjectID(), primitive.NewObjectID()) {
		t.Error("empty area must match no plans")
	}
}

func TestVisibleScope_Anonymous(t *testing.T) {
	s := VisibleScope(nil)
	if s.CanView {
		t.Error("nil user must not view plans")
	}
	if s.Contains(primitive.NewObjectID(), primitive.NewObjectID()) {
		t.Error("nil user scope must match nothing")
	}
}

func TestReviewScope(t *testing.T) {
	math := primitive.NewObjectID()

	if _, ok := ReviewScope(sessionUser(models.RoleGeneral)); ok {
		t.Error("general coordinator must not review plans")
	}
	if _, ok := ReviewScope(sessionUser(models.RoleTeacher)); ok {
		t.Error("teacher must not review plans")
	}

	ids, ok := ReviewScope(sessionUser(models.RoleArea, math))
	if !ok || len(ids) != 1 || ids[0] != math {
		t.Errorf("area review scope = %v, %v", ids, ok)
	}
}
