// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is the closed set of capabilities gated by role.
type Action string

const (
	// ActionSubmitPlan creates a lesson plan.
	ActionSubmitPlan Action = "submit_plan"

	// ActionReviewPlan approves or rejects a lesson plan.
	ActionReviewPlan Action = "review_plan"

	// ActionViewAllPlans reads every plan regardless of author or subject.
	ActionViewAllPlans Action = "view_all_plans"

	// ActionManageSubjects creates and deletes curricular subjects.
	ActionManageSubjects Action = "manage_subjects"

	// ActionManageUsers creates and deletes user accounts.
	ActionManageUsers Action = "manage_users"

	// ActionViewAdminStats reads aggregate user/subject/plan counts.
	ActionViewAdminStats Action = "view_admin_stats"
)

// Can is the role/action capability table. The general coordinator holds
// every administrative action plus global plan read access but can neither
// submit nor review plans; area coordinators only review; teachers only
// submit. Both switches are exhaustive so a new role or action forces a
// review here.
func Can(role models.Role, a Action) bool {
	switch role {
	case models.RoleGeneral:
		switch a {
		case ActionManageSubjects, ActionManageUsers, ActionViewAdminStats, ActionViewAllPlans:
			return true
		case ActionSubmitPlan, ActionReviewPlan:
			return false
		default:
			return false
		}
	case models.RoleArea:
		switch a {
		case ActionReviewPlan:
			return true
		case ActionSubmitPlan, ActionViewAllPlans, ActionManageSubjects, ActionManageUsers, ActionViewAdminStats:
			return false
		default:
			return false
		}
	case models.RoleTeacher:
		switch a {
		case ActionSubmitPlan:
			return true
		case ActionReviewPlan, ActionViewAllPlans, ActionManageSubjects, ActionManageUsers, ActionViewAdminStats:
			return false
		default:
			return false
		}
	default:
		return false
	}
}

// UserCtx returns the user's role, username, Mongo ObjectID, and a found
// flag. If no user is present in context or the user id is malformed, it
// returns zero values and false, so ok=true means a valid, authenticated
// user with a valid ObjectID.
func UserCtx(r *http.Request) (role models.Role, username string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user id in session, fail closed.
		return "", "", primitive.NilObjectID, false
	}
	return user.Role, user.Username, userID, true
}

// UserSubjectIDs returns the current user's assigned subject ids (the area
// for coordinators, the disciplines for teachers). Malformed entries are
// skipped.
func UserSubjectIDs(r *http.Request) []primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || len(user.SubjectIDs) == 0 {
		return nil
	}
	out := make([]primitive.ObjectID, 0, len(user.SubjectIDs))
	for _, hex := range user.SubjectIDs {
		if oid, err := primitive.ObjectIDFromHex(hex); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

// CanAccessSubject reports whether the current user's assignment set
// contains the given subject.
func CanAccessSubject(r *http.Request, subjectID primitive.ObjectID) bool {
	for _, id := range UserSubjectIDs(r) {
		if id == subjectID {
			return true
		}
	}
	return false
}
