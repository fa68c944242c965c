// internal/app/policy/planpolicy.go

// Package planpolicy provides authorization policies for lesson plans.
//
// Visibility rules:
//   - The general coordinator reads every plan (but never writes one).
//   - Area coordinators read exactly the plans whose subject is in their
//     assigned area; assignment changes take effect immediately because the
//     session user is refetched per request.
//   - Teachers read exactly the plans they authored, never plans by other
//     teachers, even in the same subject.
//
// Transition authority:
//   - Only an area coordinator whose area contains the plan's subject may
//     approve or reject it. Everyone else, including the plan's author and
//     the general coordinator, has no transition authority.
package planpolicy

import (
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scope describes which plans a user may read. It is a pure value the plan
// store turns into a query filter.
type Scope struct {
	// CanView is false when the user may not list plans at all.
	CanView bool
	// All is true for the general coordinator: every plan is visible.
	All bool
	// AuthorID restricts visibility to a single author (teachers).
	AuthorID primitive.ObjectID
	// SubjectIDs restricts visibility to a set of subjects (coordinators).
	SubjectIDs []primitive.ObjectID
}

// VisibleScope determines the read scope for u. The role switch is
// exhaustive; unknown roles see nothing.
func VisibleScope(u *auth.SessionUser) Scope {
	if u == nil {
		return Scope{}
	}
	switch u.Role {
	case models.RoleGeneral:
		return Scope{CanView: true, All: true}
	case models.RoleArea:
		ids := subjectIDs(u)
		if len(ids) == 0 {
			// A coordinator with no area sees an empty list, not everything.
			return Scope{CanView: true, SubjectIDs: []primitive.ObjectID{}}
		}
		return Scope{CanView: true, SubjectIDs: ids}
	case models.RoleTeacher:
		authorID, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return Scope{}
		}
		return Scope{CanView: true, AuthorID: authorID}
	default:
		return Scope{}
	}
}

// ReviewScope returns the subject set within which u may approve or reject
// plans, and whether u may review at all.
func ReviewScope(u *auth.SessionUser) ([]primitive.ObjectID, bool) {
	if u == nil {
		return nil, false
	}
	switch u.Role {
	case models.RoleArea:
		return subjectIDs(u), true
	case models.RoleGeneral, models.RoleTeacher:
		return nil, false
	default:
		return nil, false
	}
}

// Filter renders the scope as a plans-collection query filter.
// A scope that cannot view yields a filter matching nothing.
func (s Scope) Filter() bson.M {
	switch {
	case !s.CanView:
		return bson.M{"_id": bson.M{"$exists": false}}
	case s.All:
		return bson.M{}
	case !s.AuthorID.IsZero():
		return bson.M{"author_id": s.AuthorID}
	default:
		return bson.M{"subject_id": bson.M{"$in": s.SubjectIDs}}
	}
}

// Contains reports whether a plan with the given author and subject falls
// inside the scope.
func (s Scope) Contains(authorID, subjectID primitive.ObjectID) bool {
	switch {
	case !s.CanView:
		return false
	case s.All:
		return true
	case !s.AuthorID.IsZero():
		return s.AuthorID == authorID
	default:
		for _, id := range s.SubjectIDs {
			if id == subjectID {
				return true
			}
		}
		return false
	}
}

func subjectIDs(u *auth.SessionUser) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(u.SubjectIDs))
	for _, hex := range u.SubjectIDs {
		if oid, err := primitive.ObjectIDFromHex(hex); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
