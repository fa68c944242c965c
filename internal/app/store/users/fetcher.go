// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Fetcher loads the signed-in user fresh on every request, so role and
// assignment changes take effect without re-login.
type Fetcher struct {
	users *mongo.Collection
	links *mongo.Collection
	log   *zap.Logger
}

func NewFetcher(db *mongo.Database, log *zap.Logger) *Fetcher {
	return &Fetcher{
		users: db.Collection("users"),
		links: db.Collection("subject_assignments"),
		log:   log,
	}
}

// FetchUser implements auth.UserFetcher. A nil return invalidates the
// session (deleted account, malformed id).
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	var u models.User
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if err != mongo.ErrNoDocuments {
			f.log.Warn("session user fetch failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}

	su := &auth.SessionUser{
		ID:          u.ID.Hex(),
		Username:    u.Username,
		Role:        u.Role,
		TeacherKind: u.TeacherKind,
	}

	var kind models.AssignmentKind
	switch u.Role {
	case models.RoleArea:
		kind = models.AssignmentArea
	case models.RoleTeacher:
		kind = models.AssignmentDiscipline
	default:
		return su
	}

	cur, err := f.links.Find(ctx,
		bson.M{"user_id": u.ID, "kind": kind},
		options.Find().SetProjection(bson.M{"subject_id": 1}))
	if err != nil {
		f.log.Warn("assignment fetch failed", zap.String("user_id", userID), zap.Error(err))
		return su
	}
	defer cur.Close(ctx)

	var links []models.SubjectAssignment
	if err := cur.All(ctx, &links); err != nil {
		f.log.Warn("assignment decode failed", zap.String("user_id", userID), zap.Error(err))
		return su
	}
	for _, l := range links {
		su.SubjectIDs = append(su.SubjectIDs, l.SubjectID.Hex())
	}
	return su
}
