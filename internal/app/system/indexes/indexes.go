// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureSubjects(ctx, db); err != nil {
		problems = append(problems, "subjects: "+err.Error())
	}
	if err := ensureSubjectAssignments(ctx, db); err != nil {
		problems = append(problems, "subject_assignments: "+err.Error())
	}
	if err := ensurePlans(ctx, db); err != nil {
		problems = append(problems, "plans: "+err.Error())
	}
	if err := ensureLoginRecords(ctx, db); err != nil {
		problems = append(problems, "login_records: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}

	log.Info("indexes ensured")
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("by_role"),
		},
	})
	return ignoreConflict(err)
}

func ensureSubjects(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("subjects").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_name"),
		},
	})
	return ignoreConflict(err)
}

func ensureSubjectAssignments(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("subject_assignments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "subject_id", Value: 1},
				{Key: "kind", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_user_subject_kind"),
		},
		{
			Keys:    bson.D{{Key: "subject_id", Value: 1}},
			Options: options.Index().SetName("by_subject"),
		},
	})
	return ignoreConflict(err)
}

func ensurePlans(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("plans").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "submitted_at", Value: -1}},
			Options: options.Index().SetName("by_author"),
		},
		{
			Keys:    bson.D{{Key: "subject_id", Value: 1}, {Key: "submitted_at", Value: -1}},
			Options: options.Index().SetName("by_subject"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("by_status"),
		},
	})
	return ignoreConflict(err)
}

func ensureLoginRecords(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("login_records").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_username"),
		},
	})
	return ignoreConflict(err)
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name. That is fine for our
// purposes: the keys are in place.
func ignoreConflict(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "IndexOptionsConflict") {
		return nil
	}
	return err
}
