// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"

	"github.com/planaula/planaula/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads the subject_assignments collection. Writes that must stay
// consistent with users or subjects happen in those stores' transactions;
// this store covers the read side and standalone link maintenance.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("subject_assignments")}
}

// ListByUser returns a user's assignment links of one kind, ordered by
// subject name.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, kind models.AssignmentKind) ([]models.SubjectAssignment, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID, "kind": kind},
		options.Find().SetSort(bson.D{{Key: "subject_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.SubjectAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubjectIDsForUser returns the subject ids a user is linked to under a
// given kind.
func (s *Store) SubjectIDsForUser(ctx context.Context, userID primitive.ObjectID, kind models.AssignmentKind) ([]primitive.ObjectID, error) {
	links, err := s.ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.SubjectID)
	}
	return ids, nil
}

// IsAssigned reports whether a link of the given kind exists between the
// user and the subject.
func (s *Store) IsAssigned(ctx context.Context, userID, subjectID primitive.ObjectID, kind models.AssignmentKind) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"subject_id": subjectID,
		"kind":       kind,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
