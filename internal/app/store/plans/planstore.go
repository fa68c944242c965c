// internal/app/store/plans/planstore.go
package planstore

import (
	"context"
	"errors"
	"time"

	"github.com/planaula/planaula/internal/app/policy/planpolicy"
	"github.com/planaula/planaula/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrSubjectNotAssigned is returned when a teacher submits a plan for
	// a subject they are not linked to. Enforced here, not just at the
	// form layer, so direct calls cannot bypass it.
	ErrSubjectNotAssigned = errors.New("subject is not among the author's assigned disciplines")

	// ErrBadTransition is returned when the target status is not a review
	// outcome.
	ErrBadTransition = errors.New("plans can only transition to approved or rejected")
)

// Store owns the plans collection.
type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("plans")}
}

// Create inserts a new plan in Submitted status. The author must hold a
// discipline link to the subject; the plan denormalizes both author and
// subject names so later deletions leave it readable.
func (s *Store) Create(ctx context.Context, p models.LessonPlan) (models.LessonPlan, error) {
	n, err := s.db.Collection("subject_assignments").CountDocuments(ctx, bson.M{
		"user_id":    p.AuthorID,
		"subject_id": p.SubjectID,
		"kind":       models.AssignmentDiscipline,
	})
	if err != nil {
		return models.LessonPlan{}, err
	}
	if n == 0 {
		return models.LessonPlan{}, ErrSubjectNotAssigned
	}

	p.ID = primitive.NewObjectID()
	p.Status = models.StatusSubmitted
	p.SubmittedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.LessonPlan{}, err
	}
	return p, nil
}

// ListByScope returns the plans a viewer is allowed to see, newest first.
func (s *Store) ListByScope(ctx context.Context, scope planpolicy.Scope) ([]models.LessonPlan, error) {
	cur, err := s.c.Find(ctx, scope.Filter(),
		options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LessonPlan
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transition sets a plan's status to a review outcome, but only when the
// plan's subject is in the reviewer's area. Out-of-area or unknown ids
// match nothing and return (false, nil) without error. A later call
// overwrites an earlier outcome: last decision wins.
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, to models.PlanStatus, areaSubjects []primitive.ObjectID) (bool, error) {
	if !to.IsReviewOutcome() {
		return false, ErrBadTransition
	}
	if len(areaSubjects) == 0 {
		return false, nil
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "subject_id": bson.M{"$in": areaSubjects}},
		bson.M{"$set": bson.M{"status": to}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// GetByID loads one plan.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.LessonPlan, error) {
	var p models.LessonPlan
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Count returns the total number of plans.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountByStatus returns plan totals per status for the admin stats view.
func (s *Store) CountByStatus(ctx context.Context) (map[models.PlanStatus]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[models.PlanStatus]int64{
		models.StatusSubmitted: 0,
		models.StatusApproved:  0,
		models.StatusRejected:  0,
	}
	for cur.Next(ctx) {
		var row struct {
			Status models.PlanStatus `bson:"_id"`
			N      int64             `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Status] = row.N
	}
	return out, cur.Err()
}
