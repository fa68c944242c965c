// internal/app/store/subjects/subjectstore.go
package subjectstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/planaula/planaula/internal/app/system/normalize"
	"github.com/planaula/planaula/internal/app/system/txn"
	"github.com/planaula/planaula/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateSubject is returned when a subject with the same name
	// already exists.
	ErrDuplicateSubject = errors.New("a subject with this name already exists")

	// ErrEmptyName is returned when the subject name is blank after
	// trimming whitespace.
	ErrEmptyName = errors.New("subject name must not be blank")
)

// Store owns the subjects collection. Deletes cascade into
// subject_assignments inside the same transaction.
type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{db: db, c: db.Collection("subjects"), log: log}
}

// Create inserts a new subject. Matching is on the exact stored name.
func (s *Store) Create(ctx context.Context, name string) (models.Subject, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.Subject{}, ErrEmptyName
	}

	now := time.Now().UTC()
	subj := models.Subject{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, subj); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Subject{}, ErrDuplicateSubject
		}
		return models.Subject{}, err
	}
	return subj, nil
}

// DeleteByName removes a subject and strips every assignment link that
// references it, in one transaction. Unknown names are a no-op
// (false, nil). Existing plans keep their denormalized subject name.
func (s *Store) DeleteByName(ctx context.Context, name string) (bool, error) {
	name = normalize.Name(name)

	var subj models.Subject
	err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&subj)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.c.DeleteOne(ctx, bson.M{"_id": subj.ID}); err != nil {
			return err
		}
		_, err := s.db.Collection("subject_assignments").DeleteMany(ctx, bson.M{"subject_id": subj.ID})
		return err
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByName looks a subject up by exact name. Returns
// mongo.ErrNoDocuments when absent.
func (s *Store) GetByName(ctx context.Context, name string) (*models.Subject, error) {
	var subj models.Subject
	if err := s.c.FindOne(ctx, bson.M{"name": normalize.Name(name)}).Decode(&subj); err != nil {
		return nil, err
	}
	return &subj, nil
}

// GetByIDs loads the subjects for a set of ids, ordered by name.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Subject, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Subject
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns all subjects ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Subject, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Subject
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of subjects.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
