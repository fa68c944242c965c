// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
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
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the cost used across the app for credential hashes.
const BcryptCost = 12

var (
	// ErrDuplicateUser is returned when the username already exists.
	ErrDuplicateUser = errors.New("a user with this username already exists")

	// ErrInvalidRole is returned when creating a user with a role other
	// than area coordinator or teacher. The general coordinator account is
	// seeded at startup and never created through the admin surface.
	ErrInvalidRole = errors.New(`role must be "area" or "teacher"`)

	// ErrEmptyCredential is returned when username or password is blank
	// after trimming whitespace.
	ErrEmptyCredential = errors.New("username and password must not be blank")

	// ErrProtectedUser is returned on attempts to delete the general
	// coordinator account.
	ErrProtectedUser = errors.New("the general coordinator account cannot be deleted")
)

// Store owns the users collection and, for assignment cascades, writes the
// subject_assignments collection inside the same transaction.
type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{db: db, c: db.Collection("users"), log: log}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by exact username. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username": normalize.Username(username)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateInput carries everything needed to create an account with its
// subject assignments.
type CreateInput struct {
	Username    string
	Password    string
	Role        models.Role
	TeacherKind models.TeacherKind

	// Subjects become assignment links: area links for coordinators,
	// discipline links for teachers.
	Subjects []models.Subject
}

// Create inserts a new area coordinator or teacher and its assignment
// links in one transaction. The password is stored only as a bcrypt hash.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.User, error) {
	username := normalize.Username(in.Username)
	password := strings.TrimSpace(in.Password)
	if username == "" || password == "" {
		return models.User{}, ErrEmptyCredential
	}

	switch in.Role {
	case models.RoleArea, models.RoleTeacher:
		// creatable
	case models.RoleGeneral:
		return models.User{}, ErrInvalidRole
	default:
		return models.User{}, ErrInvalidRole
	}

	kind := models.TeacherUntagged
	if in.Role == models.RoleTeacher {
		kind = in.TeacherKind
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: string(hash),
		Role:         in.Role,
		TeacherKind:  kind,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	linkKind := models.AssignmentArea
	if in.Role == models.RoleTeacher {
		linkKind = models.AssignmentDiscipline
	}

	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, u); err != nil {
			return err
		}
		if len(in.Subjects) == 0 {
			return nil
		}
		links := s.db.Collection("subject_assignments")
		var writes []mongo.WriteModel
		for _, subj := range in.Subjects {
			writes = append(writes, mongo.NewInsertOneModel().SetDocument(models.SubjectAssignment{
				ID:          primitive.NewObjectID(),
				UserID:      u.ID,
				SubjectID:   subj.ID,
				SubjectName: subj.Name,
				Kind:        linkKind,
				CreatedAt:   now,
			}))
		}
		_, err := links.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
		return err
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, err
	}
	return u, nil
}

// Delete removes a user and all of its subject assignments in one
// transaction. Deleting the general coordinator fails with
// ErrProtectedUser; deleting an unknown username is a no-op (false, nil).
// Authored plans are retained: they carry the author name denormalized.
func (s *Store) Delete(ctx context.Context, username string) (bool, error) {
	u, err := s.GetByUsername(ctx, username)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if u.Role == models.RoleGeneral {
		return false, ErrProtectedUser
	}

	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.c.DeleteOne(ctx, bson.M{"_id": u.ID}); err != nil {
			return err
		}
		_, err := s.db.Collection("subject_assignments").DeleteMany(ctx, bson.M{"user_id": u.ID})
		return err
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns all users ordered by username.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of accounts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// EnsureGeneralCoordinator seeds the single general-coordinator account if
// no account with that role exists yet. Called at startup; idempotent.
func (s *Store) EnsureGeneralCoordinator(ctx context.Context, username, password string) error {
	username = normalize.Username(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return ErrEmptyCredential
	}

	n, err := s.c.CountDocuments(ctx, bson.M{"role": models.RoleGeneral})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.c.InsertOne(ctx, models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: string(hash),
		Role:         models.RoleGeneral,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil && !wafflemongo.IsDup(err) {
		return err
	}
	s.log.Info("general coordinator account ensured", zap.String("username", username))
	return nil
}
