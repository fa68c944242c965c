// internal/app/store/logins/loginstore.go
package loginstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Attempt carries what is known about one sign-in try. UserID and Reason
// may be zero: failures for unknown usernames have no user id, and
// successes have no failure reason.
type Attempt struct {
	UserID    primitive.ObjectID
	Username  string
	Remote    string
	UserAgent string
	Reason    string
}

// Record is one sign-in attempt as stored. Failures keep only the claimed
// username, never the password.
type Record struct {
	ID        string             `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id,omitempty"`
	Username  string             `bson:"username"`
	Success   bool               `bson:"success"`
	Reason    string             `bson:"reason,omitempty"`
	Remote    string             `bson:"remote_ip,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty"`
	At        time.Time          `bson:"created_at"`
}

// Store appends to the login_records collection. Recording is best
// effort: failures are logged and never block the sign-in flow.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{c: db.Collection("login_records"), log: log}
}

func (s *Store) record(ctx context.Context, a Attempt, success bool) {
	_, err := s.c.InsertOne(ctx, Record{
		ID:        uuid.NewString(),
		UserID:    a.UserID,
		Username:  a.Username,
		Success:   success,
		Reason:    a.Reason,
		Remote:    a.Remote,
		UserAgent: a.UserAgent,
		At:        time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn("login record insert failed",
			zap.String("username", a.Username),
			zap.Bool("success", success),
			zap.Error(err))
	}
}

func (s *Store) RecordSuccess(ctx context.Context, a Attempt) {
	a.Reason = ""
	s.record(ctx, a, true)
}

func (s *Store) RecordFailure(ctx context.Context, a Attempt) {
	s.record(ctx, a, false)
}
