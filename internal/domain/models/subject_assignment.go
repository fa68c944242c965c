// internal/domain/models/subject_assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentKind distinguishes coordination authority from teaching
// authority on a subject link.
type AssignmentKind string

const (
	// AssignmentArea links an area coordinator to a subject they review.
	AssignmentArea AssignmentKind = "area"

	// AssignmentDiscipline links a teacher to a subject they may author
	// plans for.
	AssignmentDiscipline AssignmentKind = "discipline"
)

// SubjectAssignment links a user to a subject. A coordinator or teacher may
// hold any number of assignments via multiple records. SubjectName is
// denormalized so listings survive subject deletion.
type SubjectAssignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	SubjectID   primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	SubjectName string             `bson:"subject_name" json:"subject_name"`
	Kind        AssignmentKind     `bson:"kind" json:"kind"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
