// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents the general coordinator, area coordinators, and teachers.
//
// NOTE:
//   - Subject assignments are not embedded on User.
//     Use the subject_assignments collection to discover a user's area
//     (coordinators) or disciplines (teachers).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"username_ci"` // lowercase, diacritics-stripped
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	TeacherKind  TeacherKind        `bson:"teacher_kind,omitempty" json:"teacher_kind,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
