// internal/domain/models/lessonplan.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus is the lesson-plan workflow state.
//
// A plan is created in StatusSubmitted and moves to StatusApproved or
// StatusRejected when an area coordinator reviews it. Approved/Rejected are
// terminal only in the sense that no further authoring happens; a
// coordinator in scope may still re-approve or re-reject, overwriting the
// previous decision (last writer wins).
type PlanStatus string

const (
	StatusSubmitted PlanStatus = "submitted"
	StatusApproved  PlanStatus = "approved"
	StatusRejected  PlanStatus = "rejected"
)

// ParsePlanStatus maps a stored status string to a PlanStatus.
func ParsePlanStatus(s string) (PlanStatus, bool) {
	switch PlanStatus(s) {
	case StatusSubmitted, StatusApproved, StatusRejected:
		return PlanStatus(s), true
	default:
		return "", false
	}
}

// IsReviewOutcome reports whether s is a status a coordinator may set.
// Submitted is the creation-only state; there is no resubmission move.
func (s PlanStatus) IsReviewOutcome() bool {
	switch s {
	case StatusApproved, StatusRejected:
		return true
	case StatusSubmitted:
		return false
	default:
		return false
	}
}

// Label returns the display name used in views.
func (s PlanStatus) Label() string {
	switch s {
	case StatusSubmitted:
		return "Enviado"
	case StatusApproved:
		return "Aprovado"
	case StatusRejected:
		return "Reprovado"
	default:
		return string(s)
	}
}

// LessonPlan is a single submitted lesson plan (Plano).
//
// AuthorName and SubjectName are denormalized from the directory at
// creation time so the record stays displayable if its author or subject
// is later deleted. Plans are never edited after creation; only Status
// changes, and only through the plan store's scoped transition.
type LessonPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorName  string             `bson:"author_name" json:"author_name"`
	SubjectID   primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	SubjectName string             `bson:"subject_name" json:"subject_name"`

	// Descriptive fields: free-text or catalog values, may be blank.
	Grade    string `bson:"grade" json:"grade"`       // serie
	Shift    string `bson:"shift" json:"shift"`       // turno
	Modality string `bson:"modality" json:"modality"` // modalidade
	Track    string `bson:"track" json:"track"`       // itinerario
	Segment  string `bson:"segment" json:"segment"`   // segmento
	Section  string `bson:"section" json:"section"`   // turma

	// Pedagogical fields: all required, non-empty.
	Methodology  string `bson:"methodology" json:"methodology"`    // metodologia
	Assessment   string `bson:"assessment" json:"assessment"`      // avaliacao
	Content      string `bson:"content" json:"content"`            // conteudo
	LessonNumber string `bson:"lesson_number" json:"lesson_number"` // numero_aula
	Period       string `bson:"period" json:"period"`              // periodo
	Resources    string `bson:"resources" json:"resources"`        // recursos
	Skills       string `bson:"skills" json:"skills"`              // habilidades

	Status      PlanStatus `bson:"status" json:"status"`
	SubmittedAt time.Time  `bson:"submitted_at" json:"submitted_at"`
}
