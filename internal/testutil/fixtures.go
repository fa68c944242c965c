package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/planaula/planaula/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateSubject creates a test subject with the given name.
func (f *Fixtures) CreateSubject(ctx context.Context, name string) models.Subject {
	f.t.Helper()

	now := time.Now().UTC()
	subj := models.Subject{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("subjects").InsertOne(ctx, subj); err != nil {
		f.t.Fatalf("failed to create test subject: %v", err)
	}
	return subj
}

func (f *Fixtures) createUser(ctx context.Context, username string, role models.Role, kind models.TeacherKind) models.User {
	f.t.Helper()

	// MinCost keeps fixture creation fast; hash strength is not under test.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: string(hash),
		Role:         role,
		TeacherKind:  kind,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func (f *Fixtures) assign(ctx context.Context, user models.User, kind models.AssignmentKind, subjects []models.Subject) {
	f.t.Helper()

	now := time.Now().UTC()
	for _, subj := range subjects {
		link := models.SubjectAssignment{
			ID:          primitive.NewObjectID(),
			UserID:      user.ID,
			SubjectID:   subj.ID,
			SubjectName: subj.Name,
			Kind:        kind,
			CreatedAt:   now,
		}
		if _, err := f.db.Collection("subject_assignments").InsertOne(ctx, link); err != nil {
			f.t.Fatalf("failed to create test assignment: %v", err)
		}
	}
}

// CreateGeneralCoordinator creates a general coordinator account.
func (f *Fixtures) CreateGeneralCoordinator(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.createUser(ctx, username, models.RoleGeneral, models.TeacherUntagged)
}

// CreateAreaCoordinator creates an area coordinator linked to the given
// subjects.
func (f *Fixtures) CreateAreaCoordinator(ctx context.Context, username string, subjects ...models.Subject) models.User {
	f.t.Helper()
	u := f.createUser(ctx, username, models.RoleArea, models.TeacherUntagged)
	f.assign(ctx, u, models.AssignmentArea, subjects)
	return u
}

// CreateTeacher creates a lead teacher with discipline links to the given
// subjects.
func (f *Fixtures) CreateTeacher(ctx context.Context, username string, subjects ...models.Subject) models.User {
	f.t.Helper()
	u := f.createUser(ctx, username, models.RoleTeacher, models.TeacherLead)
	f.assign(ctx, u, models.AssignmentDiscipline, subjects)
	return u
}

// CreatePlan creates a submitted plan authored by the given teacher for
// the given subject, with all mandatory fields filled.
func (f *Fixtures) CreatePlan(ctx context.Context, author models.User, subject models.Subject) models.LessonPlan {
	f.t.Helper()

	plan := models.LessonPlan{
		ID:           primitive.NewObjectID(),
		AuthorID:     author.ID,
		AuthorName:   author.Username,
		SubjectID:    subject.ID,
		SubjectName:  subject.Name,
		Grade:        "1ª série",
		Shift:        "Matutino",
		Methodology:  "Aula expositiva e prática guiada",
		Assessment:   "Lista de exercícios",
		Content:      "Conteúdo da aula de teste",
		LessonNumber: "1",
		Period:       "1º bimestre",
		Resources:    "Quadro e projetor",
		Skills:       "EM13MAT101",
		Status:       models.StatusSubmitted,
		SubmittedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("plans").InsertOne(ctx, plan); err != nil {
		f.t.Fatalf("failed to create test plan: %v", err)
	}
	return plan
}

// CreatePlanWithStatus creates a plan already carrying the given status.
func (f *Fixtures) CreatePlanWithStatus(ctx context.Context, author models.User, subject models.Subject, status models.PlanStatus) models.LessonPlan {
	f.t.Helper()

	plan := f.CreatePlan(ctx, author, subject)
	if status == models.StatusSubmitted {
		return plan
	}
	_, err := f.db.Collection("plans").UpdateOne(ctx,
		bson.M{"_id": plan.ID},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		f.t.Fatalf("failed to set test plan status: %v", err)
	}
	plan.Status = status
	return plan
}
