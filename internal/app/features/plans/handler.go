// internal/app/features/plans/handler.go
package plans

import (
	"context"
	"net/http"

	uierrors "github.com/planaula/planaula/internal/app/features/errors"
	planstore "github.com/planaula/planaula/internal/app/store/plans"
	subjectstore "github.com/planaula/planaula/internal/app/store/subjects"
	"github.com/planaula/planaula/internal/app/system/auth"
	"github.com/planaula/planaula/internal/app/system/authz"
	"github.com/planaula/planaula/internal/app/system/flash"
	"github.com/planaula/planaula/internal/app/system/inputval"
	"github.com/planaula/planaula/internal/app/system/sanitize"
	"github.com/planaula/planaula/internal/app/system/timeouts"
	"github.com/planaula/planaula/internal/app/system/viewdata"
	"github.com/planaula/planaula/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Plans      *planstore.Store
	Subjects   *subjectstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(plans *planstore.Store, subjects *subjectstore.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Plans:      plans,
		Subjects:   subjects,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
	}
}

// planForm carries the submission fields. The seven tagged as required
// are mandatory; the rest describe the class and may stay blank.
type planForm struct {
	SubjectID    string `validate:"required" label:"disciplina"`
	Methodology  string `validate:"required" label:"metodologia"`
	Assessment   string `validate:"required" label:"avaliacao"`
	Content      string `validate:"required" label:"conteudo"`
	LessonNumber string `validate:"required" label:"numero_aula"`
	Period       string `validate:"required" label:"periodo"`
	Resources    string `validate:"required" label:"recursos"`
	Skills       string `validate:"required" label:"habilidades"`

	Grade    string
	Shift    string
	Modality string
	Track    string
	Segment  string
	Section  string
}

type planFormData struct {
	viewdata.BaseVM
	Form       planForm
	Subjects   []models.Subject
	Grades     []string
	Shifts     []string
	Modalities []string
	Tracks     []string
	Segments   []string
	Sections   []string
}

func (h *Handler) formVM(w http.ResponseWriter, r *http.Request, form planForm, subjects []models.Subject) planFormData {
	return planFormData{
		BaseVM:     viewdata.NewBaseVM(w, r, h.SessionMgr, "Novo plano de aula", "/dashboard"),
		Form:       form,
		Subjects:   subjects,
		Grades:     models.Grades,
		Shifts:     models.Shifts,
		Modalities: models.Modalities,
		Tracks:     models.Tracks,
		Segments:   models.Segments,
		Sections:   models.Sections,
	}
}

// ownSubjects resolves the teacher's assigned disciplines for the subject
// picker.
func (h *Handler) ownSubjects(ctx context.Context, r *http.Request) ([]models.Subject, error) {
	return h.Subjects.GetByIDs(ctx, authz.UserSubjectIDs(r))
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /plans/new                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNewPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	subjects, err := h.ownSubjects(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load own subjects failed", err, "Ocorreu um erro ao carregar suas disciplinas.", "/dashboard")
		return
	}

	templates.Render(w, r, "plan_new", h.formVM(w, r, planForm{}, subjects))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /plans/new                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleNewPlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Dados do formulário inválidos.", "/plans/new")
		return
	}

	role, username, authorID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "malformed session user id", nil, "Sessão inválida. Entre novamente.", "/login")
		return
	}
	// Route middleware already gates the path; this keeps the capability
	// table authoritative when the handler is reached some other way.
	if !authz.Can(role, authz.ActionSubmitPlan) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	form := planForm{
		SubjectID:    sanitize.Text(r.FormValue("disciplina")),
		Methodology:  sanitize.Text(r.FormValue("metodologia")),
		Assessment:   sanitize.Text(r.FormValue("avaliacao")),
		Content:      sanitize.Text(r.FormValue("conteudo")),
		LessonNumber: sanitize.Text(r.FormValue("numero_aula")),
		Period:       sanitize.Text(r.FormValue("periodo")),
		Resources:    sanitize.Text(r.FormValue("recursos")),
		Skills:       sanitize.Text(r.FormValue("habilidades")),
		Grade:        sanitize.Text(r.FormValue("serie")),
		Shift:        sanitize.Text(r.FormValue("turno")),
		Modality:     sanitize.Text(r.FormValue("modalidade")),
		Track:        sanitize.Text(r.FormValue("itinerario")),
		Segment:      sanitize.Text(r.FormValue("segmento")),
		Section:      sanitize.Text(r.FormValue("turma")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if result := inputval.Validate(form); result.HasErrors() {
		h.renderFormWithError(w, r, form, result.First())
		return
	}

	subjectID, err := primitive.ObjectIDFromHex(form.SubjectID)
	if err != nil {
		h.renderFormWithError(w, r, form, "Disciplina inválida.")
		return
	}
	if !authz.CanAccessSubject(r, subjectID) {
		h.renderFormWithError(w, r, form, "Você não leciona esta disciplina.")
		return
	}
	subjects, err := h.Subjects.GetByIDs(ctx, []primitive.ObjectID{subjectID})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "subject lookup failed", err, "Ocorreu um erro no servidor.", "/plans/new")
		return
	}
	if len(subjects) == 0 {
		h.renderFormWithError(w, r, form, "Disciplina inválida.")
		return
	}

	_, err = h.Plans.Create(ctx, models.LessonPlan{
		AuthorID:     authorID,
		AuthorName:   username,
		SubjectID:    subjectID,
		SubjectName:  subjects[0].Name,
		Grade:        form.Grade,
		Shift:        form.Shift,
		Modality:     form.Modality,
		Track:        form.Track,
		Segment:      form.Segment,
		Section:      form.Section,
		Methodology:  form.Methodology,
		Assessment:   form.Assessment,
		Content:      form.Content,
		LessonNumber: form.LessonNumber,
		Period:       form.Period,
		Resources:    form.Resources,
		Skills:       form.Skills,
	})
	switch err {
	case nil:
		// created
	case planstore.ErrSubjectNotAssigned:
		h.renderFormWithError(w, r, form, "Você não leciona esta disciplina.")
		return
	default:
		h.ErrLog.LogServerError(w, r, "create plan failed", err, "Ocorreu um erro ao salvar o plano.", "/plans/new")
		return
	}

	h.Log.Info("plan submitted",
		zap.String("author", username),
		zap.String("subject", subjects[0].Name))

	flash.Add(h.SessionMgr, w, r, flash.LevelSuccess, "Plano de aula enviado com sucesso!")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, form planForm, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	subjects, err := h.ownSubjects(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load own subjects failed", err, "Ocorreu um erro ao carregar suas disciplinas.", "/dashboard")
		return
	}

	vm := h.formVM(w, r, form, subjects)
	vm.SetError(msg)
	templates.Render(w, r, "plan_new", vm)
}
