package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/jaam8/survey_client/internal/answers"
	"github.com/jaam8/survey_client/internal/authoring"
	"github.com/jaam8/survey_client/internal/capture"
	"github.com/jaam8/survey_client/internal/models"
	"go.uber.org/zap"
)

type Backend interface {
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	Register(ctx context.Context, reg models.Registration) error
	CreateAdmin(ctx context.Context, reg models.Registration) error
	ListSurveys(ctx context.Context) ([]models.Survey, error)
	CreateSurvey(ctx context.Context, userID int64, survey models.NewSurvey) (*models.Survey, error)
	SubmitResponse(ctx context.Context, surveyID, userID int64, payload models.ResponsePayload) error
	GetReport(ctx context.Context, surveyID, userID int64) (*models.ReportPayload, error)
}

type Recorder interface {
	Start(ctx context.Context, done capture.CompletionFunc) error
	Stop(ctx context.Context) (capture.Recording, error)
	Abandon() error
	State() capture.State
}

// SessionController owns one user session: identity, the current view and
// the data each view may see. It is driven by a single front-end goroutine
// and is not safe for concurrent use.
type SessionController struct {
	r        Backend
	rec      Recorder
	l        *zap.Logger
	validate *validator.Validate

	view         models.View
	user         *models.User
	surveys      []models.Survey
	activeSurvey *models.Survey
	activeReport *models.ReportPayload
	draft        *authoring.Draft
	answers      *answers.Collector
	recTarget    int
	unreachable  bool
}

func New(r Backend, rec Recorder, l *zap.Logger) *SessionController {
	return &SessionController{
		r:        r,
		rec:      rec,
		l:        l,
		validate: validator.New(),
		view:     models.ViewLogin,
	}
}

func (s *SessionController) View() models.View                  { return s.view }
func (s *SessionController) User() *models.User                  { return s.user }
func (s *SessionController) Surveys() []models.Survey            { return s.surveys }
func (s *SessionController) ActiveSurvey() *models.Survey        { return s.activeSurvey }
func (s *SessionController) ActiveReport() *models.ReportPayload { return s.activeReport }
func (s *SessionController) Draft() *authoring.Draft             { return s.draft }
func (s *SessionController) Answers() *answers.Collector         { return s.answers }

// Unreachable is latched by a connectivity failure and cleared by the next
// successful backend request.
func (s *SessionController) Unreachable() bool { return s.unreachable }

func (s *SessionController) RecordingState() capture.State { return s.rec.State() }

// RecordingTarget is the draft position (CREATE) or question id (TAKE) being recorded.
func (s *SessionController) RecordingTarget() int { return s.recTarget }

func (s *SessionController) require(view models.View) error {
	if s.view.Authenticated() && s.user == nil {
		return models.ErrNotAuthenticated
	}
	if s.view != view {
		return fmt.Errorf("%w: %s", models.ErrWrongView, s.view)
	}
	return nil
}

func (s *SessionController) requireAuth() error {
	if s.user == nil || !s.view.Authenticated() {
		return models.ErrNotAuthenticated
	}
	return nil
}

// enter is the only place the view changes while signed in. It releases a
// running capture and drops whatever the destination may not see.
func (s *SessionController) enter(to models.View) error {
	if to.Authenticated() && s.user == nil {
		return models.ErrNotAuthenticated
	}
	if to.AdminOnly() && !s.user.IsAdmin() {
		s.l.Warn("refused admin view", zap.String("view", to.String()), zap.String("username", s.user.Username))
		return models.ErrNotAdmin
	}
	if err := s.rec.Abandon(); err != nil {
		s.l.Warn("failed to release audio device", zap.Error(err))
	}
	if to != models.ViewCreate {
		s.draft = nil
	}
	if to != models.ViewTake {
		s.activeSurvey = nil
		s.answers = nil
	}
	if to != models.ViewReport {
		s.activeReport = nil
	}
	s.l.Debug("view changed", zap.Stringer("from", s.view), zap.Stringer("to", to))
	s.view = to
	return nil
}

func (s *SessionController) failed(op string, err error) error {
	if errors.Is(err, models.ErrBackendUnreachable) {
		if !s.unreachable {
			s.l.Warn("backend unreachable", zap.String("op", op), zap.Error(err))
		}
		s.unreachable = true
		return err
	}
	switch models.KindOf(err) {
	case models.FailureAuthorization, models.FailureValidation:
		s.l.Warn("request rejected", zap.String("op", op), zap.Error(err))
		return err
	default:
		if errors.Is(err, models.ErrRegistration) || errors.Is(err, models.ErrSubmitRejected) {
			s.l.Warn("request rejected", zap.String("op", op), zap.Error(err))
			return err
		}
		s.l.Error("request failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("service: failed to %s: %w", op, err)
	}
}

func (s *SessionController) reachable() {
	s.unreachable = false
}

func (s *SessionController) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "email" {
				return models.ErrInvalidEmail
			}
		}
		return models.ErrFieldsRequired
	}
	return fmt.Errorf("service: validation: %w", err)
}

func (s *SessionController) ShowRegister() error {
	if err := s.require(models.ViewLogin); err != nil {
		return err
	}
	s.view = models.ViewRegister
	return nil
}

func (s *SessionController) ShowLogin() error {
	if err := s.require(models.ViewRegister); err != nil {
		return err
	}
	s.view = models.ViewLogin
	return nil
}

// Login signs the user in and loads the survey list once. A failed list load
// does not undo the login; it latches Unreachable.
func (s *SessionController) Login(ctx context.Context, username, password string) error {
	if err := s.require(models.ViewLogin); err != nil {
		return err
	}
	creds := models.Credentials{Username: username, Password: password}
	if err := s.check(creds); err != nil {
		return err
	}
	user, err := s.r.Login(ctx, creds)
	if err != nil {
		return s.failed("login", err)
	}
	s.reachable()
	s.user = user
	if err = s.enter(models.ViewHome); err != nil {
		return err
	}
	s.l.Info("logged in",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	_ = s.loadSurveys(ctx)
	return nil
}

func (s *SessionController) Register(ctx context.Context, username, email, password string, admin bool) error {
	if err := s.require(models.ViewRegister); err != nil {
		return err
	}
	reg := models.Registration{Username: username, Email: email, Password: password}
	if err := s.check(reg); err != nil {
		return err
	}
	var err error
	if admin {
		err = s.r.CreateAdmin(ctx, reg)
	} else {
		err = s.r.Register(ctx, reg)
	}
	if err != nil {
		return s.failed("register", err)
	}
	s.reachable()
	s.l.Info("registered", zap.String("username", username), zap.Bool("admin", admin))
	s.view = models.ViewLogin
	return nil
}

func (s *SessionController) RefreshSurveys(ctx context.Context) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return s.loadSurveys(ctx)
}

func (s *SessionController) loadSurveys(ctx context.Context) error {
	surveys, err := s.r.ListSurveys(ctx)
	if err != nil {
		return s.failed("fetch surveys", err)
	}
	s.reachable()
	s.surveys = surveys
	s.l.Debug("surveys loaded", zap.Int("count", len(surveys)))
	return nil
}

func (s *SessionController) Home() error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return s.enter(models.ViewHome)
}

func (s *SessionController) SelectSurvey(surveyID int64) error {
	if err := s.require(models.ViewHome); err != nil {
		return err
	}
	for _, survey := range s.surveys {
		if survey.ID != surveyID {
			continue
		}
		if err := s.enter(models.ViewTake); err != nil {
			return err
		}
		selected := survey
		s.activeSurvey = &selected
		s.answers = answers.New(selected)
		return nil
	}
	return fmt.Errorf("%w: %d", models.ErrSurveyNotFound, surveyID)
}

func (s *SessionController) RequestReport(ctx context.Context, surveyID int64) error {
	if err := s.require(models.ViewHome); err != nil {
		return err
	}
	if !s.user.IsAdmin() {
		s.l.Warn("report requested by non-admin", zap.Int64("user_id", s.user.ID), zap.Int64("survey_id", surveyID))
		return models.ErrNotAdmin
	}
	report, err := s.r.GetReport(ctx, surveyID, s.user.ID)
	if err != nil {
		return s.failed("fetch report", err)
	}
	s.reachable()
	if err = s.enter(models.ViewReport); err != nil {
		return err
	}
	s.activeReport = report
	return nil
}

func (s *SessionController) CreateSurvey() error {
	if err := s.require(models.ViewHome); err != nil {
		return err
	}
	if err := s.enter(models.ViewCreate); err != nil {
		return err
	}
	s.draft = authoring.New()
	return nil
}

func (s *SessionController) SubmitDraft(ctx context.Context) error {
	if err := s.require(models.ViewCreate); err != nil {
		return err
	}
	if err := s.draft.Validate(); err != nil {
		return err
	}
	created, err := s.r.CreateSurvey(ctx, s.user.ID, s.draft.Survey())
	if err != nil {
		return s.failed("create survey", err)
	}
	s.reachable()
	s.l.Info("survey created", zap.Int64("survey_id", created.ID), zap.String("title", s.draft.Title))
	if err = s.enter(models.ViewHome); err != nil {
		return err
	}
	_ = s.loadSurveys(ctx)
	return nil
}

func (s *SessionController) CancelDraft() error {
	if err := s.require(models.ViewCreate); err != nil {
		return err
	}
	return s.enter(models.ViewHome)
}

func (s *SessionController) SubmitAnswers(ctx context.Context) error {
	if err := s.require(models.ViewTake); err != nil {
		return err
	}
	payload, err := s.answers.Build()
	if err != nil {
		return err
	}
	surveyID := s.activeSurvey.ID
	if err = s.r.SubmitResponse(ctx, surveyID, s.user.ID, payload); err != nil {
		return s.failed("submit answers", err)
	}
	s.reachable()
	s.l.Info("answers submitted", zap.Int64("survey_id", surveyID), zap.Int("answers", len(payload.Answers)))
	return s.enter(models.ViewHome)
}

// Logout tears the whole session down from any view.
func (s *SessionController) Logout() {
	if err := s.rec.Abandon(); err != nil {
		s.l.Warn("failed to release audio device", zap.Error(err))
	}
	if s.user != nil {
		s.l.Info("logged out", zap.String("username", s.user.Username))
	}
	s.user = nil
	s.surveys = nil
	s.activeSurvey = nil
	s.activeReport = nil
	s.draft = nil
	s.answers = nil
	s.recTarget = 0
	s.view = models.ViewLogin
}

// AddQuestion appends a blank question to the draft and returns its 1-based
// position. Positions are frozen while a recording targets the draft.
func (s *SessionController) AddQuestion() (int, error) {
	if err := s.editable(); err != nil {
		return 0, err
	}
	return s.draft.AddQuestion() + 1, nil
}

// RemoveQuestion drops the draft question at the 1-based position.
func (s *SessionController) RemoveQuestion(position int) error {
	if err := s.editable(); err != nil {
		return err
	}
	return s.draft.RemoveQuestion(position - 1)
}

func (s *SessionController) editable() error {
	if err := s.require(models.ViewCreate); err != nil {
		return err
	}
	if s.rec.State() != capture.StateIdle {
		return models.ErrRecordingInProgress
	}
	return nil
}

// StartRecording records audio for a draft position (1-based) in CREATE or for
// an AUDIO question id in TAKE. The result is stored when StopRecording succeeds.
func (s *SessionController) StartRecording(ctx context.Context, target int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	var done capture.CompletionFunc
	switch s.view {
	case models.ViewCreate:
		draft, index := s.draft, target-1
		if index < 0 || index >= draft.Len() {
			return fmt.Errorf("%w: %d", models.ErrQuestionIndex, target)
		}
		done = func(rec capture.Recording) error {
			return draft.UpdateAudio(index, rec.Payload, rec.MimeType)
		}
	case models.ViewTake:
		collector, id := s.answers, int64(target)
		q, ok := collector.Question(id)
		if !ok {
			return fmt.Errorf("%w: %d", models.ErrUnknownQuestion, id)
		}
		if q.Type != models.QuestionAudio {
			return fmt.Errorf("%w: %d", models.ErrNotAudioQuestion, id)
		}
		done = func(rec capture.Recording) error {
			return collector.SetAnswer(id, rec.Payload, rec.MimeType)
		}
	default:
		return fmt.Errorf("%w: %s", models.ErrWrongView, s.view)
	}
	if err := s.rec.Start(ctx, done); err != nil {
		return err
	}
	s.recTarget = target
	return nil
}

func (s *SessionController) StopRecording(ctx context.Context) (capture.Recording, error) {
	rec, err := s.rec.Stop(ctx)
	if !errors.Is(err, models.ErrNotRecording) {
		s.recTarget = 0
	}
	return rec, err
}

func (s *SessionController) DiscardRecording() error {
	s.recTarget = 0
	return s.rec.Abandon()
}
