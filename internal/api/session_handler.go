package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/jaam8/survey_client/internal/authoring"
	"github.com/jaam8/survey_client/internal/models"
	"github.com/jaam8/survey_client/internal/service"
	"go.uber.org/zap"
	"strconv"
	"strings"
)

const HelpMessage = "i know these commands:\n" +
	"- `login <username> <password>`, `register [<username> <email> <password> [admin]]`, `back`, `logout`\n" +
	"- `home`, `refresh`, `take <survey_id>`, `report <survey_id>`, `create`\n" +
	"- authoring: `title <text>`, `description <text>`, `add`, `remove <n>`, `question <n> <text>`, `type <n> <TYPE>`, `options <n> <a,b,c>`, `cancel`\n" +
	"- answering: `answer <question_id> <text>`, `rate <question_id> <1-5>`\n" +
	"- audio: `record <n|question_id>`, `stop`, `discard`\n" +
	"- `submit`, `view`, `help`"

const unreachableMessage = "Cannot connect to server. Please ensure the backend is running."

type Sender interface {
	SendMsg(message string) error
}

type usageError string

func (e usageError) Error() string {
	return "usage: " + string(e)
}

// SessionHandler turns text commands into controller calls and answers with
// the resulting screen.
type SessionHandler struct {
	s   *service.SessionController
	l   *zap.Logger
	out Sender
}

func New(s *service.SessionController, l *zap.Logger, out Sender) *SessionHandler {
	return &SessionHandler{
		s:   s,
		l:   l,
		out: out,
	}
}

func (h *SessionHandler) Session() *service.SessionController {
	return h.s
}

// Handle runs one command line. Failures are reported to the user and never
// end the session.
func (h *SessionHandler) Handle(ctx context.Context, line string) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return
	}
	h.l.Debug("new command",
		zap.String("command", args[0]),
		zap.String("view", h.s.View().String()))

	notice, err := h.dispatch(ctx, args, line)
	if err != nil {
		if sendErr := h.SendMsg(h.failureMessage(args[0], err)); sendErr != nil {
			h.l.Error("failed sending failure message", zap.Error(sendErr))
		}
		return
	}
	msg := Render(h.s)
	if notice != "" {
		msg = notice + "\n\n" + msg
	}
	if err = h.SendMsg(msg); err != nil {
		h.l.Error("failed sending view", zap.Error(err))
	}
}

func (h *SessionHandler) dispatch(ctx context.Context, args []string, line string) (string, error) {
	switch strings.ToLower(args[0]) {
	case "help":
		return HelpMessage, nil
	case "view", "show":
		return "", nil
	case "login":
		if len(args) != 3 {
			return "", usageError("login <username> <password>")
		}
		return "", h.s.Login(ctx, args[1], args[2])
	case "register":
		if h.s.View() == models.ViewLogin {
			if err := h.s.ShowRegister(); err != nil {
				return "", err
			}
		}
		if len(args) == 1 {
			return "", nil
		}
		if len(args) < 4 || len(args) > 5 {
			return "", usageError("register <username> <email> <password> [admin]")
		}
		admin := len(args) == 5 && strings.EqualFold(args[4], "admin")
		if err := h.s.Register(ctx, args[1], args[2], args[3], admin); err != nil {
			return "", err
		}
		return "Registration successful! Please login.", nil
	case "back":
		return "", h.s.ShowLogin()
	case "logout":
		h.s.Logout()
		return "", nil
	case "home":
		return "", h.s.Home()
	case "refresh":
		return "", h.s.RefreshSurveys(ctx)
	case "take":
		id, err := intArg(args, 1, "take <survey_id>")
		if err != nil {
			return "", err
		}
		return "", h.s.SelectSurvey(int64(id))
	case "report":
		id, err := intArg(args, 1, "report <survey_id>")
		if err != nil {
			return "", err
		}
		return "", h.s.RequestReport(ctx, int64(id))
	case "create":
		return "", h.s.CreateSurvey()
	case "title", "description", "add", "remove", "question", "type", "options":
		return h.author(args, line)
	case "answer", "rate":
		return h.answer(args, line)
	case "record":
		target, err := intArg(args, 1, "record <n|question_id>")
		if err != nil {
			return "", err
		}
		if err = h.s.StartRecording(ctx, target); err != nil {
			return "", err
		}
		return "Recording... send `stop` when done.", nil
	case "stop":
		rec, err := h.s.StopRecording(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Recording saved (%s, %d bytes).", rec.MimeType, rec.Size), nil
	case "discard":
		return "", h.s.DiscardRecording()
	case "submit":
		return h.submit(ctx)
	case "cancel":
		return "", h.s.CancelDraft()
	default:
		return HelpMessage, nil
	}
}

func (h *SessionHandler) author(args []string, line string) (string, error) {
	if h.s.View() != models.ViewCreate {
		return "", fmt.Errorf("%w: %s", models.ErrWrongView, h.s.View())
	}
	d := h.s.Draft()
	switch strings.ToLower(args[0]) {
	case "title":
		d.SetTitle(restAfter(line, 1))
	case "description":
		d.SetDescription(restAfter(line, 1))
	case "add":
		_, err := h.s.AddQuestion()
		return "", err
	case "remove":
		n, err := intArg(args, 1, "remove <n>")
		if err != nil {
			return "", err
		}
		return "", h.s.RemoveQuestion(n)
	case "question", "type", "options":
		n, err := intArg(args, 1, args[0]+" <n> <value>")
		if err != nil {
			return "", err
		}
		field := map[string]authoring.Field{
			"question": authoring.FieldText,
			"type":     authoring.FieldType,
			"options":  authoring.FieldOptions,
		}[strings.ToLower(args[0])]
		return "", d.UpdateField(n-1, field, restAfter(line, 2))
	}
	return "", nil
}

func (h *SessionHandler) answer(args []string, line string) (string, error) {
	if h.s.View() != models.ViewTake {
		return "", fmt.Errorf("%w: %s", models.ErrWrongView, h.s.View())
	}
	id, err := intArg(args, 1, args[0]+" <question_id> <value>")
	if err != nil {
		return "", err
	}
	if strings.EqualFold(args[0], "rate") {
		rating, err := intArg(args, 2, "rate <question_id> <1-5>")
		if err != nil {
			return "", err
		}
		return "", h.s.Answers().SetAnswer(int64(id), rating, "")
	}
	return "", h.s.Answers().SetAnswer(int64(id), restAfter(line, 2), "")
}

func (h *SessionHandler) submit(ctx context.Context) (string, error) {
	switch h.s.View() {
	case models.ViewCreate:
		if err := h.s.SubmitDraft(ctx); err != nil {
			return "", err
		}
		return "Survey created successfully!", nil
	case models.ViewTake:
		if err := h.s.SubmitAnswers(ctx); err != nil {
			return "", err
		}
		return "Survey submitted successfully!", nil
	default:
		return "", fmt.Errorf("%w: %s", models.ErrWrongView, h.s.View())
	}
}

func (h *SessionHandler) failureMessage(command string, err error) string {
	var usage usageError
	if errors.As(err, &usage) {
		return usage.Error()
	}
	switch models.KindOf(err) {
	case models.FailureConnectivity:
		h.l.Warn("backend unreachable", zap.String("command", command), zap.Error(err))
		return unreachableMessage
	case models.FailureAuthorization, models.FailureValidation, models.FailureCapture:
		h.l.Warn("command refused", zap.String("command", command), zap.Error(err))
		return err.Error()
	}
	switch {
	case errors.Is(err, models.ErrWrongView), errors.Is(err, models.ErrSurveyNotFound),
		errors.Is(err, models.ErrRegistration), errors.Is(err, models.ErrSubmitRejected):
		h.l.Warn("command refused", zap.String("command", command), zap.Error(err))
		return err.Error()
	default:
		h.l.Error("command failed", zap.String("command", command), zap.Error(err))
		return "something went wrong"
	}
}

func (h *SessionHandler) SendMsg(message string) error {
	return h.out.SendMsg(message)
}

func intArg(args []string, i int, usage string) (int, error) {
	if len(args) <= i {
		return 0, usageError(usage)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, usageError(usage)
	}
	return n, nil
}

// restAfter returns the text following the first n fields of line.
func restAfter(line string, n int) string {
	rest := strings.TrimSpace(line)
	for i := 0; i < n; i++ {
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			return ""
		}
		rest = strings.TrimSpace(rest[end:])
	}
	return rest
}
