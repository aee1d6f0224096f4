package authoring

import (
	"fmt"
	"github.com/jaam8/survey_client/internal/models"
	"strings"
)

type Field string

const (
	FieldText    Field = "questionText"
	FieldType    Field = "type"
	FieldOptions Field = "options"
)

// Draft is a survey being authored. Questions are addressed by position and
// there is always at least one.
type Draft struct {
	Title       string
	Description string
	questions   []models.Question
}

func New() *Draft {
	return &Draft{questions: []models.Question{blank()}}
}

func blank() models.Question {
	return models.Question{Type: models.QuestionText}
}

func (d *Draft) SetTitle(title string) {
	d.Title = title
}

func (d *Draft) SetDescription(description string) {
	d.Description = description
}

func (d *Draft) Len() int {
	return len(d.questions)
}

// Questions returns a copy of the draft entries.
func (d *Draft) Questions() []models.Question {
	out := make([]models.Question, len(d.questions))
	copy(out, d.questions)
	return out
}

func (d *Draft) AddQuestion() int {
	d.questions = append(d.questions, blank())
	return len(d.questions) - 1
}

func (d *Draft) at(index int) (*models.Question, error) {
	if index < 0 || index >= len(d.questions) {
		return nil, fmt.Errorf("authoring: %w: %d", models.ErrQuestionIndex, index)
	}
	return &d.questions[index], nil
}

func (d *Draft) UpdateField(index int, field Field, value string) error {
	q, err := d.at(index)
	if err != nil {
		return err
	}
	switch field {
	case FieldText:
		q.QuestionText = value
	case FieldType:
		qt, err := models.ParseQuestionType(value)
		if err != nil {
			return fmt.Errorf("authoring: %w: %q", err, value)
		}
		q.Type = qt
	case FieldOptions:
		q.Options = &value
	default:
		return fmt.Errorf("authoring: %w: %q", models.ErrUnknownField, field)
	}
	return nil
}

// UpdateAudio attaches a recording to a question; empty payload and mime clear it.
func (d *Draft) UpdateAudio(index int, payload, mimeType string) error {
	q, err := d.at(index)
	if err != nil {
		return err
	}
	switch {
	case payload == "" && mimeType == "":
		q.AudioData, q.AudioMimeType = nil, nil
	case payload == "" || mimeType == "":
		return models.ErrAudioIncomplete
	default:
		q.AudioData, q.AudioMimeType = &payload, &mimeType
	}
	return nil
}

func (d *Draft) RemoveQuestion(index int) error {
	if _, err := d.at(index); err != nil {
		return err
	}
	if len(d.questions) <= 1 {
		return models.ErrLastQuestion
	}
	d.questions = append(d.questions[:index], d.questions[index+1:]...)
	return nil
}

// Validate reports the first problem found: title, then question texts, then
// multiple choice options.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return models.ErrTitleRequired
	}
	for i, q := range d.questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return fmt.Errorf("%w (question %d)", models.ErrQuestionTextRequired, i+1)
		}
	}
	for i, q := range d.questions {
		if q.Type == models.QuestionMultipleChoice && len(q.OptionList()) == 0 {
			return fmt.Errorf("%w (question %d)", models.ErrOptionsRequired, i+1)
		}
	}
	return nil
}

// Survey builds the create request. Options are only sent for multiple choice.
func (d *Draft) Survey() models.NewSurvey {
	questions := d.Questions()
	for i := range questions {
		if questions[i].Type != models.QuestionMultipleChoice {
			questions[i].Options = nil
		}
	}
	return models.NewSurvey{
		Title:       d.Title,
		Description: d.Description,
		Questions:   questions,
	}
}
