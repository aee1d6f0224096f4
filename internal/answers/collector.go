package answers

import (
	"fmt"
	"github.com/jaam8/survey_client/internal/models"
	"strconv"
	"strings"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Collector holds the in-progress answers for one survey, keyed by question id.
type Collector struct {
	survey  models.Survey
	byID    map[int64]models.Question
	entries map[int64]models.AnswerEntry
}

func New(survey models.Survey) *Collector {
	byID := make(map[int64]models.Question, len(survey.Questions))
	for _, q := range survey.Questions {
		byID[q.ID] = q
	}
	return &Collector{
		survey:  survey,
		byID:    byID,
		entries: make(map[int64]models.AnswerEntry, len(survey.Questions)),
	}
}

func (c *Collector) Survey() models.Survey {
	return c.survey
}

func (c *Collector) Question(questionID int64) (models.Question, bool) {
	q, ok := c.byID[questionID]
	return q, ok
}

// SetAnswer upserts the answer to one question after checking it against the
// question type. mimeType is only accepted for AUDIO questions.
func (c *Collector) SetAnswer(questionID int64, value any, mimeType string) error {
	q, ok := c.byID[questionID]
	if !ok {
		return fmt.Errorf("answers: %w: %d", models.ErrUnknownQuestion, questionID)
	}
	if q.Type != models.QuestionAudio && mimeType != "" {
		return fmt.Errorf("answers: %w: %d", models.ErrNotAudioQuestion, questionID)
	}
	if err := check(q, value, mimeType); err != nil {
		return fmt.Errorf("answers: question %d: %w", questionID, err)
	}

	entry := models.AnswerEntry{AnswerText: value}
	if mimeType != "" {
		entry.AudioMimeType = &mimeType
	}
	c.entries[questionID] = entry
	return nil
}

func check(q models.Question, value any, mimeType string) error {
	switch q.Type {
	case models.QuestionText:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return models.ErrEmptyAnswer
		}
	case models.QuestionMultipleChoice:
		s, _ := value.(string)
		for _, opt := range q.OptionList() {
			if s == opt {
				return nil
			}
		}
		return models.ErrInvalidOption
	case models.QuestionRating:
		var r int
		switch v := value.(type) {
		case int:
			r = v
		case int64:
			r = int(v)
		default:
			return models.ErrRatingOutOfRange
		}
		if r < MinRating || r > MaxRating {
			return models.ErrRatingOutOfRange
		}
	case models.QuestionYesNo:
		switch v := value.(type) {
		case bool:
		case string:
			if !strings.EqualFold(v, "yes") && !strings.EqualFold(v, "no") {
				return models.ErrInvalidYesNo
			}
		default:
			return models.ErrInvalidYesNo
		}
	case models.QuestionAudio:
		s, _ := value.(string)
		if s == "" || mimeType == "" {
			return models.ErrAudioIncomplete
		}
	default:
		return models.ErrUnknownQuestionType
	}
	return nil
}

func (c *Collector) Answer(questionID int64) (models.AnswerEntry, bool) {
	e, ok := c.entries[questionID]
	return e, ok
}

// Answered reports whether an entry exists, whatever its value.
func (c *Collector) Answered(questionID int64) bool {
	_, ok := c.entries[questionID]
	return ok
}

// Missing lists unanswered question ids in survey order.
func (c *Collector) Missing() []int64 {
	var missing []int64
	for _, q := range c.survey.Questions {
		if !c.Answered(q.ID) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Build projects the entries into the wire payload, stringifying every value.
// It fails unless every question of the survey has an entry.
func (c *Collector) Build() (models.ResponsePayload, error) {
	if missing := c.Missing(); len(missing) > 0 {
		return models.ResponsePayload{}, &models.MissingAnswersError{Count: len(missing)}
	}
	payload := models.ResponsePayload{Answers: make([]models.AnswerPayload, 0, len(c.survey.Questions))}
	for _, q := range c.survey.Questions {
		e := c.entries[q.ID]
		payload.Answers = append(payload.Answers, models.AnswerPayload{
			QuestionID:    q.ID,
			AnswerText:    stringify(q.Type, e.AnswerText),
			AudioMimeType: e.AudioMimeType,
		})
	}
	return payload, nil
}

func stringify(qt models.QuestionType, v any) string {
	switch x := v.(type) {
	case string:
		if qt == models.QuestionYesNo {
			if strings.EqualFold(x, "yes") {
				return "Yes"
			}
			return "No"
		}
		return x
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}
