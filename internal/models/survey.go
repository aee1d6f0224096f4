package models

import "strings"

type QuestionType string

const (
	QuestionText           QuestionType = "TEXT"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionRating         QuestionType = "RATING"
	QuestionYesNo          QuestionType = "YES_NO"
	QuestionAudio          QuestionType = "AUDIO"
)

var QuestionTypes = []QuestionType{
	QuestionText,
	QuestionMultipleChoice,
	QuestionRating,
	QuestionYesNo,
	QuestionAudio,
}

func ParseQuestionType(s string) (QuestionType, error) {
	for _, t := range QuestionTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", ErrUnknownQuestionType
}

type Survey struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Question: Options is a comma-joined list, required only for MULTIPLE_CHOICE.
// AudioData and AudioMimeType are either both set or both nil.
type Question struct {
	ID            int64        `json:"id,omitempty"`
	QuestionText  string       `json:"questionText"`
	Type          QuestionType `json:"type"`
	Options       *string      `json:"options"`
	AudioData     *string      `json:"audioData"`
	AudioMimeType *string      `json:"audioMimeType"`
}

// OptionList splits the stored options on commas, trims each and drops empty entries.
func (q Question) OptionList() []string {
	if q.Options == nil {
		return nil
	}
	var options []string
	for _, opt := range strings.Split(*q.Options, ",") {
		if opt = strings.TrimSpace(opt); opt != "" {
			options = append(options, opt)
		}
	}
	return options
}

func (q Question) HasAudio() bool {
	return q.AudioData != nil && q.AudioMimeType != nil
}

// NewSurvey is the body of a create-survey request; ids are assigned by the backend.
type NewSurvey struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}
