package models

import (
	"fmt"
	jsoniter "github.com/json-iterator/go"
)

type ReportPayload struct {
	SurveyTitle     string           `json:"surveyTitle"`
	TotalResponses  int              `json:"totalResponses"`
	QuestionReports []QuestionReport `json:"questionReports"`
}

type QuestionReport struct {
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
	AnswerCounts AnswerCounts `json:"answerCounts"`
	// AllAnswers is filled for TEXT questions only.
	AllAnswers []string `json:"allAnswers"`
	// AudioAnswers is filled for AUDIO questions only.
	AudioAnswers []string `json:"audioAnswers"`
}

type AnswerCount struct {
	Label string
	Count int
}

// AnswerCounts is a label->count mapping that keeps the order the backend
// enumerated it in.
type AnswerCounts []AnswerCount

func (c AnswerCounts) Total() int {
	total := 0
	for _, ac := range c {
		total += ac.Count
	}
	return total
}

func (c *AnswerCounts) UnmarshalJSON(data []byte) error {
	api := jsoniter.ConfigCompatibleWithStandardLibrary
	iter := api.BorrowIterator(data)
	defer api.ReturnIterator(iter)

	counts := AnswerCounts{}
	index := make(map[string]int)
	iter.ReadMapCB(func(it *jsoniter.Iterator, label string) bool {
		count := it.ReadInt()
		if i, ok := index[label]; ok {
			counts[i].Count = count
			return true
		}
		index[label] = len(counts)
		counts = append(counts, AnswerCount{Label: label, Count: count})
		return true
	})
	if iter.Error != nil {
		return fmt.Errorf("models: failed to decode answer counts: %w", iter.Error)
	}
	*c = counts
	return nil
}

func (c AnswerCounts) MarshalJSON() ([]byte, error) {
	api := jsoniter.ConfigCompatibleWithStandardLibrary
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, ac := range c {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(ac.Label)
		stream.WriteInt(ac.Count)
	}
	stream.WriteObjectEnd()
	if stream.Error != nil {
		return nil, fmt.Errorf("models: failed to encode answer counts: %w", stream.Error)
	}
	return append([]byte(nil), stream.Buffer()...), nil
}
