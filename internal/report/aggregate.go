package report

import (
	"github.com/jaam8/survey_client/internal/models"
	"math"
	"strconv"
)

type Kind int

const (
	KindChart Kind = iota
	KindText
	KindAudio
	KindUnsupported
)

type Point struct {
	Label string
	Count int
}

type Slice struct {
	Label   string
	Count   int
	Percent int
}

// Text is the pie label, e.g. "Pizza: 40%".
func (s Slice) Text() string {
	return s.Label + ": " + strconv.Itoa(s.Percent) + "%"
}

type AudioAnswer struct {
	Number  int
	Payload string
}

// Question is the chart-ready view of one question report.
type Question struct {
	Text  string
	Type  models.QuestionType
	Kind  Kind
	Total int
	Bars  []Point
	Pie   []Slice
	Texts []string
	Audio []AudioAnswer
}

// Aggregate turns one question report into chart input. Counts keep the order
// the backend sent them in.
func Aggregate(qr models.QuestionReport) Question {
	q := Question{Text: qr.QuestionText, Type: qr.QuestionType}
	switch qr.QuestionType {
	case models.QuestionMultipleChoice, models.QuestionYesNo, models.QuestionRating:
		q.Kind = KindChart
		q.Total = qr.AnswerCounts.Total()
		q.Bars = make([]Point, 0, len(qr.AnswerCounts))
		q.Pie = make([]Slice, 0, len(qr.AnswerCounts))
		for _, ac := range qr.AnswerCounts {
			q.Bars = append(q.Bars, Point{Label: ac.Label, Count: ac.Count})
			q.Pie = append(q.Pie, Slice{Label: ac.Label, Count: ac.Count, Percent: percent(ac.Count, q.Total)})
		}
	case models.QuestionText:
		q.Kind = KindText
		q.Texts = qr.AllAnswers
		q.Total = len(qr.AllAnswers)
	case models.QuestionAudio:
		q.Kind = KindAudio
		q.Audio = make([]AudioAnswer, len(qr.AudioAnswers))
		for i, payload := range qr.AudioAnswers {
			q.Audio[i] = AudioAnswer{Number: i + 1, Payload: payload}
		}
		q.Total = len(qr.AudioAnswers)
	default:
		q.Kind = KindUnsupported
	}
	return q
}

// Build aggregates every question of a report in order.
func Build(payload models.ReportPayload) []Question {
	out := make([]Question, len(payload.QuestionReports))
	for i, qr := range payload.QuestionReports {
		out[i] = Aggregate(qr)
	}
	return out
}

func percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(total)))
}
