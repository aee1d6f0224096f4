package api

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/jaam8/survey_client/internal/capture"
	"github.com/jaam8/survey_client/internal/models"
	"github.com/jaam8/survey_client/internal/report"
	"github.com/jaam8/survey_client/internal/service"
	"github.com/mattn/go-runewidth"
	"strings"
)

const barWidth = 30

// Render draws the screen for the controller's current view.
func Render(s *service.SessionController) string {
	var b strings.Builder
	view := s.View()
	if s.Unreachable() {
		if view.Authenticated() {
			b.WriteString("**Connection Error**: cannot connect to the backend server. Please ensure it is running.\n\n")
		} else {
			b.WriteString("Backend server not connected.\n\n")
		}
	}
	if user := s.User(); user != nil && view.Authenticated() {
		fmt.Fprintf(&b, "Welcome, %s (%s) | home | logout", user.Username, user.Role)
		if user.IsAdmin() {
			b.WriteString(" | create")
		}
		b.WriteString("\n\n")
	}

	switch view {
	case models.ViewLogin:
		renderLogin(&b)
	case models.ViewRegister:
		renderRegister(&b)
	case models.ViewHome:
		renderHome(&b, s)
	case models.ViewCreate:
		renderCreate(&b, s)
	case models.ViewTake:
		renderTake(&b, s)
	case models.ViewReport:
		renderReport(&b, s.ActiveReport())
	default:
		fmt.Fprintf(&b, "unknown view %d\n", int(view))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderLogin(b *strings.Builder) {
	b.WriteString("**Login**\n")
	b.WriteString("`login <username> <password>`\n")
	b.WriteString("Don't have an account? `register`\n")
}

func renderRegister(b *strings.Builder) {
	b.WriteString("**Register**\n")
	b.WriteString("`register <username> <email> <password> [admin]`\n")
	b.WriteString("Already have an account? `back`\n")
}

func renderHome(b *strings.Builder, s *service.SessionController) {
	b.WriteString("**Available Surveys**\n")
	surveys := s.Surveys()
	if len(surveys) == 0 {
		b.WriteString("No surveys available.\n")
		return
	}
	for _, survey := range surveys {
		fmt.Fprintf(b, "[%d] *%s* (%d questions)\n", survey.ID, survey.Title, len(survey.Questions))
		if survey.Description != "" {
			fmt.Fprintf(b, "    %s\n", survey.Description)
		}
	}
	b.WriteString("\n`take <id>`")
	if s.User().IsAdmin() {
		b.WriteString(" | `report <id>`")
	}
	b.WriteString("\n")
}

func renderCreate(b *strings.Builder, s *service.SessionController) {
	d := s.Draft()
	b.WriteString("**Create New Survey**\n")
	fmt.Fprintf(b, "Title: %s\n", placeholder(d.Title))
	fmt.Fprintf(b, "Description: %s\n\n", placeholder(d.Description))
	recording := s.RecordingState() == capture.StateRecording
	for i, q := range d.Questions() {
		fmt.Fprintf(b, "Question %d [%s]: %s\n", i+1, q.Type, placeholder(q.QuestionText))
		if q.Type == models.QuestionMultipleChoice {
			opts := ""
			if q.Options != nil {
				opts = *q.Options
			}
			fmt.Fprintf(b, "    options: %s\n", placeholder(opts))
		}
		if q.HasAudio() {
			fmt.Fprintf(b, "    audio: %s (%s)\n", *q.AudioMimeType, humanize.Bytes(uint64(len(*q.AudioData))))
		}
		if recording && s.RecordingTarget() == i+1 {
			b.WriteString("    recording... `stop` when done\n")
		}
	}
	b.WriteString("\n`title <text>` | `description <text>` | `add` | `remove <n>` | `question <n> <text>` | `type <n> <TYPE>` | `options <n> <a,b,c>` | `record <n>` | `submit` | `cancel`\n")
}

func renderTake(b *strings.Builder, s *service.SessionController) {
	survey := s.ActiveSurvey()
	collector := s.Answers()
	fmt.Fprintf(b, "**%s**\n", survey.Title)
	if survey.Description != "" {
		fmt.Fprintf(b, "%s\n", survey.Description)
	}
	b.WriteString("\n")
	recording := s.RecordingState() == capture.StateRecording
	for i, q := range survey.Questions {
		mark := " "
		if collector.Answered(q.ID) {
			mark = "x"
		}
		fmt.Fprintf(b, "[%s] %d. %s (id %d)\n", mark, i+1, q.QuestionText, q.ID)
		if q.HasAudio() {
			fmt.Fprintf(b, "    question audio: %s (%s)\n", *q.AudioMimeType, humanize.Bytes(uint64(len(*q.AudioData))))
		}
		switch q.Type {
		case models.QuestionText:
			fmt.Fprintf(b, "    `answer %d <text>`\n", q.ID)
		case models.QuestionMultipleChoice:
			fmt.Fprintf(b, "    `answer %d <option>`: %s\n", q.ID, strings.Join(q.OptionList(), " / "))
		case models.QuestionRating:
			fmt.Fprintf(b, "    `rate %d <1-5>`\n", q.ID)
		case models.QuestionYesNo:
			fmt.Fprintf(b, "    `answer %d yes|no`\n", q.ID)
		case models.QuestionAudio:
			if recording && s.RecordingTarget() == int(q.ID) {
				b.WriteString("    recording... `stop` when done\n")
			} else {
				fmt.Fprintf(b, "    `record %d`\n", q.ID)
			}
		}
		if e, ok := collector.Answer(q.ID); ok {
			fmt.Fprintf(b, "    your answer: %s\n", describeAnswer(q, e))
		}
	}
	b.WriteString("\n`submit` | `home`\n")
}

func describeAnswer(q models.Question, e models.AnswerEntry) string {
	if q.Type == models.QuestionAudio {
		payload, _ := e.AnswerText.(string)
		return fmt.Sprintf("recorded audio (%s)", humanize.Bytes(uint64(len(payload))))
	}
	return fmt.Sprint(e.AnswerText)
}

func renderReport(b *strings.Builder, payload *models.ReportPayload) {
	fmt.Fprintf(b, "**%s - Report**\n", payload.SurveyTitle)
	fmt.Fprintf(b, "Total Responses: %s\n\n", humanize.Comma(int64(payload.TotalResponses)))
	for i, q := range report.Build(*payload) {
		fmt.Fprintf(b, "%d. %s\n", i+1, q.Text)
		switch q.Kind {
		case report.KindChart:
			renderChart(b, q)
		case report.KindText:
			for _, answer := range q.Texts {
				fmt.Fprintf(b, "    > %s\n", answer)
			}
		case report.KindAudio:
			for _, a := range q.Audio {
				fmt.Fprintf(b, "    Response #%d: audio (%s)\n", a.Number, humanize.Bytes(uint64(len(a.Payload))))
			}
		case report.KindUnsupported:
			fmt.Fprintf(b, "    no chart for %s questions\n", q.Type)
		}
		b.WriteString("\n")
	}
	b.WriteString("`home`\n")
}

func renderChart(b *strings.Builder, q report.Question) {
	labelWidth, top := 0, 0
	for _, p := range q.Bars {
		labelWidth = max(labelWidth, runewidth.StringWidth(p.Label))
		top = max(top, p.Count)
	}
	b.WriteString("```\n")
	for i, p := range q.Bars {
		bar := 0
		if top > 0 {
			bar = p.Count * barWidth / top
		}
		fmt.Fprintf(b, "%s | %s %d  (%s)\n",
			runewidth.FillRight(p.Label, labelWidth),
			runewidth.FillRight(strings.Repeat("#", bar), barWidth),
			p.Count,
			q.Pie[i].Text())
	}
	b.WriteString("```\n")
}

func placeholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return "_(empty)_"
	}
	return s
}
