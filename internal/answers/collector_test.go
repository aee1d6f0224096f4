package answers

import (
	"github.com/jaam8/survey_client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func strPtr(s string) *string { return &s }

func fullSurvey() models.Survey {
	return models.Survey{
		ID:    1,
		Title: "Team",
		Questions: []models.Question{
			{ID: 11, QuestionText: "Thoughts?", Type: models.QuestionText},
			{ID: 12, QuestionText: "Lunch?", Type: models.QuestionMultipleChoice, Options: strPtr("Pizza, Salad")},
			{ID: 13, QuestionText: "Rate", Type: models.QuestionRating},
			{ID: 14, QuestionText: "Again?", Type: models.QuestionYesNo},
			{ID: 15, QuestionText: "Say hi", Type: models.QuestionAudio},
		},
	}
}

func TestMissingAnswerBlocksSubmit(t *testing.T) {
	c := New(models.Survey{ID: 2, Questions: []models.Question{
		{ID: 1, QuestionText: "Name?", Type: models.QuestionText},
		{ID: 2, QuestionText: "Rate", Type: models.QuestionRating},
	}})
	require.NoError(t, c.SetAnswer(1, "Ann", ""))

	_, err := c.Build()
	var missing *models.MissingAnswersError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 1, missing.Count)
	assert.Contains(t, err.Error(), "missing 1 answer(s)")
	assert.Equal(t, []int64{2}, c.Missing())
}

func TestSubmitSucceedsIffAllAnswered(t *testing.T) {
	s := fullSurvey()
	answers := []struct {
		id    int64
		value any
		mime  string
	}{
		{11, "fine", ""},
		{12, "Salad", ""},
		{13, 4, ""},
		{14, true, ""},
		{15, "data:audio/webm;base64,AAAA", "audio/webm"},
	}
	c := New(s)
	for i, a := range answers {
		_, err := c.Build()
		assert.ErrorIs(t, err, models.ErrMissingAnswers, "after %d answers", i)
		require.NoError(t, c.SetAnswer(a.id, a.value, a.mime))
	}
	payload, err := c.Build()
	require.NoError(t, err)

	mime := "audio/webm"
	assert.Equal(t, []models.AnswerPayload{
		{QuestionID: 11, AnswerText: "fine"},
		{QuestionID: 12, AnswerText: "Salad"},
		{QuestionID: 13, AnswerText: "4"},
		{QuestionID: 14, AnswerText: "Yes"},
		{QuestionID: 15, AnswerText: "data:audio/webm;base64,AAAA", AudioMimeType: &mime},
	}, payload.Answers)
}

func TestUnknownQuestionRejected(t *testing.T) {
	c := New(fullSurvey())
	assert.ErrorIs(t, c.SetAnswer(99, "x", ""), models.ErrUnknownQuestion)
	assert.Len(t, c.Missing(), 5)
}

func TestPerTypeContract(t *testing.T) {
	c := New(fullSurvey())

	assert.ErrorIs(t, c.SetAnswer(11, "   ", ""), models.ErrEmptyAnswer)
	assert.ErrorIs(t, c.SetAnswer(11, 3, ""), models.ErrEmptyAnswer)
	assert.ErrorIs(t, c.SetAnswer(11, "hi", "audio/webm"), models.ErrNotAudioQuestion)

	assert.ErrorIs(t, c.SetAnswer(12, "Soup", ""), models.ErrInvalidOption)
	assert.NoError(t, c.SetAnswer(12, "Pizza", ""))

	assert.ErrorIs(t, c.SetAnswer(13, 0, ""), models.ErrRatingOutOfRange)
	assert.ErrorIs(t, c.SetAnswer(13, 6, ""), models.ErrRatingOutOfRange)
	assert.ErrorIs(t, c.SetAnswer(13, "5", ""), models.ErrRatingOutOfRange)
	assert.NoError(t, c.SetAnswer(13, 1, ""))

	assert.ErrorIs(t, c.SetAnswer(14, "maybe", ""), models.ErrInvalidYesNo)
	assert.NoError(t, c.SetAnswer(14, "no", ""))

	assert.ErrorIs(t, c.SetAnswer(15, "data:audio/webm;base64,AA", ""), models.ErrAudioIncomplete)
	assert.False(t, c.Answered(15))
}

func TestAnswerKeepsNativeValueUntilBuild(t *testing.T) {
	c := New(fullSurvey())
	require.NoError(t, c.SetAnswer(13, 5, ""))
	require.NoError(t, c.SetAnswer(13, 2, ""))

	e, ok := c.Answer(13)
	require.True(t, ok)
	assert.Equal(t, 2, e.AnswerText)
	assert.Nil(t, e.AudioMimeType)
}
