package authoring

import (
	"github.com/jaam8/survey_client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNewDraftHasOneQuestion(t *testing.T) {
	d := New()
	require.Equal(t, 1, d.Len())
	assert.Equal(t, models.QuestionText, d.Questions()[0].Type)
}

func TestRemoveNeverBelowOne(t *testing.T) {
	for start := 1; start <= 4; start++ {
		d := New()
		for d.Len() < start {
			d.AddQuestion()
		}
		for i := 0; i < start+2; i++ {
			err := d.RemoveQuestion(0)
			if d.Len() == 1 && err != nil {
				assert.ErrorIs(t, err, models.ErrLastQuestion)
			}
			assert.GreaterOrEqual(t, d.Len(), 1)
		}
		assert.Equal(t, 1, d.Len())
	}
}

func TestRemoveByPosition(t *testing.T) {
	d := New()
	d.AddQuestion()
	d.AddQuestion()
	require.NoError(t, d.UpdateField(0, FieldText, "first"))
	require.NoError(t, d.UpdateField(1, FieldText, "second"))
	require.NoError(t, d.UpdateField(2, FieldText, "third"))

	require.NoError(t, d.RemoveQuestion(1))
	qs := d.Questions()
	assert.Equal(t, "first", qs[0].QuestionText)
	assert.Equal(t, "third", qs[1].QuestionText)

	assert.ErrorIs(t, d.RemoveQuestion(5), models.ErrQuestionIndex)
}

func TestUpdateField(t *testing.T) {
	d := New()
	require.NoError(t, d.UpdateField(0, FieldType, "multiple_choice"))
	require.NoError(t, d.UpdateField(0, FieldOptions, "a,b"))
	assert.Equal(t, models.QuestionMultipleChoice, d.Questions()[0].Type)

	assert.ErrorIs(t, d.UpdateField(0, FieldType, "slider"), models.ErrUnknownQuestionType)
	assert.ErrorIs(t, d.UpdateField(0, Field("color"), "red"), models.ErrUnknownField)
	assert.ErrorIs(t, d.UpdateField(3, FieldText, "x"), models.ErrQuestionIndex)
}

func TestUpdateAudioBothOrNeither(t *testing.T) {
	d := New()
	require.NoError(t, d.UpdateAudio(0, "data:audio/webm;base64,AA==", "audio/webm"))
	assert.True(t, d.Questions()[0].HasAudio())

	assert.ErrorIs(t, d.UpdateAudio(0, "data:x", ""), models.ErrAudioIncomplete)
	assert.True(t, d.Questions()[0].HasAudio())

	require.NoError(t, d.UpdateAudio(0, "", ""))
	q := d.Questions()[0]
	assert.Nil(t, q.AudioData)
	assert.Nil(t, q.AudioMimeType)
}

func TestValidateOrder(t *testing.T) {
	d := New()
	d.AddQuestion()
	require.NoError(t, d.UpdateField(1, FieldType, "MULTIPLE_CHOICE"))

	assert.ErrorIs(t, d.Validate(), models.ErrTitleRequired)

	d.Title = "  Lunch  "
	assert.ErrorIs(t, d.Validate(), models.ErrQuestionTextRequired)

	require.NoError(t, d.UpdateField(0, FieldText, "Q1"))
	require.NoError(t, d.UpdateField(1, FieldText, "Q2"))
	err := d.Validate()
	assert.ErrorIs(t, err, models.ErrOptionsRequired)
	assert.Contains(t, err.Error(), "question 2")

	require.NoError(t, d.UpdateField(1, FieldOptions, "   "))
	assert.ErrorIs(t, d.Validate(), models.ErrOptionsRequired)

	require.NoError(t, d.UpdateField(1, FieldOptions, " , ,"))
	assert.ErrorIs(t, d.Validate(), models.ErrOptionsRequired)

	require.NoError(t, d.UpdateField(1, FieldOptions, "Pizza, Salad"))
	assert.NoError(t, d.Validate())
}

func TestSurveyDropsStaleOptions(t *testing.T) {
	d := New()
	d.Title = "T"
	require.NoError(t, d.UpdateField(0, FieldText, "Q1"))
	require.NoError(t, d.UpdateField(0, FieldOptions, "a,b"))

	s := d.Survey()
	assert.Equal(t, "T", s.Title)
	require.Len(t, s.Questions, 1)
	assert.Nil(t, s.Questions[0].Options)
	// the draft itself is untouched
	assert.NotNil(t, d.Questions()[0].Options)
}
