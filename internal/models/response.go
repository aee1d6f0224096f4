package models

// AnswerEntry keeps the answer as entered; it is stringified only when the
// response payload is built.
type AnswerEntry struct {
	AnswerText    any
	AudioMimeType *string
}

type ResponsePayload struct {
	Answers []AnswerPayload `json:"answers"`
}

type AnswerPayload struct {
	QuestionID    int64   `json:"questionId"`
	AnswerText    string  `json:"answerText"`
	AudioMimeType *string `json:"audioMimeType"`
}
