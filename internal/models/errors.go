package models

import (
	"errors"
	"fmt"
)

var (
	ErrBackendUnreachable = errors.New("cannot connect to server, please ensure the backend is running")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAdmin           = errors.New("only admins can perform this action")
	ErrRegistration       = errors.New("registration failed")
	ErrSubmitRejected     = errors.New("failed to submit survey")
	ErrUnexpectedStatus   = errors.New("unexpected backend status")

	ErrFieldsRequired       = errors.New("please fill in all fields")
	ErrInvalidEmail         = errors.New("email is not valid")
	ErrTitleRequired        = errors.New("please enter a survey title")
	ErrQuestionTextRequired = errors.New("please fill in all question texts")
	ErrOptionsRequired      = errors.New("please provide options for all multiple choice questions")
	ErrLastQuestion         = errors.New("survey must have at least one question")
	ErrQuestionIndex        = errors.New("question index is out of range")
	ErrUnknownQuestionType  = errors.New("unknown question type")
	ErrUnknownField         = errors.New("unknown question field")
	ErrAudioIncomplete      = errors.New("audio data and mime type must be set together")
	ErrMissingAnswers       = errors.New("please answer all questions")
	ErrUnknownQuestion      = errors.New("question is not part of this survey")
	ErrEmptyAnswer          = errors.New("answer is empty")
	ErrInvalidOption        = errors.New("answer is not one of the options")
	ErrRatingOutOfRange     = errors.New("rating must be an integer from 1 to 5")
	ErrInvalidYesNo         = errors.New("answer must be yes or no")
	ErrNotAudioQuestion     = errors.New("question does not take an audio answer")
	ErrRecordingInProgress  = errors.New("finish or discard the recording first")

	ErrCaptureDenied = errors.New("unable to access microphone, please grant permission")
	ErrCaptureBusy   = errors.New("recording is already in progress")
	ErrNotRecording  = errors.New("not recording")
	ErrNoAudio       = errors.New("no audio was captured")

	ErrNotAuthenticated = errors.New("please login first")
	ErrWrongView        = errors.New("action is not available on this screen")
	ErrSurveyNotFound   = errors.New("survey is not found")
)

// MissingAnswersError blocks a submission until every question has an entry.
type MissingAnswersError struct {
	Count int
}

func (e *MissingAnswersError) Error() string {
	return fmt.Sprintf("please answer all questions, missing %d answer(s)", e.Count)
}

func (e *MissingAnswersError) Is(target error) bool {
	return target == ErrMissingAnswers
}

type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureConnectivity
	FailureAuthorization
	FailureValidation
	FailureCapture
)

func (k FailureKind) String() string {
	switch k {
	case FailureConnectivity:
		return "connectivity"
	case FailureAuthorization:
		return "authorization"
	case FailureValidation:
		return "validation"
	case FailureCapture:
		return "capture"
	default:
		return "unknown"
	}
}

var kinds = []struct {
	kind FailureKind
	errs []error
}{
	{FailureConnectivity, []error{ErrBackendUnreachable}},
	{FailureAuthorization, []error{ErrInvalidCredentials, ErrNotAdmin, ErrNotAuthenticated}},
	{FailureCapture, []error{ErrCaptureDenied, ErrCaptureBusy, ErrNotRecording, ErrNoAudio}},
	{FailureValidation, []error{
		ErrFieldsRequired, ErrInvalidEmail, ErrTitleRequired, ErrQuestionTextRequired,
		ErrOptionsRequired, ErrLastQuestion, ErrQuestionIndex, ErrUnknownQuestionType,
		ErrUnknownField, ErrAudioIncomplete, ErrMissingAnswers, ErrUnknownQuestion,
		ErrEmptyAnswer, ErrInvalidOption, ErrRatingOutOfRange, ErrInvalidYesNo,
		ErrNotAudioQuestion, ErrRecordingInProgress,
	}},
}

// KindOf classifies err into the failure taxonomy.
func KindOf(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}
	return FailureUnknown
}
