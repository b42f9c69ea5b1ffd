package domain

import "errors"

// Rejections are never surfaced to clients; they are logged and counted.
var (
	// ErrNotRunning is returned when an in-quiz action arrives outside a running quiz.
	ErrNotRunning = errors.New("quiz is not running")
	// ErrParticipantNotFound is returned when a connection acts before joining.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrAlreadyAnswered indicates a second submission for the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidElapsed indicates a negative or non-finite answer time.
	ErrInvalidElapsed = errors.New("invalid elapsed time")
	// ErrAlreadyFinished indicates a participant signalled completion twice.
	ErrAlreadyFinished = errors.New("participant already finished")
	// ErrInvalidQuestionSet is returned when loaded questions fail validation.
	ErrInvalidQuestionSet = errors.New("invalid question set")
)

// RejectionReason maps a rejection error to a short metric label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrNotRunning):
		return "not_running"
	case errors.Is(err, ErrParticipantNotFound):
		return "unknown_participant"
	case errors.Is(err, ErrAlreadyAnswered):
		return "duplicate_answer"
	case errors.Is(err, ErrQuestionNotFound):
		return "unknown_question"
	case errors.Is(err, ErrInvalidElapsed):
		return "invalid_elapsed"
	case errors.Is(err, ErrAlreadyFinished):
		return "duplicate_finish"
	default:
		return "other"
	}
}
