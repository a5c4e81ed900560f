package wizard

import "errors"

var (
	ErrUnknownField       = errors.New("unknown field")
	ErrNotFinalStep       = errors.New("submission is only allowed on the last step")
	ErrGateClosed         = errors.New("required fields are incomplete")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)
