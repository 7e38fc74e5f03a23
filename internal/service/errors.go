package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced verbatim to handlers, which map them to response
// codes and user-visible messages.
var (
	// ErrConfigNotFound means the paper has no rubric attached. Fatal
	// misconfiguration — an operator problem, not something the test-taker
	// can resolve.
	ErrConfigNotFound = errors.New("exam configuration not found for paper")

	// ErrAlreadySubmitted means a submit lost the race or was a replay of a
	// request that already committed. Success-adjacent: the session IS
	// finalized, just not by this call.
	ErrAlreadySubmitted = errors.New("exam session already submitted")

	// ErrSessionNotFound covers both a bad session ID and an ownership
	// mismatch. The two cases are logged distinctly but reported identically,
	// so a probing client learns nothing about other users' sessions.
	ErrSessionNotFound = errors.New("exam session not found")

	// ErrPaperNotFound means the requested paper does not exist or is not
	// published.
	ErrPaperNotFound = errors.New("paper not found")
)

// Reasons a start request can be refused.
const (
	ReasonCategoryNotAllowed = "your staff category is not permitted to take this exam"
	ReasonAlreadyCompleted   = "you have already completed this exam"
)

// IneligibleError explains why a user may not start a paper. The reason is
// rendered to the end user, so it is always populated.
type IneligibleError struct {
	Reason string
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("not eligible to start exam: %s", e.Reason)
}

// AsIneligible unwraps err into an *IneligibleError, if it is one.
func AsIneligible(err error) (*IneligibleError, bool) {
	var ie *IneligibleError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
