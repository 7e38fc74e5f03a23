package service

import "strings"

// categoryAllowed reports whether the user's category appears in the paper's
// comma-delimited allowed set. An empty allowed set admits nobody — papers
// are always targeted at explicit categories.
func categoryAllowed(userCategory, allowedCSV string) bool {
	userCategory = strings.TrimSpace(userCategory)
	if userCategory == "" {
		return false
	}
	for _, c := range strings.Split(allowedCSV, ",") {
		if strings.TrimSpace(c) == userCategory {
			return true
		}
	}
	return false
}

// evaluateEligibility is the pure eligibility decision. A prior terminal
// attempt is final unless an administrator set the force-retake override;
// the override never bypasses the category gate.
func evaluateEligibility(userCategory, allowedCSV string, hasTerminalAttempt, forceRetake bool) error {
	if !categoryAllowed(userCategory, allowedCSV) {
		return &IneligibleError{Reason: ReasonCategoryNotAllowed}
	}
	if hasTerminalAttempt && !forceRetake {
		return &IneligibleError{Reason: ReasonAlreadyCompleted}
	}
	return nil
}
