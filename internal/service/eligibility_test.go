package service

import (
	"errors"
	"testing"
)

func TestCategoryAllowed(t *testing.T) {
	cases := []struct {
		name     string
		category string
		allowed  string
		want     bool
	}{
		{"member", "nurse", "nurse,doctor", true},
		{"member with spaces", "doctor", "nurse, doctor ,pharmacist", true},
		{"non-member", "technician", "nurse,doctor", false},
		{"empty allowed set", "nurse", "", false},
		{"empty category", "", "nurse,doctor", false},
		{"no partial match", "nurse", "nursery,doctor", false},
		{"single entry", "nurse", "nurse", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := categoryAllowed(tc.category, tc.allowed); got != tc.want {
				t.Errorf("categoryAllowed(%q, %q) = %v, want %v", tc.category, tc.allowed, got, tc.want)
			}
		})
	}
}

func TestEvaluateEligibility(t *testing.T) {
	cases := []struct {
		name        string
		category    string
		allowed     string
		terminal    bool
		forceRetake bool
		wantErr     bool
		wantReason  string
	}{
		{"first attempt allowed", "nurse", "nurse,doctor", false, false, false, ""},
		{"wrong category", "technician", "nurse,doctor", false, false, true, ReasonCategoryNotAllowed},
		{"already completed", "nurse", "nurse,doctor", true, false, true, ReasonAlreadyCompleted},
		{"retake granted", "nurse", "nurse,doctor", true, true, false, ""},
		{"retake cannot bypass category gate", "technician", "nurse,doctor", true, true, true, ReasonCategoryNotAllowed},
		{"override without prior attempt is inert", "nurse", "nurse,doctor", false, true, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := evaluateEligibility(tc.category, tc.allowed, tc.terminal, tc.forceRetake)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			ie, ok := AsIneligible(err)
			if !ok {
				t.Fatalf("expected IneligibleError, got %v", err)
			}
			if ie.Reason != tc.wantReason {
				t.Errorf("reason = %q, want %q", ie.Reason, tc.wantReason)
			}
		})
	}
}

func TestAsIneligibleNonMatch(t *testing.T) {
	if _, ok := AsIneligible(errors.New("boom")); ok {
		t.Error("plain error must not unwrap as IneligibleError")
	}
	if _, ok := AsIneligible(nil); ok {
		t.Error("nil must not unwrap as IneligibleError")
	}
}
