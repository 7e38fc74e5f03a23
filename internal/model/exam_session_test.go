package model

import "testing"

func TestSessionStatusTerminal(t *testing.T) {
	cases := []struct {
		status SessionStatus
		want   bool
	}{
		{SessionStatusInProgress, false},
		{SessionStatusCompleted, true},
		{SessionStatusTimeout, true},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.want {
			t.Errorf("%s.Terminal() = %v, want %v", tc.status, got, tc.want)
		}
	}
}
