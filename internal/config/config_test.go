package config

import (
	"reflect"
	"testing"
)

func TestParseOrigins(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty means allow-all", "", nil},
		{"single", "https://exam.example.com", []string{"https://exam.example.com"}},
		{"multiple with spaces", "https://a.example.com, https://b.example.com", []string{"https://a.example.com", "https://b.example.com"}},
		{"skips empty entries", "https://a.example.com,,", []string{"https://a.example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseOrigins(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("parseOrigins(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VALID", "42")
	t.Setenv("TEST_INT_INVALID", "not-a-number")

	if got := getEnvInt("TEST_INT_VALID", 7); got != 42 {
		t.Errorf("valid int = %d, want 42", got)
	}
	if got := getEnvInt("TEST_INT_INVALID", 7); got != 7 {
		t.Errorf("invalid int = %d, want fallback 7", got)
	}
	if got := getEnvInt("TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("missing int = %d, want fallback 7", got)
	}
}
