package evaluator

import "testing"

func TestIsCorrect(t *testing.T) {
	cases := []struct {
		predicted string
		truth     string
		want      bool
	}{
		{"42", "42", true},
		{"Paris", "paris", true},
		{" Paris. ", "Paris", true},
		{"$1,234", "1234", true},
		{"3.0", "3", true},
		{"3.50", "3.5", true},
		{"a,b ; c", "a, b, c", true},
		{"50%", "50", true},
		{"I don't know!", "17", false},
		{"", "", true},
		{"", "x", false},
		{"Braintree", "Quincy", false},
	}

	for _, tc := range cases {
		if got := IsCorrect(tc.predicted, tc.truth); got != tc.want {
			t.Errorf("IsCorrect(%q, %q) = %v, want %v", tc.predicted, tc.truth, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Saint   Petersburg!"); got != "saint petersburg" {
		t.Errorf("Normalize = %q", got)
	}
	if got := Normalize("1,000,000"); got != "1000000" {
		t.Errorf("Normalize = %q", got)
	}
}
