package logging

import "testing"

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		in   string
		dev  bool
		want string
	}{
		{"dev passthrough", "user@example.com", true, "user@example.com"},
		{"short value fully hidden", "a@b.cd", false, "***"},
		{"long value keeps preview", "user@example.com", false, "user...om"},
		{"reference number", "UZB-10838/25", false, "UZB-...25"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Redact(tc.in, tc.dev); got != tc.want {
				t.Fatalf("Redact(%q, %v) = %q, want %q", tc.in, tc.dev, got, tc.want)
			}
		})
	}
}
