package database

import "testing"

func TestSearchPathQuotesSchema(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"demo_school", `"demo_school", public`},
		{`evil"; DROP TABLE x; --`, `"evil""; DROP TABLE x; --", public`},
	}
	for _, tt := range tests {
		if got := SearchPath(tt.in); got != tt.want {
			t.Fatalf("SearchPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
