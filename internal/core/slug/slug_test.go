package slug

import "testing"

func TestMake(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"City Quest", "city-quest"},
		{"  Café   Crawl  ", "cafe-crawl"},
		{"Über: Die Stadt!", "uber-die-stadt"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER_case mix", "upper-case-mix"},
		{"123 go", "123-go"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			if got := Make(tc.in); got != tc.want {
				t.Fatalf("Make(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	valid := []string{"a", "city-quest", "a1-b2", "123"}
	invalid := []string{"", "City", "has space", "under_score", "dot.dot"}

	for _, s := range valid {
		if !Valid(s) {
			t.Fatalf("Valid(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if Valid(s) {
			t.Fatalf("Valid(%q) = true, want false", s)
		}
	}
}

func TestMakeOutputIsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"City Quest", "Über: Die Stadt!", "¡Hola señor!"} {
		if got := Make(s); got != "" && !Valid(got) {
			t.Fatalf("Make(%q) = %q, not a valid slug", s, got)
		}
	}
}
