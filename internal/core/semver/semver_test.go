package semver

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"1.0.0", Version{1, 0, 0}, false},
		{"0.0.1", Version{0, 0, 1}, false},
		{"12.34.56", Version{12, 34, 56}, false},
		{"1.0", Version{}, true},
		{"1.0.0.0", Version{}, true},
		{"v1.0.0", Version{}, true},
		{"1.0.0-beta", Version{}, true},
		{"1.00.0", Version{}, true},
		{"1..0", Version{}, true},
		{"", Version{}, true},
		{"a.b.c", Version{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNextPatch(t *testing.T) {
	t.Parallel()

	v := Version{1, 2, 9}
	if got := v.NextPatch().String(); got != "1.2.10" {
		t.Fatalf("NextPatch = %s, want 1.2.10", got)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.99.99", 1},
	}
	for _, tc := range cases {
		a, _ := Parse(tc.a)
		b, _ := Parse(tc.b)
		if got := Compare(a, b); got != tc.want {
			t.Fatalf("Compare(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
