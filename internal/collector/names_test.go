package collector

import "testing"

func TestCleanName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"Doe, Jane", "Jane Doe"},
		{"doe, jane", "Jane Doe"},
		{"Jane Doe", "Jane Doe"},
		{"  SMITH,  JOHN  ", "John Smith"},
		{"Muñoz, José", "Jose Munoz"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanName(tc.raw); got != tc.want {
			t.Fatalf("CleanName(%q): got=%q want=%q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	// All spellings of the same person collapse to one key.
	want := NormalizeName("Jane Doe")
	for _, raw := range []string{"Doe, Jane", "JANE DOE", "jane  doe", "Jané Doe"} {
		if got := NormalizeName(raw); got != want {
			t.Fatalf("NormalizeName(%q): got=%q want=%q", raw, got, want)
		}
	}

	if NormalizeName("Jane Doe") == NormalizeName("John Doe") {
		t.Fatal("distinct names must not collide")
	}
}
