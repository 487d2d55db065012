package match

import "testing"

func TestCleanScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"2", "2"},
		{"2.0", "2"},
		{" 3 ", "3"},
		{"2.5", "2.5"},
		{"", "-"},
		{"-", "-"},
		{"NA", "-"},
		{"null", "-"},
		{"None", "-"},
		{"abc", "-"},
	}
	for _, tc := range cases {
		if got := CleanScore(tc.raw); got != tc.want {
			t.Fatalf("CleanScore(%q): got=%q want=%q", tc.raw, got, tc.want)
		}
	}
}

func TestParseScore(t *testing.T) {
	t.Parallel()

	if got := ParseScore("junk"); got != nil {
		t.Fatalf("expected nil for junk score, got %v", *got)
	}
	got := ParseScore("2")
	if got == nil || *got != 2 {
		t.Fatalf("ParseScore(2): got=%v", got)
	}
}

func TestHasFinalScores(t *testing.T) {
	t.Parallel()

	two := 2.0
	row := SnapshotRow{HomeScore: &two}
	if row.HasFinalScores() {
		t.Fatal("one-sided score should not count as final")
	}
	row.AwayScore = &two
	if !row.HasFinalScores() {
		t.Fatal("both scores present should count as final")
	}
}

func TestRatio(t *testing.T) {
	t.Parallel()

	if got := Ratio(0, 0); got != 0 {
		t.Fatalf("Ratio(0,0): got=%v want=0", got)
	}
	if got := Ratio(20, 18); got != 0.526 {
		t.Fatalf("Ratio(20,18): got=%v want=0.526", got)
	}
	if got := Ratio(1, 0); got != 1 {
		t.Fatalf("Ratio(1,0): got=%v want=1", got)
	}
}
