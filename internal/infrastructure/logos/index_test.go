package logos

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/americascouted/ncaa-stats/internal/platform/logging"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want string
	}{
		{"Wake Forest", "Wake_Forest"},
		{"St. John's (NY)", "St._John's_(NY)"},
		{"Texas A&M", "Texas_A&M"},
		{"UC  Santa   Barbara", "UC_Santa_Barbara"},
		{"Miami/Ohio", "Miami-Ohio"},
		{"Team Inc.", "Team_Inc"},
		{"Côte d'Or", "Cte_d'Or"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.name); got != tc.want {
			t.Fatalf("Slugify(%q): got=%q want=%q", tc.name, got, tc.want)
		}
	}
}

func newTestIndex(t *testing.T, files ...string) (*Index, string) {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("img"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
	idx := NewIndex(dir, logging.NewNop())
	if err := idx.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild error: %v", err)
	}
	return idx, dir
}

func TestIndex_Lookup(t *testing.T) {
	t.Parallel()

	idx, dir := newTestIndex(t,
		"Wake_Forest.png",
		"St._John's_(NY).jpg",
		"readme.txt",
	)

	path, err := idx.Lookup("Wake Forest")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if path != filepath.Join(dir, "Wake_Forest.png") {
		t.Fatalf("unexpected path: %s", path)
	}

	// Hyphenated URL slugs resolve through the normalized fallback.
	if _, err := idx.Lookup("wake-forest"); err != nil {
		t.Fatalf("normalized lookup failed: %v", err)
	}
	if _, err := idx.Lookup("st johns ny"); err != nil {
		t.Fatalf("punctuation-free lookup failed: %v", err)
	}

	if _, err := idx.Lookup("Nowhere State"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := idx.Lookup("readme"); err == nil {
		t.Fatal("non-image file should not be indexed")
	}

	if !idx.Has("Wake Forest") || idx.Has("Nowhere State") {
		t.Fatal("Has disagrees with Lookup")
	}
}

func TestIndex_MissingDirIsEmpty(t *testing.T) {
	t.Parallel()

	idx := NewIndex(filepath.Join(t.TempDir(), "absent"), logging.NewNop())
	if err := idx.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild of missing dir should not error: %v", err)
	}
	if idx.Has("Anything") {
		t.Fatal("empty index should not match")
	}
}

func TestIndex_RebuildPicksUpNewFiles(t *testing.T) {
	t.Parallel()

	idx, dir := newTestIndex(t, "Duke.png")
	if idx.Has("Clemson") {
		t.Fatal("unexpected match before rebuild")
	}

	if err := os.WriteFile(filepath.Join(dir, "Clemson.png"), []byte("img"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := idx.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild error: %v", err)
	}
	if !idx.Has("Clemson") {
		t.Fatal("rebuild missed new file")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := normalize("St._John's_(NY)"); got != "stjohnsny" {
		t.Fatalf("normalize: got=%q", got)
	}
	if !strings.EqualFold(normalize("WAKE-FOREST"), normalize("wake_forest")) {
		t.Fatal("normalize should erase separator differences")
	}
}
