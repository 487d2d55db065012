package logos

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"

	"github.com/americascouted/ncaa-stats/internal/platform/logging"
)

// ErrNotFound is returned when no logo file matches a team name.
var ErrNotFound = crerr.New("logos: not found")

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	allowedRe = regexp.MustCompile(`[^A-Za-z0-9.\- _()&']`)
	imageExts = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true,
		".gif": true, ".webp": true, ".svg": true,
	}
)

// Slugify converts a team name into the filename stem the logo scraper
// writes: collapsed whitespace, slashes to hyphens, a restricted character
// set, spaces to underscores, no trailing period.
func Slugify(name string) string {
	name = strings.TrimSpace(spaceRe.ReplaceAllString(name, " "))
	name = strings.ReplaceAll(name, "/", "-")
	name = allowedRe.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.TrimRight(name, ".")
}

// normalize is the looser matching key used when an exact slug misses.
func normalize(slug string) string {
	s := strings.ToLower(slug)
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.ReplaceAll(s, "&", "")
	return s
}

type entry struct {
	normalized string
	filename   string
}

type index struct {
	bySlug  map[string]string
	entries []entry
}

// Index maps team names to logo files in a static directory. The whole
// index is rebuilt and swapped atomically so lookups never see a partial
// scan.
type Index struct {
	dir    string
	logger *logging.Logger

	mu  sync.RWMutex
	idx *index
}

func NewIndex(dir string, logger *logging.Logger) *Index {
	if logger == nil {
		logger = logging.Default()
	}
	return &Index{dir: dir, logger: logger, idx: &index{bySlug: map[string]string{}}}
}

// Rebuild rescans the logos directory. A missing directory yields an empty
// index rather than an error so the API can run without static assets.
func (x *Index) Rebuild(ctx context.Context) error {
	next := &index{bySlug: make(map[string]string)}

	dirEntries, err := os.ReadDir(x.dir)
	if err != nil {
		if os.IsNotExist(err) {
			x.logger.WarnContext(ctx, "logos directory missing", "dir", x.dir)
			x.swap(next)
			return nil
		}
		return crerr.Wrapf(err, "logos: read dir %s", x.dir)
	}

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !imageExts[ext] {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if _, dup := next.bySlug[stem]; dup {
			continue
		}
		next.bySlug[stem] = name
		next.entries = append(next.entries, entry{normalized: normalize(stem), filename: name})
	}

	x.swap(next)
	x.logger.DebugContext(ctx, "logo index rebuilt", "dir", x.dir, "count", len(next.bySlug))
	return nil
}

func (x *Index) swap(next *index) {
	x.mu.Lock()
	x.idx = next
	x.mu.Unlock()
}

func (x *Index) snapshot() *index {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.idx
}

// Lookup resolves a team name to an absolute logo path. It tries the exact
// slug first, then falls back to normalized prefix and containment matches.
func (x *Index) Lookup(teamName string) (string, error) {
	idx := x.snapshot()
	slug := Slugify(teamName)
	if slug == "" {
		return "", ErrNotFound
	}

	if filename, ok := idx.bySlug[slug]; ok {
		return filepath.Join(x.dir, filename), nil
	}

	norm := normalize(slug)
	if norm == "" {
		return "", ErrNotFound
	}
	for _, e := range idx.entries {
		if strings.HasPrefix(e.normalized, norm) || strings.HasPrefix(norm, e.normalized) {
			return filepath.Join(x.dir, e.filename), nil
		}
	}
	for _, e := range idx.entries {
		if strings.Contains(e.normalized, norm) || strings.Contains(norm, e.normalized) {
			return filepath.Join(x.dir, e.filename), nil
		}
	}
	return "", ErrNotFound
}

// Has reports whether a logo exists for the team without exposing the path.
func (x *Index) Has(teamName string) bool {
	_, err := x.Lookup(teamName)
	return err == nil
}
