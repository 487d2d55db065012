package snapshotcsv

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/americascouted/ncaa-stats/internal/domain/week"
	"github.com/americascouted/ncaa-stats/internal/platform/cache"
)

const weekIndexCacheKey = "snapshot:weeks"

// WeekIndex discovers available snapshot weeks from player filenames. The
// scan result is cached until explicitly invalidated; the store itself is
// append-only so staleness only hides weeks added after startup.
type WeekIndex struct {
	store *Store
	cache *cache.Store
}

func NewWeekIndex(store *Store, cacheStore *cache.Store) *WeekIndex {
	if cacheStore == nil {
		cacheStore = cache.NewStore(0)
	}
	return &WeekIndex{store: store, cache: cacheStore}
}

func (i *WeekIndex) ListWeeks(ctx context.Context) ([]week.Marker, error) {
	value, err := i.cache.GetOrLoad(ctx, weekIndexCacheKey, func(ctx context.Context) (any, error) {
		return i.scan(ctx), nil
	})
	if err != nil {
		return nil, err
	}

	markers, _ := value.([]week.Marker)
	out := make([]week.Marker, len(markers))
	copy(out, markers)
	return out, nil
}

func (i *WeekIndex) Invalidate(ctx context.Context) {
	i.cache.Delete(ctx, weekIndexCacheKey)
}

func (i *WeekIndex) scan(ctx context.Context) []week.Marker {
	entries, err := os.ReadDir(i.store.playersDir())
	if err != nil {
		// A missing or unreadable directory degrades to an empty index.
		i.store.logger.WarnContext(ctx, "snapshot players dir unavailable",
			"dir", i.store.playersDir(), "error", err)
		return []week.Marker{}
	}

	seen := make(map[string]struct{})
	markers := make([]week.Marker, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		code, ok := weekCodeFromFilename(entry.Name())
		if !ok {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		marker, err := week.ParseCode(code)
		if err != nil {
			continue
		}
		seen[code] = struct{}{}
		markers = append(markers, marker)
	}

	sort.Slice(markers, func(a, b int) bool { return markers[a].Date.Before(markers[b].Date) })
	return markers
}

// weekCodeFromFilename extracts the trailing date code from names shaped
// like mens_players_20250907.csv.
func weekCodeFromFilename(name string) (string, bool) {
	if !strings.HasSuffix(name, ".csv") || !strings.Contains(name, "_players_") {
		return "", false
	}
	base := strings.TrimSuffix(name, ".csv")
	parts := strings.Split(base, "_")
	code := parts[len(parts)-1]
	if len(code) != 8 {
		return "", false
	}
	return code, true
}
