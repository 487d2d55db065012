package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/americascouted/ncaa-stats/internal/domain/division"
	"github.com/americascouted/ncaa-stats/internal/domain/match"
	"github.com/americascouted/ncaa-stats/internal/domain/player"
	"github.com/americascouted/ncaa-stats/internal/domain/week"
	"github.com/americascouted/ncaa-stats/internal/platform/cache"
)

type stubWeekRepository struct {
	weeks       []week.Marker
	invalidated int
}

func (s *stubWeekRepository) ListWeeks(ctx context.Context) ([]week.Marker, error) {
	return s.weeks, nil
}

func (s *stubWeekRepository) Invalidate(ctx context.Context) { s.invalidated++ }

type stubPlayerRepository struct {
	// rows keyed by gender then week code.
	rows map[string]map[string][]player.SnapshotRow
}

func (s *stubPlayerRepository) ListRows(ctx context.Context, gender, weekCode string) ([]player.SnapshotRow, bool, error) {
	weekRows, ok := s.rows[gender][weekCode]
	return weekRows, ok, nil
}

type stubMatchRepository struct {
	rows []match.SnapshotRow
}

func (s *stubMatchRepository) ListRows(ctx context.Context, gender string, weekCodes []string) ([]match.SnapshotRow, error) {
	var out []match.SnapshotRow
	for _, r := range s.rows {
		if r.Gender == gender {
			out = append(out, r)
		}
	}
	return out, nil
}

func mustWeek(t *testing.T, code string) week.Marker {
	t.Helper()
	m, err := week.ParseCode(code)
	if err != nil {
		t.Fatalf("parse week code %s: %v", code, err)
	}
	return m
}

func TestPlayerService_Aggregate_CumulativeThroughEndWeek(t *testing.T) {
	t.Parallel()

	weekRepo := &stubWeekRepository{weeks: []week.Marker{
		mustWeek(t, "20250907"),
		mustWeek(t, "20250914"),
	}}
	playerRepo := &stubPlayerRepository{rows: map[string]map[string][]player.SnapshotRow{
		"men": {
			"20250907": {{
				Name: "Jane Doe", Team: "Stanford", Gender: "men",
				Division: "d1", Position: "F", Conference: "Pac-12",
				Stats: player.Stats{MatchesPlayed: 1, MinutesPlayed: 90, Goals: 2, Shots: 5},
			}},
			"20250914": {{
				Name: "Jane Doe", Team: "Stanford", Gender: "men",
				Division: "d1", Position: "F", Conference: "Pac-12",
				Stats: player.Stats{MatchesPlayed: 1, MinutesPlayed: 85, Goals: 1, Assists: 1, Shots: 3},
			}},
		},
	}}

	table := division.NewTable(map[string]string{"Pac-12": "d1"})
	service := NewPlayerService(weekRepo, playerRepo, &stubMatchRepository{}, table, nil, nil)

	got, err := service.Aggregate(context.Background(), "20250914", "men")
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected row count: got=%d want=1", len(got))
	}
	p := got[0]
	if p.Stats.Goals != 3 || p.Stats.Assists != 1 {
		t.Fatalf("unexpected totals: goals=%d assists=%d", p.Stats.Goals, p.Stats.Assists)
	}
	if p.Points != 7 {
		t.Fatalf("unexpected points: got=%d want=7", p.Points)
	}
	if p.Stats.MinutesPlayed != 175 {
		t.Fatalf("unexpected minutes: got=%d want=175", p.Stats.MinutesPlayed)
	}
	if p.DominantPosition != player.PositionForward {
		t.Fatalf("unexpected position: got=%s", p.DominantPosition)
	}
	if p.Division != "d1" {
		t.Fatalf("unexpected division: got=%s", p.Division)
	}

	// An earlier end week excludes the later snapshot entirely.
	earlier, err := service.Aggregate(context.Background(), "20250907", "men")
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	if earlier[0].Stats.Goals != 2 || earlier[0].Points != 4 {
		t.Fatalf("unexpected week-one totals: goals=%d points=%d",
			earlier[0].Stats.Goals, earlier[0].Points)
	}
}

func TestPlayerService_Aggregate_ConferenceTableBeatsOverride(t *testing.T) {
	t.Parallel()

	weekRepo := &stubWeekRepository{weeks: []week.Marker{mustWeek(t, "20250907")}}
	// The snapshot carries no conference column, so conferences come from
	// match data and the table result overwrites the manual override.
	playerRepo := &stubPlayerRepository{rows: map[string]map[string][]player.SnapshotRow{
		"men": {
			"20250907": {{
				Name: "Alice Smith", Team: "Westmont", Gender: "men",
				Division: "", Position: "D",
				Stats: player.Stats{MatchesPlayed: 1, Goals: 1},
			}},
		},
	}}
	matchRepo := &stubMatchRepository{rows: []match.SnapshotRow{{
		Gender:         "men",
		HomeTeamShort:  "Westmont",
		HomeConference: "Big West",
		AwayTeamShort:  "Fresno St.",
		AwayConference: "Mountain West",
	}}}

	table := division.NewTable(map[string]string{"Big West": "d1"})
	overrides := division.Overrides{"Westmont": "d2"}
	service := NewPlayerService(weekRepo, playerRepo, matchRepo, table, overrides, nil)

	got, err := service.Aggregate(context.Background(), "20250907", "men")
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected row count: got=%d want=1", len(got))
	}
	if got[0].Division != "d1" {
		t.Fatalf("unexpected division: got=%s want=d1", got[0].Division)
	}
	if got[0].Conference != "Big West" {
		t.Fatalf("unexpected conference: got=%s want=Big West", got[0].Conference)
	}
}

func TestPlayerService_Aggregate_FallbackOnlyWhenDivisionEmpty(t *testing.T) {
	t.Parallel()

	weekRepo := &stubWeekRepository{weeks: []week.Marker{mustWeek(t, "20250907")}}
	playerRepo := &stubPlayerRepository{rows: map[string]map[string][]player.SnapshotRow{
		"women": {
			"20250907": {
				{
					Name: "No Division", Team: "Tiny College", Gender: "women",
					Division: "", Position: "M", Conference: "Mystery Conf",
					Stats: player.Stats{Goals: 1},
				},
				{
					Name: "Keeps Scraped", Team: "Hope College", Gender: "women",
					Division: "D3", Position: "M", Conference: "Mystery Conf",
					Stats: player.Stats{Goals: 1},
				},
			},
		},
	}}

	table := division.NewTable(nil)
	service := NewPlayerService(weekRepo, playerRepo, &stubMatchRepository{}, table, nil, nil)

	got, err := service.Aggregate(context.Background(), "20250907", "women")
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	byName := make(map[string]player.Aggregated, len(got))
	for _, p := range got {
		byName[p.Name] = p
	}
	if byName["No Division"].Division != division.Fallback {
		t.Fatalf("unexpected fallback division: got=%s want=%s",
			byName["No Division"].Division, division.Fallback)
	}
	if byName["Keeps Scraped"].Division != "d3" {
		t.Fatalf("unexpected scraped division: got=%s want=d3", byName["Keeps Scraped"].Division)
	}
}

func TestPlayerService_Aggregate_MergesAcrossScrapedDivisions(t *testing.T) {
	t.Parallel()

	weekRepo := &stubWeekRepository{weeks: []week.Marker{
		mustWeek(t, "20250907"),
		mustWeek(t, "20250914"),
	}}
	// Same player scraped under two divisions; reconciliation maps both to
	// d2, so the rows merge into one.
	playerRepo := &stubPlayerRepository{rows: map[string]map[string][]player.SnapshotRow{
		"men": {
			"20250907": {{
				Name: "Bob Jones", Team: "Mercy", Gender: "men",
				Division: "d3", Position: "M", Conference: "East Coast",
				Stats: player.Stats{Goals: 1},
			}},
			"20250914": {{
				Name: "Bob Jones", Team: "Mercy", Gender: "men",
				Division: "d2", Position: "M", Conference: "East Coast",
				Stats: player.Stats{Goals: 2},
			}},
		},
	}}

	table := division.NewTable(map[string]string{"East Coast": "d2"})
	service := NewPlayerService(weekRepo, playerRepo, &stubMatchRepository{}, table, nil, nil)

	got, err := service.Aggregate(context.Background(), "20250914", "men")
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected merged row, got %d rows", len(got))
	}
	if got[0].Division != "d2" || got[0].Stats.Goals != 3 {
		t.Fatalf("unexpected merge result: division=%s goals=%d",
			got[0].Division, got[0].Stats.Goals)
	}
}

func TestPlayerService_List_FilterSortPaginate(t *testing.T) {
	t.Parallel()

	weekRepo := &stubWeekRepository{weeks: []week.Marker{mustWeek(t, "20250907")}}
	playerRepo := &stubPlayerRepository{rows: map[string]map[string][]player.SnapshotRow{
		"men": {
			"20250907": {
				{
					Name: "Alpha One", Team: "Stanford", Gender: "men",
					Division: "d1", Position: "F", Conference: "Pac-12",
					Stats: player.Stats{Goals: 5},
				},
				{
					Name: "Beta Two", Team: "Stanford", Gender: "men",
					Division: "d1", Position: "M", Conference: "Pac-12",
					Stats: player.Stats{Goals: 2, Assists: 4},
				},
				{
					Name: "Gamma Three", Team: "Duke", Gender: "men",
					Division: "d1", Position: "D", Conference: "ACC",
					Stats: player.Stats{Goals: 1},
				},
			},
		},
	}}

	table := division.NewTable(map[string]string{"Pac-12": "d1", "ACC": "d1"})
	service := NewPlayerService(weekRepo, playerRepo, &stubMatchRepository{}, table, nil, nil)

	page, err := service.List(context.Background(), PlayerQuery{Gender: "men", SortBy: "goals"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.TotalCount != 3 {
		t.Fatalf("unexpected total: got=%d want=3", page.TotalCount)
	}
	if page.Players[0].Name != "Alpha One" || page.Players[2].Name != "Gamma Three" {
		t.Fatalf("unexpected goals ordering: first=%s last=%s",
			page.Players[0].Name, page.Players[2].Name)
	}
	if page.Week.Code != "20250907" {
		t.Fatalf("unexpected resolved week: got=%s", page.Week.Code)
	}
	if len(page.Facets.Teams) != 2 || len(page.Facets.Conferences) != 2 {
		t.Fatalf("unexpected facets: teams=%v conferences=%v",
			page.Facets.Teams, page.Facets.Conferences)
	}

	filtered, err := service.List(context.Background(), PlayerQuery{
		Gender: "men", Team: "Stanford", Search: "beta",
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if filtered.TotalCount != 1 || filtered.Players[0].Name != "Beta Two" {
		t.Fatalf("unexpected filter result: %+v", filtered.Players)
	}
	// Facets describe the whole gender+week set, not the filtered slice.
	if len(filtered.Facets.Teams) != 2 {
		t.Fatalf("facets narrowed by filter: %v", filtered.Facets.Teams)
	}

	paged, err := service.List(context.Background(), PlayerQuery{
		Gender: "men", Page: 2, PageSize: 2,
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(paged.Players) != 1 || paged.Page != 2 || paged.PageSize != 2 {
		t.Fatalf("unexpected page: len=%d page=%d size=%d",
			len(paged.Players), paged.Page, paged.PageSize)
	}
}

func TestPlayerService_Get_AllDivisionRowsForName(t *testing.T) {
	t.Parallel()

	weekRepo := &stubWeekRepository{weeks: []week.Marker{mustWeek(t, "20250907")}}
	playerRepo := &stubPlayerRepository{rows: map[string]map[string][]player.SnapshotRow{
		"men": {
			"20250907": {{
				Name: "Jane Doe", Team: "Stanford", Gender: "men",
				Division: "d1", Position: "F", Conference: "Pac-12",
				Stats: player.Stats{Goals: 2},
			}},
		},
	}}

	service := NewPlayerService(weekRepo, playerRepo, &stubMatchRepository{},
		division.NewTable(map[string]string{"Pac-12": "d1"}), nil, nil)

	got, err := service.Get(context.Background(), "jane doe", "men", "")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Jane Doe" {
		t.Fatalf("unexpected result: %+v", got)
	}

	if _, err := service.Get(context.Background(), "nobody", "men", ""); err == nil {
		t.Fatal("expected error for unknown player")
	}
}

func TestPlayerService_List_EmptyStoreReturnsEmptyPage(t *testing.T) {
	t.Parallel()

	service := NewPlayerService(&stubWeekRepository{}, &stubPlayerRepository{},
		&stubMatchRepository{}, division.NewTable(nil), nil, nil)

	page, err := service.List(context.Background(), PlayerQuery{Gender: "women"})
	if err != nil {
		t.Fatalf("List on empty store: %v", err)
	}
	if page.TotalCount != 0 || len(page.Players) != 0 {
		t.Fatalf("expected empty page, got total=%d players=%d", page.TotalCount, len(page.Players))
	}
	if page.Week.Code != "" {
		t.Fatalf("expected zero week marker, got %q", page.Week.Code)
	}
	if len(page.Facets.Teams) != 0 || len(page.Facets.Positions) != 0 {
		t.Fatalf("expected empty facets, got %+v", page.Facets)
	}

	// An explicitly requested week must still be reported as missing.
	_, err = service.List(context.Background(), PlayerQuery{Gender: "women", EndWeek: "20250907"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for explicit missing week, got %v", err)
	}
}

func TestPlayerService_Refresh_DropsCachedAggregates(t *testing.T) {
	t.Parallel()

	weekRepo := &stubWeekRepository{weeks: []week.Marker{mustWeek(t, "20250907")}}
	playerRepo := &stubPlayerRepository{rows: map[string]map[string][]player.SnapshotRow{
		"men": {
			"20250907": {{
				Name: "Jane Doe", Team: "Stanford", Gender: "men",
				Division: "d1", Position: "F", Conference: "Pac-12",
				Stats: player.Stats{Goals: 1},
			}},
		},
	}}
	table := division.NewTable(map[string]string{"Pac-12": "d1"})
	store := cache.NewStore(time.Minute)
	service := NewPlayerService(weekRepo, playerRepo, &stubMatchRepository{}, table, nil, store)

	first, err := service.Aggregate(context.Background(), "20250907", "men")
	if err != nil {
		t.Fatalf("first Aggregate: %v", err)
	}
	if first[0].Stats.Goals != 1 {
		t.Fatalf("unexpected goals before rescrape: %d", first[0].Stats.Goals)
	}

	// A new scrape pass replaces the snapshot on disk; the cached aggregate
	// keeps serving until a refresh.
	playerRepo.rows["men"]["20250907"] = []player.SnapshotRow{{
		Name: "Jane Doe", Team: "Stanford", Gender: "men",
		Division: "d1", Position: "F", Conference: "Pac-12",
		Stats: player.Stats{Goals: 2},
	}}
	cached, err := service.Aggregate(context.Background(), "20250907", "men")
	if err != nil {
		t.Fatalf("cached Aggregate: %v", err)
	}
	if cached[0].Stats.Goals != 1 {
		t.Fatalf("expected cached aggregate, got goals=%d", cached[0].Stats.Goals)
	}

	service.Refresh(context.Background())

	refreshed, err := service.Aggregate(context.Background(), "20250907", "men")
	if err != nil {
		t.Fatalf("Aggregate after refresh: %v", err)
	}
	if refreshed[0].Stats.Goals != 2 {
		t.Fatalf("expected recomputed aggregate, got goals=%d", refreshed[0].Stats.Goals)
	}
}
