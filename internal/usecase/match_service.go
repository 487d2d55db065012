package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/americascouted/ncaa-stats/internal/domain/division"
	"github.com/americascouted/ncaa-stats/internal/domain/match"
	"github.com/americascouted/ncaa-stats/internal/domain/week"
	"github.com/americascouted/ncaa-stats/internal/platform/cache"
)

// MatchQuery narrows the match listing.
type MatchQuery struct {
	Gender     string
	Division   string
	Conference string
	Day        string
}

// MatchFacets lists the distinct filterable values in the aggregated set.
type MatchFacets struct {
	Divisions   []string `json:"divisions"`
	Conferences []string `json:"conferences"`
	Days        []string `json:"days"`
}

// MatchGroup is the matches of one calendar day, newest day first in a
// listing.
type MatchGroup struct {
	Date    string             `json:"date"`
	Matches []match.Aggregated `json:"matches"`
}

// MatchList is the grouped listing plus its facets.
type MatchList struct {
	Groups     []MatchGroup `json:"groups"`
	TotalCount int          `json:"total_count"`
	Facets     MatchFacets  `json:"facets"`
}

const matchAggCachePrefix = "matches:agg:"

type MatchService struct {
	weekRepo  week.Repository
	matchRepo match.Repository
	table     *division.Table
	cache     *cache.Store
}

func NewMatchService(
	weekRepo week.Repository,
	matchRepo match.Repository,
	table *division.Table,
	store *cache.Store,
) *MatchService {
	return &MatchService{
		weekRepo:  weekRepo,
		matchRepo: matchRepo,
		table:     table,
		cache:     store,
	}
}

// Aggregate unions every weekly match snapshot for a gender, drops
// duplicate listings of the same contest, and recomputes the division from
// both participants' conferences.
func (s *MatchService) Aggregate(ctx context.Context, gender string) ([]match.Aggregated, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Aggregate")
	defer span.End()

	gender = strings.ToLower(strings.TrimSpace(gender))
	if gender == "" {
		return nil, fmt.Errorf("%w: gender is required", ErrInvalidInput)
	}

	key := matchAggCachePrefix + gender
	v, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.aggregate(ctx, gender)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Aggregated)
	return append([]match.Aggregated(nil), items...), nil
}

// Refresh drops every cached match aggregate; team summaries ride the same
// aggregates, so they refresh with it.
func (s *MatchService) Refresh(ctx context.Context) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Refresh")
	defer span.End()

	s.cache.DeletePrefix(ctx, matchAggCachePrefix)
}

func (s *MatchService) aggregate(ctx context.Context, gender string) ([]match.Aggregated, error) {
	weeks, err := s.weekRepo.ListWeeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	codes := make([]string, 0, len(weeks))
	for _, w := range weeks {
		codes = append(codes, w.Code)
	}

	rows, err := s.matchRepo.ListRows(ctx, gender, codes)
	if err != nil {
		return nil, fmt.Errorf("load match snapshots: %w", err)
	}

	seen := make(map[string]struct{}, len(rows))
	out := make([]match.Aggregated, 0, len(rows))
	for _, row := range rows {
		// The same fixture shows up once per division-filtered scrape
		// pass; the first listing wins. Rows without a boxscore id cannot
		// be deduplicated and pass through.
		if row.BoxscoreID != "" {
			if _, dup := seen[row.BoxscoreID]; dup {
				continue
			}
			seen[row.BoxscoreID] = struct{}{}
		}

		agg := match.Aggregated{SnapshotRow: row}
		agg.Division = s.resolveMatchDivision(row)
		out = append(out, agg)
	}
	return out, nil
}

// resolveMatchDivision trusts the conference table over the scraped label:
// both sides must map to the same division, otherwise the match gets no
// division at all.
func (s *MatchService) resolveMatchDivision(row match.SnapshotRow) string {
	homeDiv, homeOK := s.table.Lookup(row.HomeConference)
	awayDiv, awayOK := s.table.Lookup(row.AwayConference)
	if homeOK && awayOK && homeDiv == awayDiv {
		return homeDiv
	}
	return ""
}

// List filters the aggregated matches and groups them by date, newest day
// first.
func (s *MatchService) List(ctx context.Context, q MatchQuery) (MatchList, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	all, err := s.Aggregate(ctx, q.Gender)
	if err != nil {
		return MatchList{}, err
	}

	facets := buildMatchFacets(all)

	div := strings.TrimSpace(q.Division)
	conference := strings.TrimSpace(q.Conference)
	day := strings.TrimSpace(q.Day)

	filtered := make([]match.Aggregated, 0, len(all))
	for _, m := range all {
		if div != "" && !strings.EqualFold(m.Division, div) {
			continue
		}
		if conference != "" &&
			!strings.EqualFold(m.HomeConference, conference) &&
			!strings.EqualFold(m.AwayConference, conference) {
			continue
		}
		if day != "" && m.Date != day {
			continue
		}
		filtered = append(filtered, m)
	}

	groups := groupMatchesByDate(filtered)
	return MatchList{
		Groups:     groups,
		TotalCount: len(filtered),
		Facets:     facets,
	}, nil
}

var matchDateLayouts = []string{"01/02/2006", "2006-01-02"}

func parseMatchDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range matchDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func groupMatchesByDate(matches []match.Aggregated) []MatchGroup {
	order := make([]string, 0)
	byDate := make(map[string][]match.Aggregated)
	for _, m := range matches {
		if _, ok := byDate[m.Date]; !ok {
			order = append(order, m.Date)
		}
		byDate[m.Date] = append(byDate[m.Date], m)
	}

	sort.SliceStable(order, func(i, j int) bool {
		ti, iok := parseMatchDate(order[i])
		tj, jok := parseMatchDate(order[j])
		if iok && jok {
			return ti.After(tj)
		}
		if iok != jok {
			return iok
		}
		return order[i] > order[j]
	})

	groups := make([]MatchGroup, 0, len(order))
	for _, date := range order {
		groups = append(groups, MatchGroup{Date: date, Matches: byDate[date]})
	}
	return groups
}

func buildMatchFacets(all []match.Aggregated) MatchFacets {
	divisions := make(map[string]struct{})
	conferences := make(map[string]struct{})
	days := make(map[string]struct{})
	for _, m := range all {
		if m.Division != "" {
			divisions[m.Division] = struct{}{}
		}
		if m.HomeConference != "" {
			conferences[m.HomeConference] = struct{}{}
		}
		if m.AwayConference != "" {
			conferences[m.AwayConference] = struct{}{}
		}
		if m.Date != "" {
			days[m.Date] = struct{}{}
		}
	}
	return MatchFacets{
		Divisions:   sortedKeys(divisions),
		Conferences: sortedKeys(conferences),
		Days:        sortedKeys(days),
	}
}
