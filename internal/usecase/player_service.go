package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/americascouted/ncaa-stats/internal/domain/division"
	"github.com/americascouted/ncaa-stats/internal/domain/match"
	"github.com/americascouted/ncaa-stats/internal/domain/player"
	"github.com/americascouted/ncaa-stats/internal/domain/week"
	"github.com/americascouted/ncaa-stats/internal/platform/cache"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

const playerAggCachePrefix = "players:agg:"

// PlayerQuery narrows and orders an aggregated player listing.
type PlayerQuery struct {
	EndWeek    string
	Gender     string
	Position   string
	Team       string
	Division   string
	Conference string
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// PlayerFacets lists the distinct filterable values present in the
// aggregated set, before filters are applied.
type PlayerFacets struct {
	Positions   []string `json:"positions"`
	Teams       []string `json:"teams"`
	Divisions   []string `json:"divisions"`
	Conferences []string `json:"conferences"`
}

// PlayerPage is one page of the aggregated listing.
type PlayerPage struct {
	Players    []player.Aggregated `json:"players"`
	TotalCount int                 `json:"total_count"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Week       week.Marker         `json:"week"`
	Facets     PlayerFacets        `json:"facets"`
}

type PlayerService struct {
	weekRepo   week.Repository
	playerRepo player.Repository
	matchRepo  match.Repository
	table      *division.Table
	overrides  division.Overrides
	cache      *cache.Store
}

func NewPlayerService(
	weekRepo week.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	table *division.Table,
	overrides division.Overrides,
	store *cache.Store,
) *PlayerService {
	return &PlayerService{
		weekRepo:   weekRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		table:      table,
		overrides:  overrides,
		cache:      store,
	}
}

// Aggregate merges every snapshot week up to and including endWeekCode into
// cumulative per-player totals with the division reconciled.
func (s *PlayerService) Aggregate(ctx context.Context, endWeekCode, gender string) ([]player.Aggregated, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Aggregate")
	defer span.End()

	gender = strings.ToLower(strings.TrimSpace(gender))
	endWeekCode = strings.TrimSpace(endWeekCode)
	if gender == "" {
		return nil, fmt.Errorf("%w: gender is required", ErrInvalidInput)
	}
	if endWeekCode == "" {
		return nil, fmt.Errorf("%w: end week code is required", ErrInvalidInput)
	}

	key := playerAggCachePrefix + gender + ":" + endWeekCode
	v, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.aggregate(ctx, endWeekCode, gender)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Aggregated)
	return append([]player.Aggregated(nil), items...), nil
}

// Refresh drops every cached player aggregate so the next query recomputes
// from whatever snapshot files are on disk now.
func (s *PlayerService) Refresh(ctx context.Context) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Refresh")
	defer span.End()

	s.cache.DeletePrefix(ctx, playerAggCachePrefix)
}

func (s *PlayerService) aggregate(ctx context.Context, endWeekCode, gender string) ([]player.Aggregated, error) {
	weeks, err := s.weekRepo.ListWeeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}

	// Fixed-width YYYYMMDD codes compare correctly as strings.
	var rows []player.SnapshotRow
	hasConference := false
	for _, w := range weeks {
		if w.Code > endWeekCode {
			continue
		}
		weekRows, ok, err := s.playerRepo.ListRows(ctx, gender, w.Code)
		if err != nil {
			return nil, fmt.Errorf("load player snapshot %s: %w", w.Code, err)
		}
		if !ok {
			continue
		}
		for _, row := range weekRows {
			if row.Conference != "" {
				hasConference = true
			}
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	grouped := groupPlayers(rows)

	s.reconcileDivisions(ctx, grouped, gender, hasConference)

	// Reconciliation can merge rows that differed only in the scraped
	// division, so group once more on the final key.
	final := regroupPlayers(grouped)

	sort.Slice(final, func(i, j int) bool {
		if final[i].Name != final[j].Name {
			return final[i].Name < final[j].Name
		}
		return final[i].Team < final[j].Team
	})
	return final, nil
}

// groupPlayers sums counting stats per (name, team, gender, scraped
// division) and resolves the dominant position by plurality vote over every
// raw tag seen for the (name, team, gender) identity.
func groupPlayers(rows []player.SnapshotRow) []player.Aggregated {
	type identity struct{ name, team, gender string }

	tags := make(map[identity][]string)
	for _, row := range rows {
		id := identity{row.Name, row.Team, strings.ToLower(row.Gender)}
		tags[id] = append(tags[id], row.Position)
	}

	type groupKey struct{ name, team, gender, div string }
	order := make([]groupKey, 0, len(rows))
	groups := make(map[groupKey]*player.Aggregated, len(rows))
	for _, row := range rows {
		key := groupKey{row.Name, row.Team, strings.ToLower(row.Gender), row.Division}
		agg, ok := groups[key]
		if !ok {
			agg = &player.Aggregated{
				Name:       row.Name,
				Team:       row.Team,
				Gender:     key.gender,
				Division:   row.Division,
				Conference: row.Conference,
			}
			groups[key] = agg
			order = append(order, key)
		}
		agg.Stats.Add(row.Stats)
		if agg.Conference == "" && row.Conference != "" {
			agg.Conference = row.Conference
		}
	}

	out := make([]player.Aggregated, 0, len(order))
	for _, key := range order {
		agg := groups[key]
		agg.DominantPosition = player.VoteDominant(tags[identity{key.name, key.team, key.gender}])
		agg.Points = agg.Stats.Points()
		out = append(out, *agg)
	}
	return out
}

// reconcileDivisions resolves each row's division in three stages: manual
// team override, conference derived from match data when the batch carries
// none, then the authoritative conference table. A table hit overwrites
// everything earlier; the fallback applies only when nothing else set a
// division.
func (s *PlayerService) reconcileDivisions(ctx context.Context, rows []player.Aggregated, gender string, hasConference bool) {
	for i := range rows {
		if div, ok := s.overrides.Lookup(rows[i].Team); ok {
			rows[i].Division = div
		}
	}

	if !hasConference {
		byTeam := s.conferencesFromMatches(ctx, gender)
		for i := range rows {
			if conf, ok := byTeam[rows[i].Team]; ok {
				rows[i].Conference = conf
			}
		}
	}

	for i := range rows {
		if div, ok := s.table.Lookup(rows[i].Conference); ok {
			rows[i].Division = div
		} else if rows[i].Division == "" {
			rows[i].Division = division.Fallback
		}
		rows[i].Division = strings.ToLower(rows[i].Division)
	}
}

// conferencesFromMatches builds a team-name to conference map from the
// gender's match snapshots. The first mapping seen for a name wins; match
// data is noisy enough that later conflicts are discarded rather than
// voted on.
func (s *PlayerService) conferencesFromMatches(ctx context.Context, gender string) map[string]string {
	weeks, err := s.weekRepo.ListWeeks(ctx)
	if err != nil {
		return nil
	}
	codes := make([]string, 0, len(weeks))
	for _, w := range weeks {
		codes = append(codes, w.Code)
	}

	matchRows, err := s.matchRepo.ListRows(ctx, gender, codes)
	if err != nil {
		return nil
	}

	byTeam := make(map[string]string)
	record := func(name, conference string) {
		name = strings.TrimSpace(name)
		conference = strings.TrimSpace(conference)
		if name == "" || conference == "" {
			return
		}
		if _, seen := byTeam[name]; !seen {
			byTeam[name] = conference
		}
	}
	for _, m := range matchRows {
		record(m.HomeTeamShort, m.HomeConference)
		record(m.HomeTeamFull, m.HomeConference)
		record(m.AwayTeamShort, m.AwayConference)
		record(m.AwayTeamFull, m.AwayConference)
	}
	return byTeam
}

func regroupPlayers(rows []player.Aggregated) []player.Aggregated {
	type groupKey struct{ name, team, gender, div string }
	order := make([]groupKey, 0, len(rows))
	groups := make(map[groupKey]*player.Aggregated, len(rows))
	for _, row := range rows {
		key := groupKey{row.Name, row.Team, row.Gender, row.Division}
		agg, ok := groups[key]
		if !ok {
			clone := row
			clone.Stats = player.Stats{}
			groups[key] = &clone
			order = append(order, key)
			agg = &clone
		}
		agg.Stats.Add(row.Stats)
		if agg.Conference == "" && row.Conference != "" {
			agg.Conference = row.Conference
		}
	}

	out := make([]player.Aggregated, 0, len(order))
	for _, key := range order {
		agg := groups[key]
		agg.Points = agg.Stats.Points()
		out = append(out, *agg)
	}
	return out
}

// List applies filters, ordering, and pagination over the aggregated set
// and reports the facet values available for the gender and week.
func (s *PlayerService) List(ctx context.Context, q PlayerQuery) (PlayerPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	marker, ok, err := s.resolveWeek(ctx, q.EndWeek)
	if err != nil {
		return PlayerPage{}, err
	}

	// No snapshot weeks at all is an empty listing, not an error.
	var all []player.Aggregated
	if ok {
		all, err = s.Aggregate(ctx, marker.Code, q.Gender)
		if err != nil {
			return PlayerPage{}, err
		}
	}

	facets := buildPlayerFacets(all)
	filtered := filterPlayers(all, q)
	sortPlayers(filtered, q.SortBy, q.SortOrder)

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total := len(filtered)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return PlayerPage{
		Players:    filtered[start:end],
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		Week:       marker,
		Facets:     facets,
	}, nil
}

// Get returns the aggregated rows for one player name, across every team
// the name appears on.
func (s *PlayerService) Get(ctx context.Context, name, gender, endWeekCode string) ([]player.Aggregated, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Get")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	marker, ok, err := s.resolveWeek(ctx, endWeekCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: player=%s gender=%s", ErrNotFound, name, gender)
	}

	all, err := s.Aggregate(ctx, marker.Code, gender)
	if err != nil {
		return nil, err
	}

	var matches []player.Aggregated
	for _, p := range all {
		if strings.EqualFold(p.Name, name) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: player=%s gender=%s", ErrNotFound, name, gender)
	}
	return matches, nil
}

// resolveWeek picks the effective end week. The bool is false when the
// store holds no weeks and none was requested; an explicitly requested week
// that does not exist is still an error.
func (s *PlayerService) resolveWeek(ctx context.Context, code string) (week.Marker, bool, error) {
	code = strings.TrimSpace(code)
	weeks, err := s.weekRepo.ListWeeks(ctx)
	if err != nil {
		return week.Marker{}, false, fmt.Errorf("list weeks: %w", err)
	}
	if code == "" {
		if len(weeks) == 0 {
			return week.Marker{}, false, nil
		}
		return weeks[len(weeks)-1], true, nil
	}
	if _, err := week.ParseCode(code); err != nil {
		return week.Marker{}, false, fmt.Errorf("%w: week code %q", ErrInvalidInput, code)
	}
	for _, w := range weeks {
		if w.Code == code {
			return w, true, nil
		}
	}
	return week.Marker{}, false, fmt.Errorf("%w: week=%s", ErrNotFound, code)
}

func filterPlayers(all []player.Aggregated, q PlayerQuery) []player.Aggregated {
	position := strings.TrimSpace(q.Position)
	team := strings.TrimSpace(q.Team)
	div := strings.TrimSpace(q.Division)
	conference := strings.TrimSpace(q.Conference)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]player.Aggregated, 0, len(all))
	for _, p := range all {
		if position != "" && !strings.EqualFold(string(p.DominantPosition), position) {
			continue
		}
		if team != "" && !strings.EqualFold(p.Team, team) {
			continue
		}
		if div != "" && !strings.EqualFold(p.Division, div) {
			continue
		}
		if conference != "" && !strings.EqualFold(p.Conference, conference) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Team), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortPlayers(players []player.Aggregated, sortBy, sortOrder string) {
	desc := !strings.EqualFold(sortOrder, "asc")

	key := strings.ToLower(strings.TrimSpace(sortBy))
	if key == "" {
		key = "points"
	}

	less := func(a, b player.Aggregated) bool {
		switch key {
		case "name":
			return a.Name < b.Name
		case "team":
			return a.Team < b.Team
		case "division":
			return a.Division < b.Division
		case "conference":
			return a.Conference < b.Conference
		case "position":
			return a.DominantPosition < b.DominantPosition
		case "matches_played":
			return a.Stats.MatchesPlayed < b.Stats.MatchesPlayed
		case "minutes_played":
			return a.Stats.MinutesPlayed < b.Stats.MinutesPlayed
		case "goals":
			return a.Stats.Goals < b.Stats.Goals
		case "assists":
			return a.Stats.Assists < b.Stats.Assists
		case "shots":
			return a.Stats.Shots < b.Stats.Shots
		case "shots_on_target":
			return a.Stats.ShotsOnTarget < b.Stats.ShotsOnTarget
		case "yellow_cards":
			return a.Stats.YellowCards < b.Stats.YellowCards
		case "red_cards":
			return a.Stats.RedCards < b.Stats.RedCards
		case "saves":
			return a.Stats.Saves < b.Stats.Saves
		case "goals_against":
			return a.Stats.GoalsAgainst < b.Stats.GoalsAgainst
		case "fouls_won":
			return a.Stats.FoulsWon < b.Stats.FoulsWon
		default:
			return a.Points < b.Points
		}
	}

	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if less(a, b) == less(b, a) {
			// Equal on the sort key; keep a stable readable order.
			return a.Name < b.Name
		}
		if desc {
			return less(b, a)
		}
		return less(a, b)
	})
}

func buildPlayerFacets(all []player.Aggregated) PlayerFacets {
	positions := make(map[string]struct{})
	teams := make(map[string]struct{})
	divisions := make(map[string]struct{})
	conferences := make(map[string]struct{})
	for _, p := range all {
		if p.DominantPosition != "" {
			positions[string(p.DominantPosition)] = struct{}{}
		}
		if p.Team != "" {
			teams[p.Team] = struct{}{}
		}
		if p.Division != "" {
			divisions[p.Division] = struct{}{}
		}
		if p.Conference != "" {
			conferences[p.Conference] = struct{}{}
		}
	}
	return PlayerFacets{
		Positions:   sortedKeys(positions),
		Teams:       sortedKeys(teams),
		Divisions:   sortedKeys(divisions),
		Conferences: sortedKeys(conferences),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
