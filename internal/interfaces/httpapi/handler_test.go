package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/americascouted/ncaa-stats/internal/domain/division"
	"github.com/americascouted/ncaa-stats/internal/infrastructure/logos"
	"github.com/americascouted/ncaa-stats/internal/infrastructure/snapshotcsv"
	"github.com/americascouted/ncaa-stats/internal/platform/cache"
	"github.com/americascouted/ncaa-stats/internal/platform/logging"
	"github.com/americascouted/ncaa-stats/internal/usecase"
)

const testMatchHeader = "gender,division,boxscore_id,date,home_team_short,home_conference,home_team_score," +
	"away_team_short,away_conference,away_team_score,home_shots,home_sot,away_shots,away_sot\n"

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newTestSnapshotDir seeds a temp snapshot directory: two player weeks, one
// match week, and one logo file.
func newTestSnapshotDir(t *testing.T) string {
	t.Helper()

	dataDir := t.TempDir()
	playersDir := filepath.Join(dataDir, "Players")
	matchesDir := filepath.Join(dataDir, "Matches")
	logosDir := filepath.Join(dataDir, "logos")
	for _, dir := range []string{playersDir, matchesDir, logosDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	playerHeader := "Name,Team,Gender,Division,Dominant Position,Goals,Assists,Minutes Played\n"
	writeTestFile(t, filepath.Join(playersDir, "mens_players_20250907.csv"),
		playerHeader+"Jane Doe,Duke,men,d1,F,2,0,90\n")
	writeTestFile(t, filepath.Join(playersDir, "mens_players_20250914.csv"),
		playerHeader+"Jane Doe,Duke,men,d1,F,1,1,85\n")
	writeTestFile(t, filepath.Join(matchesDir, "matches_20250907.csv"),
		testMatchHeader+"men,d1,100,09/05/2025,Duke,ACC,2,Clemson,ACC,1,10,4,6,2\n")
	writeTestFile(t, filepath.Join(logosDir, "Duke.png"), "img")
	return dataDir
}

// newTestRouterAt wires the full stack over dataDir; a nil cacheStore
// disables caching.
func newTestRouterAt(t *testing.T, dataDir string, cacheStore *cache.Store) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	store := snapshotcsv.NewStore(dataDir, logger)
	weekIndex := snapshotcsv.NewWeekIndex(store, cacheStore)
	playerRepo := snapshotcsv.NewPlayerRepository(store)
	matchRepo := snapshotcsv.NewMatchRepository(store)
	table := division.NewTable(map[string]string{"ACC": "d1"})

	logoIndex := logos.NewIndex(filepath.Join(dataDir, "logos"), logger)
	if err := logoIndex.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild logo index: %v", err)
	}

	weekSvc := usecase.NewWeekService(weekIndex)
	playerSvc := usecase.NewPlayerService(weekIndex, playerRepo, matchRepo, table, nil, cacheStore)
	matchSvc := usecase.NewMatchService(weekIndex, matchRepo, table, cacheStore)
	teamSvc := usecase.NewTeamService(matchSvc)

	handler := NewHandler(weekSvc, playerSvc, matchSvc, teamSvc, logoIndex, logger)
	return NewRouter(handler, logger, []string{"*"})
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterAt(t, newTestSnapshotDir(t), nil)
}

func doJSON(t *testing.T, router http.Handler, method, target string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	if len(rec.Body.Bytes()) > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal %s response: %v", target, err)
		}
	}
	return rec.Code, body
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)
	code, body := doJSON(t, router, http.MethodGet, "/healthz")
	if code != http.StatusOK {
		t.Fatalf("healthz status: %d", code)
	}
	data := body["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Fatalf("unexpected healthz body: %v", body)
	}
}

func TestRouter_ListWeeks(t *testing.T) {
	router := newTestRouter(t)
	code, body := doJSON(t, router, http.MethodGet, "/v1/weeks")
	if code != http.StatusOK {
		t.Fatalf("weeks status: %d body=%v", code, body)
	}
	weeks := body["data"].([]any)
	if len(weeks) != 2 {
		t.Fatalf("unexpected week count: %v", weeks)
	}
	first := weeks[0].(map[string]any)
	if first["code"] != "20250907" {
		t.Fatalf("unexpected first week: %v", first)
	}
}

func TestRouter_ListPlayers(t *testing.T) {
	router := newTestRouter(t)

	code, body := doJSON(t, router, http.MethodGet, "/v1/players?gender=men")
	if code != http.StatusOK {
		t.Fatalf("players status: %d body=%v", code, body)
	}
	data := body["data"].(map[string]any)
	players := data["players"].([]any)
	if len(players) != 1 {
		t.Fatalf("unexpected player count: %v", players)
	}
	first := players[0].(map[string]any)
	if first["name"] != "Jane Doe" {
		t.Fatalf("unexpected player: %v", first)
	}
	// Both weeks summed: 3 goals, 1 assist, 7 points.
	if first["points"].(float64) != 7 {
		t.Fatalf("unexpected points: %v", first["points"])
	}
	if first["team_logo_url"] == nil || first["team_logo_url"] == "" {
		t.Fatalf("expected team logo url: %v", first)
	}

	// Explicit earlier end week drops the later snapshot.
	code, body = doJSON(t, router, http.MethodGet, "/v1/players?gender=men&week=20250907")
	if code != http.StatusOK {
		t.Fatalf("players status: %d", code)
	}
	data = body["data"].(map[string]any)
	first = data["players"].([]any)[0].(map[string]any)
	if first["points"].(float64) != 4 {
		t.Fatalf("unexpected week-one points: %v", first["points"])
	}
}

func TestRouter_ListPlayers_InvalidGender(t *testing.T) {
	router := newTestRouter(t)
	code, body := doJSON(t, router, http.MethodGet, "/v1/players?gender=cats")
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid gender, got %d body=%v", code, body)
	}
}

func TestRouter_ListMatches(t *testing.T) {
	router := newTestRouter(t)
	code, body := doJSON(t, router, http.MethodGet, "/v1/matches?gender=men")
	if code != http.StatusOK {
		t.Fatalf("matches status: %d body=%v", code, body)
	}
	data := body["data"].(map[string]any)
	groups := data["groups"].([]any)
	if len(groups) != 1 {
		t.Fatalf("unexpected groups: %v", groups)
	}
	matches := groups[0].(map[string]any)["matches"].([]any)
	m := matches[0].(map[string]any)
	if m["home_score_display"] != "2" || m["away_score_display"] != "1" {
		t.Fatalf("unexpected score display: %v", m)
	}
}

func TestRouter_TeamSummaryAndLogo(t *testing.T) {
	router := newTestRouter(t)

	code, body := doJSON(t, router, http.MethodGet, "/v1/teams/duke/summary?gender=men")
	if code != http.StatusOK {
		t.Fatalf("summary status: %d body=%v", code, body)
	}
	data := body["data"].(map[string]any)
	if data["goals_for"].(float64) != 2 || data["goals_against"].(float64) != 1 {
		t.Fatalf("unexpected summary goals: %v", data)
	}
	record := data["record"].(map[string]any)
	if record["wins"].(float64) != 1 {
		t.Fatalf("unexpected record: %v", record)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/teams/duke/logo", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logo status: %d", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc == "" {
		t.Fatal("expected cache headers on logo response")
	}

	code, _ = doJSON(t, router, http.MethodGet, "/v1/teams/nowhere-state/summary?gender=men")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown team, got %d", code)
	}
}

func TestRouter_Refresh(t *testing.T) {
	router := newTestRouter(t)
	code, body := doJSON(t, router, http.MethodPost, "/v1/refresh")
	if code != http.StatusOK {
		t.Fatalf("refresh status: %d body=%v", code, body)
	}
	data := body["data"].(map[string]any)
	if data["status"] != "refreshed" {
		t.Fatalf("unexpected refresh body: %v", body)
	}
}

func TestRouter_Refresh_ServesNewSnapshotsWithoutRestart(t *testing.T) {
	dataDir := newTestSnapshotDir(t)
	router := newTestRouterAt(t, dataDir, cache.NewStore(time.Minute))

	code, body := doJSON(t, router, http.MethodGet, "/v1/matches?gender=men")
	if code != http.StatusOK {
		t.Fatalf("matches status: %d body=%v", code, body)
	}
	data := body["data"].(map[string]any)
	if data["total_count"].(float64) != 1 {
		t.Fatalf("unexpected initial match count: %v", data["total_count"])
	}

	// A collector run drops a new weekly snapshot while the server is up.
	writeTestFile(t, filepath.Join(dataDir, "Matches", "matches_20250914.csv"),
		testMatchHeader+"men,d1,200,09/12/2025,Stanford,ACC,3,Duke,ACC,0,12,5,8,3\n")

	_, body = doJSON(t, router, http.MethodGet, "/v1/matches?gender=men")
	data = body["data"].(map[string]any)
	if data["total_count"].(float64) != 1 {
		t.Fatalf("expected cached listing before refresh, got count %v", data["total_count"])
	}

	code, _ = doJSON(t, router, http.MethodPost, "/v1/refresh")
	if code != http.StatusOK {
		t.Fatalf("refresh status: %d", code)
	}

	_, body = doJSON(t, router, http.MethodGet, "/v1/matches?gender=men")
	data = body["data"].(map[string]any)
	if data["total_count"].(float64) != 2 {
		t.Fatalf("expected new snapshot after refresh, got count %v", data["total_count"])
	}
}
