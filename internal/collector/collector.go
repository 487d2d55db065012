package collector

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/americascouted/ncaa-stats/external/ncaa"
	"github.com/americascouted/ncaa-stats/internal/platform/logging"
)

// Config controls one collection run.
type Config struct {
	Start     time.Time
	End       time.Time
	OutDir    string
	Genders   []string
	Divisions []string
	Workers   int
}

// Collector scrapes the scoreboard feed into weekly snapshot CSVs, one
// player file per gender and one shared matches file per week period.
type Collector struct {
	client *ncaa.Client
	logger *logging.Logger
	cfg    Config
}

func New(client *ncaa.Client, logger *logging.Logger, cfg Config) *Collector {
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(cfg.Genders) == 0 {
		cfg.Genders = []string{"men", "women"}
	}
	if len(cfg.Divisions) == 0 {
		cfg.Divisions = []string{"d1", "d2", "d3"}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	return &Collector{client: client, logger: logger, cfg: cfg}
}

// Run collects every Sunday-terminated week period in the configured range.
// A failed period aborts the run; snapshots written so far stay on disk.
func (c *Collector) Run(ctx context.Context) error {
	periods, err := WeekPeriods(c.cfg.Start, c.cfg.End)
	if err != nil {
		return err
	}

	for _, period := range periods {
		c.logger.InfoContext(ctx, "collecting week period",
			"week_code", period.FileCode(),
			"start", period.Start.Format("2006-01-02"),
			"end", period.End.Format("2006-01-02"))
		if err := c.collectPeriod(ctx, period); err != nil {
			return errors.Wrapf(err, "collect period %s", period.FileCode())
		}
	}
	return nil
}

// periodState accumulates one period's scrape under a single mutex. The
// scoreboard walk is sequential; only boxscore and play-by-play fetches
// run on the pool.
type periodState struct {
	mu            sync.Mutex
	playerRows    map[string][]playerGameRow // by gender
	matchRows     []matchRow
	matchIdx      map[string]int // game ID -> matchRows index
	fouls         map[foulKey]int
	divisionVotes map[string]map[string]int // team ID -> division -> count
	passDivision  map[string]string         // team ID -> first scrape pass division
}

func (c *Collector) collectPeriod(ctx context.Context, period Period) error {
	state := &periodState{
		playerRows:    make(map[string][]playerGameRow),
		matchIdx:      make(map[string]int),
		fouls:         make(map[foulKey]int),
		divisionVotes: make(map[string]map[string]int),
		passDivision:  make(map[string]string),
	}

	pool, err := ants.NewPool(c.cfg.Workers)
	if err != nil {
		return errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, gender := range c.cfg.Genders {
		seen := make(map[string]bool)
		for _, division := range c.cfg.Divisions {
			for _, day := range period.Days() {
				if err := ctx.Err(); err != nil {
					return err
				}
				c.collectDay(ctx, state, pool, &wg, gender, division, day, seen)
			}
		}
	}
	wg.Wait()

	return c.writePeriod(ctx, period, state)
}

func (c *Collector) collectDay(
	ctx context.Context,
	state *periodState,
	pool *ants.Pool,
	wg *sync.WaitGroup,
	gender, division string,
	day time.Time,
	seen map[string]bool,
) {
	board, err := c.client.FetchScoreboard(ctx, gender, division, day)
	if err != nil {
		c.logger.WarnContext(ctx, "scoreboard fetch failed, skipping day",
			"gender", gender, "division", division,
			"day", day.Format("2006-01-02"), "error", err)
		return
	}

	for _, wrapper := range board.Games {
		game := wrapper.Game
		gid := game.GameID
		if gid == "" {
			gid = game.BoxscoreID()
		}
		if gid == "" {
			continue
		}

		state.mu.Lock()
		// Every scrape pass appearance counts toward the division vote,
		// including games already collected under another division.
		for _, t := range wrapper.Teams {
			id := t.TeamID
			if id == "" {
				id = t.ID
			}
			if id == "" {
				continue
			}
			if state.divisionVotes[id] == nil {
				state.divisionVotes[id] = make(map[string]int)
			}
			state.divisionVotes[id][division]++
			if _, ok := state.passDivision[id]; !ok {
				state.passDivision[id] = division
			}
		}
		if seen[gid] {
			state.mu.Unlock()
			continue
		}
		seen[gid] = true
		state.matchIdx[gid] = len(state.matchRows)
		state.matchRows = append(state.matchRows, buildMatchRow(game, gender, division))
		state.mu.Unlock()

		boxscoreID := game.BoxscoreID()
		if boxscoreID == "" {
			continue
		}

		wg.Add(1)
		gameID, gameDivision := gid, division
		if submitErr := pool.Submit(func() {
			defer wg.Done()
			c.collectGame(ctx, state, gender, gameDivision, gameID, boxscoreID)
		}); submitErr != nil {
			wg.Done()
			c.logger.WarnContext(ctx, "worker pool rejected game",
				"game_id", gameID, "error", submitErr)
		}
	}
}

func (c *Collector) collectGame(
	ctx context.Context,
	state *periodState,
	gender, division, gameID, boxscoreID string,
) {
	box, err := c.client.FetchBoxscore(ctx, boxscoreID)
	if err != nil {
		c.logger.WarnContext(ctx, "boxscore fetch failed",
			"game_id", gameID, "boxscore_id", boxscoreID, "error", err)
		return
	}
	rows, summary := parseBoxscore(box, gameID)
	for i := range rows {
		rows[i].Division = division
	}

	var fouls map[foulKey]int
	if pbp, err := c.client.FetchPlayByPlay(ctx, boxscoreID); err != nil {
		c.logger.WarnContext(ctx, "play-by-play fetch failed",
			"game_id", gameID, "boxscore_id", boxscoreID, "error", err)
	} else {
		fouls = countFouls(pbp, gameID)
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	state.playerRows[gender] = append(state.playerRows[gender], rows...)
	for k, n := range fouls {
		state.fouls[k] += n
	}
	if idx, ok := state.matchIdx[gameID]; ok {
		applyBoxscore(&state.matchRows[idx], summary)
	}
}

func (c *Collector) writePeriod(ctx context.Context, period Period, state *periodState) error {
	resolved := resolveDivisionVotes(state.divisionVotes)

	for _, gender := range c.cfg.Genders {
		rows := state.playerRows[gender]
		for i := range rows {
			if div, ok := resolved[rows[i].TeamID]; ok {
				rows[i].Division = div
			} else if div, ok := state.passDivision[rows[i].TeamID]; ok {
				rows[i].Division = div
			}
			key := foulKey{
				gameID: rows[i].GameID,
				team:   rows[i].Team,
				name:   NormalizeName(rows[i].Name),
			}
			rows[i].Stats.FoulsWon += state.fouls[key]
		}

		aggregated := aggregatePlayers(rows, gender)
		path, err := writePlayersCSV(playersDir(c.cfg.OutDir), gender, period.FileCode(), aggregated)
		if err != nil {
			return err
		}
		c.logger.InfoContext(ctx, "wrote player snapshot",
			"path", path, "gender", gender, "players", len(aggregated))
	}

	path, err := writeMatchesCSV(matchesDir(c.cfg.OutDir), period.FileCode(), state.matchRows)
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "wrote match snapshot",
		"path", path, "matches", len(state.matchRows))
	return nil
}

func playersDir(outDir string) string { return filepath.Join(outDir, "Players") }
func matchesDir(outDir string) string { return filepath.Join(outDir, "Matches") }
