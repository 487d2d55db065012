package ncaa

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/americascouted/ncaa-stats/internal/platform/logging"
	"github.com/americascouted/ncaa-stats/internal/platform/resilience"
	"github.com/americascouted/ncaa-stats/internal/usecase"
)

const (
	defaultBaseURL = "https://data.ncaa.com/casablanca"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var errNCAATransient = crerr.New("ncaa transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches scoreboard, boxscore, and play-by-play documents from the
// public NCAA data feed. The feed throttles aggressively, so retryable
// statuses back off and repeated failures trip a breaker.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchScoreboard returns one day's games for a gender ("men"/"women") and
// division ("d1"/"d2"/"d3").
func (c *Client) FetchScoreboard(ctx context.Context, gender, division string, day time.Time) (Scoreboard, error) {
	path := fmt.Sprintf("/scoreboard/soccer-%s/%s/%s/scoreboard.json",
		gender, division, day.Format("2006/01/02"))

	var out Scoreboard
	if err := c.doJSON(ctx, path, "", &out); err != nil {
		return Scoreboard{}, fmt.Errorf("fetch scoreboard %s %s %s: %w",
			gender, division, day.Format("2006-01-02"), err)
	}
	return out, nil
}

// FetchBoxscore returns the per-player statistics for one contest.
func (c *Client) FetchBoxscore(ctx context.Context, gameID string) (Boxscore, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return Boxscore{}, fmt.Errorf("%w: game id is required", usecase.ErrInvalidInput)
	}

	var out Boxscore
	referer := "https://www.ncaa.com/game/" + gameID
	if err := c.doJSON(ctx, "/game/"+gameID+"/boxscore.json", referer, &out); err != nil {
		return Boxscore{}, fmt.Errorf("fetch boxscore game=%s: %w", gameID, err)
	}
	return out, nil
}

// FetchPlayByPlay returns the event stream for one contest.
func (c *Client) FetchPlayByPlay(ctx context.Context, gameID string) (PlayByPlay, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return PlayByPlay{}, fmt.Errorf("%w: game id is required", usecase.ErrInvalidInput)
	}

	var out PlayByPlay
	referer := "https://www.ncaa.com/game/" + gameID
	if err := c.doJSON(ctx, "/game/"+gameID+"/pbp.json", referer, &out); err != nil {
		return PlayByPlay{}, fmt.Errorf("fetch pbp game=%s: %w", gameID, err)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path, referer string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "ncaa circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: ncaa feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL, referer)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errNCAATransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode ncaa payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL, referer string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json,text/*,*/*;q=0.9")
		if referer != "" {
			req.Header.Set("Referer", referer)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errNCAATransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errNCAATransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: feed status=%d", errNCAATransient, resp.StatusCode)
			} else {
				return nil, fmt.Errorf("feed status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "ncaa request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	default:
		return false
	}
}
