package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-draft/internal/domain/ingest"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"github.com/riskibarqy/fantasy-draft/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const maxBodyBytes = 4 << 20

var errFeedTransient = crerr.New("feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads ratings and game results from the JSON results feed.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

var _ usecase.GameSource = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchRatings(ctx context.Context) ([]ingest.Rating, error) {
	var payload ratingsEnvelope
	if err := c.getJSON(ctx, "/ratings", &payload); err != nil {
		return nil, crerr.Wrap(err, "fetch ratings")
	}

	out := make([]ingest.Rating, 0, len(payload.Data))
	for _, item := range payload.Data {
		out = append(out, ingest.Rating{
			Rank:        item.Rank,
			PlayerName:  strings.TrimSpace(item.Name),
			Rating:      item.Rating,
			GamesPlayed: item.Games,
			Wins:        item.Wins,
			WinRate:     item.WinRate,
		})
	}
	return out, nil
}

func (c *Client) ListGameIDs(ctx context.Context, externalRef string) ([]int64, error) {
	externalRef = strings.TrimSpace(externalRef)
	if externalRef == "" {
		return nil, crerr.Newf("external ref is required")
	}

	var payload gameListEnvelope
	path := "/tournaments/" + url.PathEscape(externalRef) + "/games"
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, crerr.Wrapf(err, "list games ref=%s", externalRef)
	}

	ids := make([]int64, 0, len(payload.Data))
	for _, item := range payload.Data {
		if item.ID > 0 {
			ids = append(ids, item.ID)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func (c *Client) FetchGame(ctx context.Context, gameID int64) (ingest.Game, error) {
	if gameID <= 0 {
		return ingest.Game{}, crerr.Newf("game id must be > 0")
	}

	var payload gameEnvelope
	if err := c.getJSON(ctx, "/games/"+strconv.FormatInt(gameID, 10), &payload); err != nil {
		return ingest.Game{}, crerr.Wrapf(err, "fetch game id=%d", gameID)
	}

	game := ingest.Game{
		ID:         gameID,
		GameNumber: payload.Data.Number,
		WinnerTeam: normalizeWinner(payload.Data.Winner),
		Stats:      make([]ingest.PlayerStat, 0, len(payload.Data.Players)),
	}
	for _, p := range payload.Data.Players {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		game.Stats = append(game.Stats, ingest.PlayerStat{
			PlayerName: name,
			Role:       normalizeRole(p.Role),
			Points:     p.Points,
			Fouls:      p.Fouls,
		})
	}
	return game, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	if c.baseURL == "" {
		return fmt.Errorf("%w: feed base url is not configured", usecase.ErrDependencyUnavailable)
	}

	var raw []byte
	run := func() error {
		var err error
		raw, err = c.executeRequest(ctx, c.baseURL+path)
		return err
	}

	var err error
	if c.circuitEnabled {
		err = c.breaker.Execute(run, isCircuitFailure)
	} else {
		err = run()
	}
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "feed circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode feed payload")
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, status, err := c.do(ctx, fullURL)
		switch {
		case err != nil:
			lastErr = crerr.Mark(crerr.Wrap(err, "send request"), errFeedTransient)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Mark(crerr.Newf("feed status=%d body=%s", status, abbreviateBody(raw)), errFeedTransient)
		default:
			return nil, crerr.Newf("feed status=%d body=%s", status, abbreviateBody(raw))
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.maxRetries {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * 200 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return nil, 0, crerr.Wrap(err, "read response body")
	}

	// buf goes back to the pool, so hand out a copy.
	return append([]byte(nil), buf.B...), resp.StatusCode, nil
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errFeedTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
