package backend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/leapscholar/perception-monitor/internal/normalize"
	"github.com/leapscholar/perception-monitor/internal/telemetry"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Defaults used by the dashboard when no explicit values are configured
const (
	DefaultDays  = 30
	DefaultLimit = 6
)

// ErrStatus marks a response outside the 2xx range
var ErrStatus = errors.New("unexpected backend status")

// Client talks to the sentiment backend over HTTP
type Client struct {
	baseURL string
	client  *resty.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// Ensure Client implements API
var _ API = (*Client)(nil)

// NewClient creates a backend client. The circuit breaker opens after five consecutive
// failures and probes again after 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "sentiment-backend",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.Warnf("Circuit breaker %s changed from %s to %s", name, from, to)
			telemetry.CircuitBreakerState.Set(stateToFloat(to))
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "Perception-Monitor/1.0"),
		cb: cb,
	}
}

// FetchSummary retrieves aggregate sentiment counts for the last days
func (c *Client) FetchSummary(ctx context.Context, days int) (models.SentimentSummary, error) {
	body, err := c.get(ctx, "/summary", map[string]string{"days": strconv.Itoa(days)})
	if err != nil {
		return models.SentimentSummary{}, fmt.Errorf("failed to fetch sentiment summary: %w", err)
	}
	return normalize.Summary(body)
}

// FetchPlatforms retrieves per-platform mention volume. days <= 0 leaves the window to the backend.
func (c *Client) FetchPlatforms(ctx context.Context, days int) ([]models.PlatformStat, error) {
	params := map[string]string{}
	if days > 0 {
		params["days"] = strconv.Itoa(days)
	}

	body, err := c.get(ctx, "/platforms", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch platform statistics: %w", err)
	}

	stats, err := normalize.Platforms(body)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		logrus.Warn("No platform data received from backend")
	}
	return stats, nil
}

// FetchTimeline retrieves daily (or weekly, with groupBy "week") mention counts
func (c *Client) FetchTimeline(ctx context.Context, days int, groupBy string) ([]models.TimelineDataPoint, error) {
	params := map[string]string{"days": strconv.Itoa(days)}
	if groupBy != "" {
		params["group_by"] = groupBy
	}

	body, err := c.get(ctx, "/timeline", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline data: %w", err)
	}
	return normalize.Timeline(body)
}

// FetchTopMentions retrieves the strongest positive and negative mentions
func (c *Client) FetchTopMentions(ctx context.Context, limit, days int) (models.TopMentionsResult, error) {
	body, err := c.get(ctx, "/top", map[string]string{
		"limit": strconv.Itoa(limit),
		"days":  strconv.Itoa(days),
	})
	if err != nil {
		return models.TopMentionsResult{}, fmt.Errorf("failed to fetch top mentions: %w", err)
	}
	return normalize.TopMentions(body)
}

// FetchMentions retrieves raw mentions, optionally filtered by platform and sentiment
func (c *Client) FetchMentions(ctx context.Context, query MentionsQuery) ([]models.MentionItem, error) {
	days := query.Days
	if days <= 0 {
		days = DefaultDays
	}
	params := map[string]string{"days": strconv.Itoa(days)}
	if query.Platform != "" {
		params["platform"] = query.Platform
	}
	if query.Sentiment != "" {
		params["sentiment"] = query.Sentiment
	}

	body, err := c.get(ctx, "/mentions", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mentions: %w", err)
	}
	return normalize.Mentions(body)
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	start := time.Now()
	defer func() {
		telemetry.BackendRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}()

	body, err := c.cb.Execute(func() ([]byte, error) {
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(c.baseURL + path)
		if err != nil {
			return nil, err
		}

		if !resp.IsSuccess() {
			return nil, fmt.Errorf("%w %d from %s: %s", ErrStatus, resp.StatusCode(), path, truncate(resp.String(), 200))
		}

		return resp.Body(), nil
	})

	if err != nil {
		outcome := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
		}
		telemetry.BackendRequests.WithLabelValues(path, outcome).Inc()
		logrus.Debugf("Backend request %s failed: %v", path, err)
		return nil, err
	}

	telemetry.BackendRequests.WithLabelValues(path, "success").Inc()
	return body, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func truncate(s string, length int) string {
	s = strings.TrimSpace(s)
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
