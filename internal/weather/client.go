package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the OpenWeatherMap current-weather endpoint.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

	// DefaultMaxRetries counts retries after the first attempt.
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = 200 * time.Millisecond
	DefaultHTTPTimeout    = 15 * time.Second
)

// Config tunes the client. Zero values select the package defaults; a
// negative MaxRetries disables retries.
type Config struct {
	BaseURL        string
	APIKey         string
	MaxRetries     int
	InitialBackoff time.Duration
	HTTPTimeout    time.Duration
}

// Client fetches weather for a free-form location. It never returns a Go
// error: failures come back as a Result whose Error field is set.
type Client struct {
	cfg        Config
	cache      Cache
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient builds a Client around cache. httpClient may be nil.
func NewClient(cfg Config, cache Cache, httpClient *http.Client, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("weather API key cannot be empty")
	}
	if cache == nil {
		return nil, errors.New("weather cache cannot be nil")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	} else if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &Client{
		cfg:        cfg,
		cache:      cache,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "weather").Logger(),
	}, nil
}

// Fetch returns the current weather for location, serving from cache while the
// entry is fresh. Only successful results are cached.
func (c *Client) Fetch(ctx context.Context, location string) Result {
	if cached, ok := c.cache.Get(ctx, location); ok {
		c.logger.Debug().Str("location", location).Msg("serving weather from cache")
		return cached
	}

	body, err := c.doRequestWithRetry(ctx, location)
	if err != nil {
		c.logger.Error().Err(err).Str("location", location).Msg("error fetching weather data")
		return Result{Error: errorMessage(err)}
	}

	var payload providerResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Error().Err(err).Str("location", location).Msg("failed to decode weather response")
		return Result{Error: FallbackErrorMessage}
	}
	if len(payload.Weather) == 0 {
		c.logger.Error().Str("location", location).Msg("weather response had no conditions")
		return Result{Error: FallbackErrorMessage}
	}

	result := Result{
		Description: payload.Weather[0].Description,
		Temperature: payload.Main.Temp,
		Location:    payload.Name,
	}
	c.cache.Set(ctx, location, result)
	return result
}

func (c *Client) requestURL(location string) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid weather base URL: %w", err)
	}
	params := base.Query()
	params.Set("q", location)
	params.Set("appid", c.cfg.APIKey)
	params.Set("units", "metric")
	base.RawQuery = params.Encode()
	return base.String(), nil
}

// statusError is a non-2xx reply from the provider.
type statusError struct {
	StatusCode int
	Body       []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("weather API returned status %d: %s", e.StatusCode, string(e.Body))
}

func (e *statusError) retryable() bool {
	return e.StatusCode >= 500
}

// doRequestWithRetry performs the GET, retrying transport errors and 5xx
// replies up to MaxRetries times with jittered exponential backoff. 4xx
// replies are returned at once.
func (c *Client) doRequestWithRetry(ctx context.Context, location string) ([]byte, error) {
	target, err := c.requestURL(location)
	if err != nil {
		return nil, err
	}

	var lastErr error
	attempts := c.cfg.MaxRetries + 1
	delay := c.cfg.InitialBackoff
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.do(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, attempts, err)

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			return nil, lastErr
		}
		if ctx.Err() != nil {
			return nil, lastErr
		}
		if attempt == attempts {
			break
		}

		wait := withJitter(delay)
		c.logger.Warn().Err(err).Int("attempt", attempt).Dur("backoff", wait).Msg("retrying weather request")
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("weather retry aborted: %w", ctx.Err())
		case <-time.After(wait):
		}
		delay *= 2
	}
	return nil, lastErr
}

// withJitter adds up to 20% of d at random.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int64N(int64(d)/5+1))
}

func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call weather API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather API response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

// errorMessage prefers the provider's own message over the generic fallback.
func errorMessage(err error) string {
	var se *statusError
	if errors.As(err, &se) {
		var pe providerError
		if json.Unmarshal(se.Body, &pe) == nil && pe.Message != "" {
			return pe.Message
		}
	}
	return FallbackErrorMessage
}
