// Package httpx holds the shared outbound HTTP machinery: circuit breakers
// and retry/backoff for the leaf station adapters, breaker-only single-shot
// requests for the forecast client.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Backoff controls exponential backoff behaviour. MaxRetries of zero means
// a single attempt.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Config bundles the HTTP client and resilience settings for one remote
// source.
type Config struct {
	Client  *http.Client
	Backoff Backoff
}

var (
	ErrRateLimited = errors.New("rate limited")
	ErrServerError = errors.New("server error")
	ErrUnexpected  = errors.New("unexpected status code")
	ErrCircuitOpen = errors.New("circuit breaker open")

	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// NewBreaker creates a circuit breaker with the settings every outbound
// source uses.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// Do executes the HTTP request behind the circuit breaker, retrying with
// exponential backoff up to cfg.Backoff.MaxRetries. Non-2xx responses are
// errors. The caller owns closing the response body on success.
func Do(
	ctx context.Context,
	cfg Config,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval < 0 {
		return nil, errInvalidConfig
	}

	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				resp.Body.Close()
				return nil, ErrRateLimited
			}
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, ErrServerError
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", ErrUnexpected, resp.StatusCode)
			}

			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, errors.New("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		lastErr = err
		if attempt >= cfg.Backoff.MaxRetries {
			return nil, lastErr
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if cfg.Backoff.MaxInterval > 0 && delay > cfg.Backoff.MaxInterval {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}
