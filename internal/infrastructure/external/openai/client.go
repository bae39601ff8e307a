// Package openai adapts the OpenAI chat completion API to the generators'
// Completer interface. Calls go through a client-side rate limiter, an
// exponential retry loop and a circuit breaker.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/grimes-money/money-adventure/config"
	"github.com/grimes-money/money-adventure/internal/domain/shared"
	"github.com/grimes-money/money-adventure/pkg/circuitbreaker"
	"github.com/grimes-money/money-adventure/pkg/logger"
	"github.com/grimes-money/money-adventure/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the completion client.
type ClientConfig struct {
	APIKey string

	// BaseURL overrides the API endpoint. Empty means api.openai.com.
	BaseURL string

	Model string

	// Requests per minute and burst of the client-side limiter
	RateLimit      int
	RateLimitBurst int

	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	BreakerThreshold   int
	BreakerTimeout     time.Duration
	BreakerHalfOpenMax int

	// OnBreakerChange is called when the circuit opens or closes.
	OnBreakerChange func(name string, from, to circuitbreaker.State)

	Logger *logger.Logger
}

// ConfigFrom maps the application settings onto ClientConfig.
func ConfigFrom(cfg config.GenerationConfig) ClientConfig {
	return ClientConfig{
		APIKey:             cfg.APIKey,
		BaseURL:            cfg.BaseURL,
		Model:              cfg.Model,
		RateLimit:          cfg.RateLimit,
		RateLimitBurst:     cfg.RateLimitBurst,
		MaxRetries:         cfg.MaxRetries,
		RetryBaseDelay:     cfg.RetryBaseDelay,
		RetryMaxDelay:      cfg.RetryMaxDelay,
		BreakerThreshold:   cfg.CircuitBreakerThreshold,
		BreakerTimeout:     cfg.CircuitBreakerTimeout,
		BreakerHalfOpenMax: cfg.CircuitBreakerHalfOpenMax,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the chat completion client.
type Client struct {
	api     *goopenai.Client
	model   string
	limiter *rate.Limiter
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
	logger  *logger.Logger
}

// NewClient creates a Client. It fails when no API key is configured.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, shared.NewDomainError("generation", "new_client", shared.ErrServiceUnavailable, "api key is not configured")
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT3Dot5Turbo
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 60
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 1
	}
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	if cfg.BreakerHalfOpenMax <= 0 {
		cfg.BreakerHalfOpenMax = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	apiConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	log := cfg.Logger.With(logger.Component("openai"))
	onChange := func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state changed",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
		if cfg.OnBreakerChange != nil {
			cfg.OnBreakerChange(name, from, to)
		}
	}

	retrier := retry.GenerationRetrier(cfg.MaxRetries, cfg.RetryBaseDelay, cfg.RetryMaxDelay,
		retry.WithRetryIf(isRetryable),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Debug("retrying completion", logger.Int("attempt", attempt), logger.Duration("delay", delay), logger.Err(err))
		}),
	)

	return &Client{
		api:     goopenai.NewClientWithConfig(apiConfig),
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60.0), cfg.RateLimitBurst),
		retrier: retrier,
		breaker: circuitbreaker.GenerationBreaker(cfg.BreakerThreshold, cfg.BreakerTimeout, cfg.BreakerHalfOpenMax, onChange),
		logger:  log,
	}, nil
}

// Complete sends prompt as a single user message and returns the first
// choice's text.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: float32(temperature),
	}

	var text string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		text, err = retry.DoWithData(ctx, c.retrier, func(ctx context.Context) (string, error) {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", retry.Permanent(fmt.Errorf("rate limiter: %w", err))
			}
			return c.once(ctx, req)
		})
		return err
	})
	if err != nil {
		if circuitbreaker.IsRejected(err) {
			return "", shared.WrapError("generation", "complete", shared.ErrServiceUnavailable, "circuit open", err)
		}
		return "", shared.WrapError("generation", "complete", shared.ErrExternalService, "completion failed", err)
	}
	return text, nil
}

func (c *Client) once(ctx context.Context, req goopenai.ChatCompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Breaker exposes the circuit state for health reporting.
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

var errEmptyResponse = errors.New("completion returned no choices")

// isRetryable allows another attempt for throttling, server errors and
// transport failures.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, errEmptyResponse) {
		return true
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
