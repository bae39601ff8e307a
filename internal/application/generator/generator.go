// Package generator produces business names, advertisement copy and extra
// business ideas. Each generator asks the text completion service first and
// falls back to local rules, so callers always get a usable answer.
package generator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/grimes-money/money-adventure/config"
	"github.com/grimes-money/money-adventure/pkg/logger"
)

// Completer is the text completion service.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Where a generated result came from.
const (
	SourceService  = "service"
	SourcePartial  = "partial"
	SourceFallback = "fallback"
)

// Outcome is reported once per generation.
type Outcome func(kind, source string)

// Options are shared by all generators.
type Options struct {
	// Completer may be nil: every generator then uses its fallback.
	Completer Completer
	Features  *config.FeatureFlags
	Timeout   time.Duration
	Rand      *Rand
	Logger    *logger.Logger
	OnOutcome Outcome
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 8 * time.Second
	}
	if o.Rand == nil {
		o.Rand = NewRand(0)
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.OnOutcome == nil {
		o.OnOutcome = func(string, string) {}
	}
	return o
}

// useService reports whether the completer may be called for feature.
func (o Options) useService(feature, sessionID string) bool {
	if o.Completer == nil {
		return false
	}
	return o.Features.IsEnabled(feature, &config.FeatureContext{SessionID: sessionID})
}

func (o Options) complete(ctx context.Context, kind, prompt string, maxTokens int, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	start := time.Now()
	text, err := o.Completer.Complete(ctx, prompt, maxTokens, temperature)
	if err != nil {
		o.Logger.Warn("generation failed, using fallback",
			logger.String("kind", kind),
			logger.Latency(time.Since(start)),
			logger.Err(err),
		)
		return "", err
	}
	return text, nil
}

// Rand is a goroutine-safe random source. Seed it for reproducible output.
type Rand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRand returns a source seeded with seed, or with the clock when seed is 0.
func NewRand(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a number in [0,n).
func (r *Rand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func (r *Rand) pick(list []string) string {
	return list[r.Intn(len(list))]
}
