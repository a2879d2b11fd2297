package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/scribeworks/meetscribe/internal/config"
	"github.com/scribeworks/meetscribe/internal/logger"
)

// Router dispatches a transcript to one of the analysis strategies,
// walking the fixed fallback chain local -> cloud -> basic on failure. It
// never raises for provider-level failures; the terminal basic strategy
// guarantees a usable result.
type Router struct {
	chain    []Strategy
	minChars int
	logger   logger.Logger
}

// NewRouter builds the production chain from configuration.
func NewRouter(cfg *config.Config, log logger.Logger) *Router {
	return newRouter([]Strategy{
		newLocalProvider(cfg.Analysis.Ollama.Host, cfg.Analysis.Ollama.Model, cfg.OllamaTimeout(), log),
		newCloudProvider(cfg.Gemini().APIKey, cfg.Gemini().Model, cfg.GeminiTimeout(), log),
		&basicProvider{},
	}, cfg.Analysis.MinTranscriptChars, log)
}

// newRouter keeps the chain injectable for tests.
func newRouter(chain []Strategy, minChars int, log logger.Logger) *Router {
	return &Router{
		chain:    chain,
		minChars: minChars,
		logger:   log,
	}
}

// Analyze runs the transcript through the chain starting at the requested
// provider. Text below the minimum length goes straight to the basic
// strategy regardless of the request, so AI calls are never made for
// trivially short input.
func (r *Router) Analyze(ctx context.Context, text string, requested Provider) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTranscript
	}

	start := r.indexOf(requested)
	if requested == ProviderBasic || utf8.RuneCountInString(text) < r.minChars {
		start = r.indexOf(ProviderBasic)
	}

	var lastErr error
	for _, s := range r.chain[start:] {
		if !s.Available() {
			r.logger.Debug(ctx, "Provider %s unavailable, skipping", s.Name())
			continue
		}

		result, err := s.Analyze(ctx, text)
		if err != nil {
			// Recovered locally: log and continue down the chain.
			r.logger.Warn(ctx, "Provider %s failed, falling back: %v", s.Name(), err)
			lastErr = err
			continue
		}

		result.Provider = s.Name()
		result.Tier = tierFor(s.Name())
		if result.Provider != requested {
			r.logger.Info(ctx, "Analyzed via %s (fallback from %s)", result.Provider, requested)
		}
		return result, nil
	}

	// The basic strategy cannot fail, so this is unreachable with the
	// production chain.
	return nil, fmt.Errorf("no analysis strategy produced a result: %w", lastErr)
}

func (r *Router) indexOf(p Provider) int {
	for i, s := range r.chain {
		if s.Name() == p {
			return i
		}
	}
	return 0
}

func tierFor(p Provider) Tier {
	if p == ProviderBasic {
		return TierBasic
	}
	return TierRich
}
