// Package personalize maps pre-survey answers to a UI configuration. Two
// interchangeable strategies sit behind one contract: the remote Gemini
// call and the rule-based local calculator. The engine always tries remote
// first and falls back, never the reverse.
package personalize

import (
	"context"
	"strings"
	"sync"

	"adaptui/internal/models"
	"adaptui/internal/scoring"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Strategy is the personalization decision contract.
type Strategy interface {
	Decide(ctx context.Context, answers *models.PreSurveyAnswers) (*models.UIConfig, error)
}

// IconEvaluator is the remote icon-quiz grading contract.
type IconEvaluator interface {
	EvaluateIcons(ctx context.Context, answers []string) (string, error)
}

// Engine owns the strategy ordering, the answer-keyed memoization caches
// and the in-flight de-duplication of identical requests. Its lifetime is
// the application session; construct it once at startup.
type Engine struct {
	log    *zap.Logger
	remote Strategy
	icons  IconEvaluator
	local  *RuleBased
	scorer *scoring.Scorer

	mu         sync.Mutex
	configs    map[string]*models.UIConfig
	iconScores map[string]string
	flight     singleflight.Group
}

// NewEngine wires the engine. remote and icons may be nil when no API key
// is configured; the engine then runs purely rule-based and local.
func NewEngine(log *zap.Logger, remote Strategy, icons IconEvaluator, local *RuleBased, scorer *scoring.Scorer) *Engine {
	return &Engine{
		log:        log,
		remote:     remote,
		icons:      icons,
		local:      local,
		scorer:     scorer,
		configs:    make(map[string]*models.UIConfig),
		iconScores: make(map[string]string),
	}
}

// Decide returns the UI configuration for the given answers. It never
// fails: remote errors degrade to the rule-based strategy. Identical
// answers are served from cache, and concurrent identical requests share a
// single computation.
func (e *Engine) Decide(ctx context.Context, answers *models.PreSurveyAnswers) *models.UIConfig {
	key := answers.CacheKey()

	e.mu.Lock()
	if cfg, ok := e.configs[key]; ok {
		e.mu.Unlock()
		e.log.Debug("Personalization served from cache", zap.String("key", key))
		return cfg
	}
	e.mu.Unlock()

	v, _, _ := e.flight.Do(key, func() (any, error) {
		cfg := e.decide(ctx, answers)
		e.mu.Lock()
		e.configs[key] = cfg
		e.mu.Unlock()
		return cfg, nil
	})
	return v.(*models.UIConfig)
}

func (e *Engine) decide(ctx context.Context, answers *models.PreSurveyAnswers) *models.UIConfig {
	if e.remote != nil {
		cfg, err := e.remote.Decide(ctx, answers)
		if err == nil {
			return cfg
		}
		e.log.Warn("Remote personalization failed, falling back to rule-based strategy", zap.Error(err))
	}

	cfg, _ := e.local.Decide(ctx, answers)
	return cfg
}

// ScoreIcons grades the icon quiz. Any blank answer forces the local
// scorer; otherwise the remote grading path is tried with the local scorer
// as fallback. Results are memoized per answer set.
func (e *Engine) ScoreIcons(ctx context.Context, answers []string) string {
	key := strings.Join(answers, "|")

	e.mu.Lock()
	if score, ok := e.iconScores[key]; ok {
		e.mu.Unlock()
		return score
	}
	e.mu.Unlock()

	var score string
	switch {
	case scoring.HasBlank(answers) || e.icons == nil:
		score = e.scorer.Score(answers)
	default:
		remote, err := e.icons.EvaluateIcons(ctx, answers)
		if err != nil {
			e.log.Warn("Remote icon grading failed, using local scoring", zap.Error(err))
			score = e.scorer.Score(answers)
		} else {
			score = remote
		}
	}

	e.mu.Lock()
	e.iconScores[key] = score
	e.mu.Unlock()
	return score
}
