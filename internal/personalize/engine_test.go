package personalize

import (
	"context"
	"errors"
	"testing"

	"adaptui/internal/models"
	"adaptui/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStrategy struct {
	calls int
	cfg   *models.UIConfig
	err   error
}

func (s *stubStrategy) Decide(context.Context, *models.PreSurveyAnswers) (*models.UIConfig, error) {
	s.calls++
	return s.cfg, s.err
}

type stubEvaluator struct {
	calls int
	score string
	err   error
}

func (s *stubEvaluator) EvaluateIcons(context.Context, []string) (string, error) {
	s.calls++
	return s.score, s.err
}

func newTestEngine(remote Strategy, icons IconEvaluator) *Engine {
	log := zap.NewNop()
	survey := testSurvey()
	return NewEngine(log, remote, icons, NewRuleBased(log, survey), scoring.NewScorer(survey.Icons))
}

func TestEngineUsesRemoteWhenItSucceeds(t *testing.T) {
	remote := &stubStrategy{cfg: &models.UIConfig{Layout: models.StyleExpert}}
	e := newTestEngine(remote, nil)

	cfg := e.Decide(context.Background(), allAnswers(models.ChoiceA, "4/5"))
	assert.Equal(t, models.StyleExpert, cfg.Layout)
	assert.Equal(t, 1, remote.calls)
}

func TestEngineFallsBackToRuleBased(t *testing.T) {
	remote := &stubStrategy{err: errors.New("quota exceeded")}
	e := newTestEngine(remote, nil)

	cfg := e.Decide(context.Background(), allAnswers(models.ChoiceA, "4/5"))
	require.NotNil(t, cfg)
	// All option-A answers lean novice on every style bucket.
	assert.Equal(t, models.StyleNovice, cfg.Layout)
	assert.Equal(t, 1, remote.calls)
}

func TestEngineWithoutRemoteIsRuleBased(t *testing.T) {
	e := newTestEngine(nil, nil)

	cfg := e.Decide(context.Background(), allAnswers(models.ChoiceB, "5/5"))
	require.NotNil(t, cfg)
	assert.Equal(t, models.StyleExpert, cfg.Layout)
}

func TestEngineCachesIdenticalAnswers(t *testing.T) {
	remote := &stubStrategy{cfg: &models.UIConfig{Layout: models.StyleExpert}}
	e := newTestEngine(remote, nil)

	answers := allAnswers(models.ChoiceA, "4/5")
	first := e.Decide(context.Background(), answers)
	second := e.Decide(context.Background(), answers)

	assert.Same(t, first, second)
	assert.Equal(t, 1, remote.calls)

	// A different icon score is a different cache key.
	e.Decide(context.Background(), allAnswers(models.ChoiceA, "2/5"))
	assert.Equal(t, 2, remote.calls)
}

func TestScoreIconsPrefersRemote(t *testing.T) {
	icons := &stubEvaluator{score: "5/5"}
	e := newTestEngine(nil, icons)

	assert.Equal(t, "5/5", e.ScoreIcons(context.Background(), []string{"menu", "share"}))
	assert.Equal(t, 1, icons.calls)
}

func TestScoreIconsBlankAnswerForcesLocal(t *testing.T) {
	icons := &stubEvaluator{score: "5/5"}
	e := newTestEngine(nil, icons)

	score := e.ScoreIcons(context.Background(), []string{"menu", ""})
	assert.Equal(t, "1/2", score)
	assert.Equal(t, 0, icons.calls)
}

func TestScoreIconsRemoteErrorFallsBack(t *testing.T) {
	icons := &stubEvaluator{err: errors.New("unavailable")}
	e := newTestEngine(nil, icons)

	score := e.ScoreIcons(context.Background(), []string{"hamburger", "wrong"})
	assert.Equal(t, "1/2", score)
}

func TestScoreIconsMemoizes(t *testing.T) {
	icons := &stubEvaluator{score: "4/5"}
	e := newTestEngine(nil, icons)

	answers := []string{"menu", "share"}
	e.ScoreIcons(context.Background(), answers)
	e.ScoreIcons(context.Background(), answers)
	assert.Equal(t, 1, icons.calls)
}
