package personalize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"adaptui/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func candidateResponse(text string) []byte {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return body
}

func testGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewGemini(zap.NewNop(), GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "test-model",
		Timeout:    time.Second,
		MaxRetries: 2,
		RetryBase:  time.Millisecond,
	}, testSurvey())
}

func TestGeminiDecideParsesProseWrappedJSON(t *testing.T) {
	g := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		text := "Here is the configuration:\n```json\n" +
			`{"layout":"expert","text":"novice","button":"standard","input":"expert","description":"novice",` +
			`"presentation":{"global":"icon","buttons":{"menu":"text"}}}` +
			"\n```\nLet me know if you need anything else."
		w.Write(candidateResponse(text))
	})

	cfg, err := g.Decide(context.Background(), allAnswers(models.ChoiceA, "4/5"))
	require.NoError(t, err)

	assert.Equal(t, models.StyleExpert, cfg.Layout)
	assert.Equal(t, models.StyleNovice, cfg.Text)
	require.NotNil(t, cfg.Presentation)
	assert.Equal(t, models.PresentationIcon, cfg.Presentation.Global)
	assert.Equal(t, models.PresentationText, cfg.Presentation.Buttons["menu"])
}

func TestGeminiRetriesOn503(t *testing.T) {
	var attempts atomic.Int32
	g := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := g.Decide(context.Background(), allAnswers(models.ChoiceA, "4/5"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gave up")
	// MaxRetries of 2 means one initial attempt plus two retries.
	assert.Equal(t, int32(3), attempts.Load())
}

func TestGeminiDoesNotRetryOtherErrors(t *testing.T) {
	var attempts atomic.Int32
	g := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := g.Decide(context.Background(), allAnswers(models.ChoiceA, "4/5"))
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestGeminiRecoversAfter503(t *testing.T) {
	var attempts atomic.Int32
	g := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(candidateResponse(`{"layout":"novice"}`))
	})

	cfg, err := g.Decide(context.Background(), allAnswers(models.ChoiceA, "4/5"))
	require.NoError(t, err)
	assert.Equal(t, models.StyleNovice, cfg.Layout)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestGeminiEvaluateIcons(t *testing.T) {
	g := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse("Based on the answers, the participant scores 4/5."))
	})

	score, err := g.EvaluateIcons(context.Background(), []string{"menu", "share"})
	require.NoError(t, err)
	assert.Equal(t, "4/5", score)
}

func TestGeminiEvaluateIconsRejectsShapelessResponse(t *testing.T) {
	g := testGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse("The answers look pretty good to me."))
	})

	_, err := g.EvaluateIcons(context.Background(), []string{"menu", "share"})
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	region, err := extractJSON(`prose {"a":{"b":1}} trailing`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":1}}`, region)

	_, err = extractJSON("no json here")
	assert.Error(t, err)

	_, err = extractJSON("} backwards {")
	assert.Error(t, err)
}
