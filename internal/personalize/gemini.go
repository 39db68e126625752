package personalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"adaptui/internal/models"

	"go.uber.org/zap"
)

// GeminiConfig holds the remote strategy's connection settings.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

// DefaultGeminiConfig returns sensible defaults for everything but the key.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:     apiKey,
		BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
		Model:      "gemini-2.5-pro",
		Timeout:    60 * time.Second,
		MaxRetries: 5,
		RetryBase:  500 * time.Millisecond,
	}
}

// Gemini is the remote personalization strategy. It is also the remote
// grading path for the icon quiz.
type Gemini struct {
	log        *zap.Logger
	cfg        GeminiConfig
	survey     *models.Survey
	httpClient *http.Client
}

// NewGemini creates the remote strategy.
func NewGemini(log *zap.Logger, cfg GeminiConfig, survey *models.Survey) *Gemini {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-pro"
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	return &Gemini{
		log:    log,
		cfg:    cfg,
		survey: survey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Wire types for the generateContent endpoint.
type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Decide builds the personalization prompt, calls the endpoint and
// validates the JSON region of the first candidate. Any failure is returned
// to the engine, which falls back to the rule-based strategy.
func (g *Gemini) Decide(ctx context.Context, answers *models.PreSurveyAnswers) (*models.UIConfig, error) {
	text, err := g.generate(ctx, buildConfigPrompt(g.survey, answers))
	if err != nil {
		return nil, err
	}

	region, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(region), &raw); err != nil {
		return nil, fmt.Errorf("response JSON did not parse: %w", err)
	}

	return Validate(raw, g.log), nil
}

var scoreRe = regexp.MustCompile(`[0-5]/5`)

// EvaluateIcons asks the model to grade the icon quiz semantically and
// returns the "N/5" score it reports. Callers fall back to the local scorer
// on error or an unexpected response shape.
func (g *Gemini) EvaluateIcons(ctx context.Context, answers []string) (string, error) {
	text, err := g.generate(ctx, buildIconPrompt(g.survey.Icons, answers))
	if err != nil {
		return "", err
	}
	score := scoreRe.FindString(text)
	if score == "" {
		return "", fmt.Errorf("no score of the form N/5 in response %q", strings.TrimSpace(text))
	}
	return score, nil
}

// generate performs the HTTP call with bounded exponential backoff. Only a
// 503 status and transport errors are retried; every other failure is
// terminal and handed to the caller.
func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.cfg.BaseURL, g.cfg.Model, g.cfg.APIKey)

	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := g.cfg.RetryBase << uint(attempt-1)
			g.log.Warn("Retrying Gemini request",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", g.cfg.MaxRetries),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusServiceUnavailable {
			lastErr = fmt.Errorf("service unavailable (503)")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}

		var genResp generateResponse
		if err := json.Unmarshal(body, &genResp); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		if genResp.Error != nil {
			return "", fmt.Errorf("API error: %s", genResp.Error.Message)
		}
		if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("empty response: no candidates returned")
		}

		var text strings.Builder
		for _, part := range genResp.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
		if strings.TrimSpace(text.String()) == "" {
			return "", fmt.Errorf("empty response text")
		}
		return text.String(), nil
	}

	return "", fmt.Errorf("gave up after %d attempts: %w", g.cfg.MaxRetries+1, lastErr)
}

// extractJSON pulls the first-"{"-to-last-"}" region out of model prose.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return text[start : end+1], nil
}
