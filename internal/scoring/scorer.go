// Package scoring grades the icon-recognition quiz without any network
// dependency. It is the fallback for the remote grading path and the forced
// path whenever an answer is blank, so its synonym lists are the behavioral
// reference for the whole system.
package scoring

import (
	"fmt"
	"strings"
	"sync"

	"adaptui/internal/models"
)

// Scorer matches free-text icon answers against per-icon synonym lists.
type Scorer struct {
	icons []models.IconQuestion

	mu    sync.Mutex
	cache map[string]string
}

// NewScorer builds a scorer over the catalog's icon questions.
func NewScorer(icons []models.IconQuestion) *Scorer {
	return &Scorer{
		icons: icons,
		cache: make(map[string]string),
	}
}

// Score counts answers that contain any acceptable synonym for their icon,
// case-insensitively, and returns "N/5". Blank or whitespace-only answers
// never count. Deterministic for identical input.
func (s *Scorer) Score(answers []string) string {
	key := strings.Join(answers, "|")

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	correct := 0
	for i, icon := range s.icons {
		if i >= len(answers) {
			break
		}
		normalized := strings.ToLower(strings.TrimSpace(answers[i]))
		if normalized == "" {
			continue
		}
		for _, synonym := range icon.Synonyms {
			if strings.Contains(normalized, strings.ToLower(synonym)) {
				correct++
				break
			}
		}
	}
	score := fmt.Sprintf("%d/%d", correct, len(s.icons))

	s.mu.Lock()
	s.cache[key] = score
	s.mu.Unlock()
	return score
}

// HasBlank reports whether any answer is empty or whitespace-only.
func HasBlank(answers []string) bool {
	for _, a := range answers {
		if strings.TrimSpace(a) == "" {
			return true
		}
	}
	return false
}
