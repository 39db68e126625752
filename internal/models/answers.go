package models

import (
	"fmt"
	"sort"
	"strings"
)

// Choice is an A/B pick on a comparison question.
type Choice string

const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
)

// PreSurveyAnswers carries everything the pre-survey modal submits.
// IconScore is filled in server side after grading; IconAnswers keeps the
// raw free-text answers in catalog order.
type PreSurveyAnswers struct {
	Comparisons map[string]Choice `json:"ui_comparisons"`
	IconScore   string            `json:"icon_score"`
	IconAnswers []string          `json:"icon_answers"`
}

// CacheKey produces a canonical serialization of the answers, used to key
// the personalization cache. Comparison entries are sorted so that map
// iteration order cannot split the cache.
func (a *PreSurveyAnswers) CacheKey() string {
	pairs := make([]string, 0, len(a.Comparisons))
	for id, choice := range a.Comparisons {
		pairs = append(pairs, fmt.Sprintf("%s:%s", id, choice))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|") + "-icon:" + a.IconScore
}

// PostSurveyAnswers is the fixed four-field post-survey. Scale questions
// default to -1 until answered.
type PostSurveyAnswers struct {
	Ease         int    `json:"q1_seq"`
	Satisfaction int    `json:"q2_satisfaction"`
	Preference   int    `json:"q3_preference"`
	Comment      string `json:"q4_comment"`
}
