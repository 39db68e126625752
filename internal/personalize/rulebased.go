package personalize

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"adaptui/internal/models"

	"go.uber.org/zap"
)

// RuleBased derives a UIConfig from the survey answers without any network
// dependency. It produces the same shape as the remote strategy and is the
// unconditional fallback when that strategy fails.
type RuleBased struct {
	log    *zap.Logger
	survey *models.Survey
}

// NewRuleBased creates the local strategy over the survey catalog.
func NewRuleBased(log *zap.Logger, survey *models.Survey) *RuleBased {
	return &RuleBased{log: log, survey: survey}
}

var iconScoreRe = regexp.MustCompile(`([0-5])/5`)

// parseIconScore extracts N from "N/5", defaulting to the middle score.
func parseIconScore(score string) int {
	m := iconScoreRe.FindStringSubmatch(score)
	if m == nil {
		return 3
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// bucketFor assigns a question category to a style bucket by keyword. The
// check order matters: "input_label" must not land in the button bucket and
// "menu_style" belongs to presentation.
func bucketFor(category string) string {
	switch {
	case strings.Contains(category, "button"):
		return "button"
	case strings.Contains(category, "text"):
		return "text"
	case strings.Contains(category, "layout"), strings.Contains(category, "card"):
		return "layout"
	case strings.Contains(category, "icon"), strings.Contains(category, "menu"):
		return "presentation"
	case strings.Contains(category, "description"):
		return "description"
	case strings.Contains(category, "input"):
		return "input"
	}
	return ""
}

// mean of a novice(0)/expert(1) score list; ok is false for an empty list.
func mean(scores []int) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores)), true
}

// styleFromMean maps a bucket mean onto the three-variant scale.
func styleFromMean(scores []int) models.StyleVariant {
	avg, ok := mean(scores)
	if !ok {
		return models.StyleStandard
	}
	switch {
	case avg <= 0.33:
		return models.StyleNovice
	case avg >= 0.67:
		return models.StyleExpert
	}
	return models.StyleStandard
}

func meanLabel(scores []int) string {
	avg, ok := mean(scores)
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", avg)
}

// Decide implements Strategy. It never fails.
func (r *RuleBased) Decide(_ context.Context, answers *models.PreSurveyAnswers) (*models.UIConfig, error) {
	buckets := map[string][]int{}

	for _, q := range r.survey.Comparisons {
		choice, answered := answers.Comparisons[q.ID]
		if !answered {
			continue
		}
		style := r.survey.StyleFor(q.Category, choice)
		if style == "" {
			continue
		}
		score := 0
		if style == models.StyleExpert {
			score = 1
		}
		if bucket := bucketFor(q.Category); bucket != "" {
			buckets[bucket] = append(buckets[bucket], score)
		}
	}

	cfg := models.StandardConfig()
	cfg.Layout = styleFromMean(buckets["layout"])
	cfg.Text = styleFromMean(buckets["text"])
	cfg.Button = styleFromMean(buckets["button"])
	// Input has few questions of its own; fold in the button bucket.
	cfg.Input = styleFromMean(append(append([]int{}, buckets["input"]...), buckets["button"]...))
	cfg.Description = styleFromMean(buckets["description"])

	iconScore := parseIconScore(answers.IconScore)
	global := models.PresentationIconText
	presentationMean := 0.5
	if avg, ok := mean(buckets["presentation"]); ok {
		presentationMean = avg
	}
	switch {
	case iconScore <= 2:
		global = models.PresentationText
	case iconScore == 3:
		global = models.PresentationIconText
	case presentationMean >= 0.7:
		global = models.PresentationIcon
	default:
		global = models.PresentationIconText
	}

	// The menu button follows the designated menu-style question directly,
	// independent of the bucketed computation.
	menu := models.PresentationIcon
	menuChoice := models.Choice("")
	if q, ok := r.survey.QuestionByCategory("menu_style"); ok {
		menuChoice = answers.Comparisons[q.ID]
		if menuChoice == models.ChoiceB {
			menu = models.PresentationIconText
		}
	}

	cfg.Presentation = &models.PresentationConfig{
		Global: global,
		Buttons: map[string]models.PresentationMode{
			"menu":    menu,
			"addTask": global,
			"default": global,
		},
	}

	cfg.Reasons = map[string]string{
		"layout":      fmt.Sprintf("Derived from layout-related choices (mean score: %s)", meanLabel(buckets["layout"])),
		"text":        fmt.Sprintf("Derived from text-related choices (mean score: %s)", meanLabel(buckets["text"])),
		"button":      fmt.Sprintf("Derived from button-related choices (mean score: %s)", meanLabel(buckets["button"])),
		"input":       "Derived from input-field choices combined with button choices",
		"description": fmt.Sprintf("Derived from description-related choices (mean score: %s)", meanLabel(buckets["description"])),
		"presentation_global": fmt.Sprintf("Derived from icon score %s (%d/5) and presentation-related choices; selected %s",
			answers.IconScore, iconScore, global),
		"presentation_menu": fmt.Sprintf("Menu style question answered with option %s; set to %s",
			choiceLabel(menuChoice), menu),
	}

	return cfg, nil
}

func choiceLabel(c models.Choice) string {
	if c == "" {
		return "N/A"
	}
	return string(c)
}
