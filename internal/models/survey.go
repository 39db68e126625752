package models

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// ComparisonOption is one side of an A/B comparison question. The
// description is what the personalization prompt quotes to the model.
type ComparisonOption struct {
	Image       string `yaml:"image" json:"image"`
	Description string `yaml:"description" json:"description"`
}

// ComparisonQuestion is a single UI-comparison question from the catalog.
type ComparisonQuestion struct {
	ID          string           `yaml:"id" json:"id"`
	Description string           `yaml:"description" json:"description"`
	OptionA     ComparisonOption `yaml:"option_a" json:"option_a"`
	OptionB     ComparisonOption `yaml:"option_b" json:"option_b"`
	Category    string           `yaml:"category" json:"category"`
}

// IconQuestion is one entry of the icon-recognition quiz. Synonyms are the
// acceptable free-text answers for the deterministic scorer; they must stay
// pinned regardless of which grading strategy is active.
type IconQuestion struct {
	Key      string   `yaml:"key" json:"key"`
	Glyph    string   `yaml:"glyph" json:"glyph"`
	Label    string   `yaml:"label" json:"label"`
	Synonyms []string `yaml:"synonyms" json:"-"`
}

// CategoryMapping tells which style each option of a category leans toward.
type CategoryMapping struct {
	OptionA StyleVariant `yaml:"option_a" json:"option_a"`
	OptionB StyleVariant `yaml:"option_b" json:"option_b"`
}

// Survey is the full pre-survey catalog.
type Survey struct {
	Comparisons []ComparisonQuestion       `yaml:"comparisons"`
	Icons       []IconQuestion             `yaml:"icons"`
	Categories  map[string]CategoryMapping `yaml:"categories"`
}

// LoadSurvey reads and parses the survey catalog file.
func LoadSurvey(path string) (*Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read survey file: %w", err)
	}

	var survey Survey
	if err := yaml.Unmarshal(data, &survey); err != nil {
		return nil, fmt.Errorf("failed to unmarshal survey YAML: %w", err)
	}
	if len(survey.Icons) == 0 {
		return nil, fmt.Errorf("survey catalog has no icon questions")
	}

	return &survey, nil
}

// StyleFor maps a category and a choice to the style the choice leans
// toward, or "" when the category is unmapped.
func (s *Survey) StyleFor(category string, choice Choice) StyleVariant {
	m, ok := s.Categories[category]
	if !ok {
		return ""
	}
	switch choice {
	case ChoiceA:
		return m.OptionA
	case ChoiceB:
		return m.OptionB
	}
	return ""
}

// QuestionByCategory returns the first comparison question with the given
// category tag.
func (s *Survey) QuestionByCategory(category string) (ComparisonQuestion, bool) {
	for _, q := range s.Comparisons {
		if q.Category == category {
			return q, true
		}
	}
	return ComparisonQuestion{}, false
}

// ShuffleComparisons randomizes question order for presentation. The CSV
// export always uses catalog order, so shuffling only affects the modal.
func ShuffleComparisons(questions []ComparisonQuestion) {
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}
