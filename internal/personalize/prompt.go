package personalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"adaptui/internal/models"
)

// buildConfigPrompt embeds the user's comparison choices, the icon score
// and the category mapping into the instruction schema the model must
// answer with. The response contract is a single JSON object; surrounding
// prose is tolerated and stripped by extractJSON.
func buildConfigPrompt(survey *models.Survey, answers *models.PreSurveyAnswers) string {
	var b strings.Builder

	b.WriteString("You are a UI/UX expert. Based on the user's UI comparison test and icon test results, propose the optimal UI configuration.\n\n")
	b.WriteString("# Input data (user's answers)\n\n")
	b.WriteString("## UI comparison test results\n")
	fmt.Fprintf(&b, "The user answered %d UI comparison questions, choosing the option (A or B) that felt easier to operate.\n", len(survey.Comparisons))

	for i, q := range survey.Comparisons {
		choice := answers.Comparisons[q.ID]
		chosen, notChosen := q.OptionA, q.OptionB
		if choice == models.ChoiceB {
			chosen, notChosen = q.OptionB, q.OptionA
		}
		fmt.Fprintf(&b, "\n### Question %d: %s\n", i+1, q.Description)
		fmt.Fprintf(&b, "- Category: %s\n", q.Category)
		fmt.Fprintf(&b, "- User's choice: option %s\n", choice)
		fmt.Fprintf(&b, "- Chosen UI: %s\n", chosen.Description)
		fmt.Fprintf(&b, "- Not chosen: %s\n", notChosen.Description)
	}

	b.WriteString("\n## Icon test result\n")
	fmt.Fprintf(&b, "- Icon comprehension score: %s\n", answers.IconScore)

	b.WriteString("\n## Category to UI mapping\n")
	b.WriteString("Recommended style per category and option:\n")
	mapping, _ := json.MarshalIndent(survey.Categories, "", "  ")
	b.Write(mapping)

	b.WriteString(`

# Output format
Respond with exactly this JSON structure and nothing else:

{
  "layout": "standard" | "novice" | "expert",
  "text": "standard" | "novice" | "expert",
  "button": "standard" | "novice" | "expert",
  "input": "standard" | "novice" | "expert",
  "description": "standard" | "novice" | "expert",
  "presentation": {
    "global": "icon" | "text" | "icon_text",
    "buttons": {
      "menu": "icon" | "text" | "icon_text",
      "addTask": "icon" | "text" | "icon_text",
      "default": "icon" | "text" | "icon_text"
    }
  },
  "reasons": {
    "layout": "reason, citing the user's concrete choices",
    "text": "reason, citing the user's concrete choices",
    "button": "reason, citing the user's concrete choices",
    "input": "reason, citing the user's concrete choices",
    "description": "reason, citing the user's concrete choices",
    "presentation_global": "reason for presentation.global, citing the icon score and related choices",
    "presentation_menu": "reason for presentation.buttons.menu, citing the menu style question"
  }
}

# Decision method
- novice: beginner friendly (large buttons, more explanation, simple layout)
- standard: balanced
- expert: efficiency oriented (compact, little explanation)

1. Check the option the user chose per category.
2. Use the category mapping to find the style each choice leans toward.
3. Combine related categories: button_size/button_spacing drive button;
   text_size/text_hierarchy drive text; layout_density/card_size drive
   layout; icon_presentation/menu_style drive presentation;
   description_detail and input_label drive description and input.
4. Adjust presentation.global by icon score: 0-2/5 means "text", 3/5 means
   "icon_text", 4-5/5 means "icon" or "icon_text".
5. presentation.buttons.menu must follow the menu style question directly:
   option A (icon only) means "icon", option B (labeled) means "icon_text".
   addTask and default follow presentation.global.
6. Keep related settings consistent and base every value on the user's
   answers as a whole, not on any single choice.
Output only the JSON object, with no text before or after it.`)

	return b.String()
}

// buildIconPrompt asks the model for a semantic grading of the icon quiz.
func buildIconPrompt(icons []models.IconQuestion, answers []string) string {
	var b strings.Builder

	b.WriteString("Grade the following icon quiz answers. For each icon, judge whether the user's answer is semantically correct and return the number of correct answers.\n\n")
	b.WriteString("Icons and acceptable answers:\n")
	for i, icon := range icons {
		fmt.Fprintf(&b, "%d. %s (%s icon): %s\n", i+1, icon.Glyph, icon.Label, strings.Join(icon.Synonyms, ", "))
	}

	b.WriteString("\nUser's answers:\n")
	for i, icon := range icons {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		fmt.Fprintf(&b, "%d. %s -> %q\n", i+1, icon.Label, answer)
	}

	fmt.Fprintf(&b, "\nImportant: count an answer as correct when it matches semantically; exact matches are not required.\nReturn only the number of correct answers in the form \"N/%d\" (for example \"3/%d\").", len(icons), len(icons))

	return b.String()
}
