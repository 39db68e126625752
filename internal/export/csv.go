// Package export serializes an experiment record into the two-line CSV
// artifact downloaded at the end of a session. Header assembly is driven by
// which optional blocks the record carries, so control-arm exports without
// a presentation block simply have fewer columns.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"adaptui/internal/models"
)

// Serialize renders the record as a header line and a value line joined by
// a newline. A non-nil postOverride replaces the stored post-survey fields,
// guaranteeing the export sees the freshest submission. The total_times
// column is computed here from the stored session start and now, never
// from a stored end value. Serialization never fails; missing data becomes
// the empty string.
func Serialize(rec *models.ExperimentRecord, survey *models.Survey, postOverride *models.PostSurveyAnswers, now time.Time) string {
	if postOverride != nil {
		rec = rec.Clone()
		rec.PostEase = postOverride.Ease
		rec.PostSatisfaction = postOverride.Satisfaction
		rec.PostPreference = postOverride.Preference
		rec.PostComment = postOverride.Comment
	}

	headers := assembleHeaders(rec, survey)

	values := make([]string, len(headers))
	for i, header := range headers {
		values[i] = Escape(valueFor(rec, survey, header, now))
	}

	return strings.Join(headers, ",") + "\n" + strings.Join(values, ",")
}

func assembleHeaders(rec *models.ExperimentRecord, survey *models.Survey) []string {
	headers := []string{
		"participant_id",
		"timestamp",
		"group",
		"ui_layout",
		"ui_text",
		"ui_button",
		"ui_input",
		"ui_description",
		"ui_button_size_plus",
	}

	if rec.Presentation != nil {
		if rec.Presentation.Global != "" {
			headers = append(headers, "presentation_global")
		}
		keys := make([]string, 0, len(rec.Presentation.Buttons))
		for k := range rec.Presentation.Buttons {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			headers = append(headers, "presentation_button_"+k)
		}
	}

	if rec.Reasons != nil {
		keys := make([]string, 0, len(rec.Reasons))
		for k := range rec.Reasons {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			headers = append(headers, "reason_"+k)
		}
	}

	if rec.PreComparisons != nil {
		for _, q := range survey.Comparisons {
			headers = append(headers, "pre_"+q.ID)
		}
	}

	headers = append(headers, "pre_icon_score")
	for _, icon := range survey.Icons {
		headers = append(headers, "pre_icon_"+icon.Key)
	}

	for _, key := range models.ConditionKeys {
		headers = append(headers, "exp_task_"+key+"_time", "exp_task_"+key+"_clicks")
	}

	headers = append(headers,
		"total_times",
		"total_clicks",
		"task_success",
		"post_q1_seq",
		"post_q2_satisfaction",
		"post_q3_preference",
		"post_q4_comment",
	)

	return headers
}

func valueFor(rec *models.ExperimentRecord, survey *models.Survey, header string, now time.Time) string {
	switch header {
	case "participant_id":
		return rec.ParticipantID
	case "timestamp":
		return rec.Timestamp
	case "group":
		return string(rec.Group)
	case "ui_layout":
		return string(rec.UILayout)
	case "ui_text":
		return string(rec.UIText)
	case "ui_button":
		return string(rec.UIButton)
	case "ui_input":
		return string(rec.UIInput)
	case "ui_description":
		return string(rec.UIDescription)
	case "ui_button_size_plus":
		return string(rec.UIButtonSizePlus)
	case "total_times":
		if rec.StartTime.IsZero() {
			return ""
		}
		return fmt.Sprintf("%.3f", now.Sub(rec.StartTime).Seconds())
	case "total_clicks":
		return strconv.Itoa(rec.TotalClicks)
	case "task_success":
		return strconv.Itoa(rec.TaskSuccess)
	case "pre_icon_score":
		return rec.PreIconScore
	case "presentation_global":
		if rec.Presentation == nil {
			return ""
		}
		return string(rec.Presentation.Global)
	case "post_q1_seq":
		return strconv.Itoa(rec.PostEase)
	case "post_q2_satisfaction":
		return strconv.Itoa(rec.PostSatisfaction)
	case "post_q3_preference":
		return strconv.Itoa(rec.PostPreference)
	case "post_q4_comment":
		return rec.PostComment
	}

	switch {
	case strings.HasPrefix(header, "presentation_button_"):
		if rec.Presentation == nil {
			return ""
		}
		key := strings.TrimPrefix(header, "presentation_button_")
		return string(rec.Presentation.Buttons[key])
	case strings.HasPrefix(header, "reason_"):
		return rec.Reasons[strings.TrimPrefix(header, "reason_")]
	case strings.HasPrefix(header, "pre_icon_"):
		key := strings.TrimPrefix(header, "pre_icon_")
		for i, icon := range survey.Icons {
			if icon.Key == key && i < len(rec.PreIconAnswers) {
				return rec.PreIconAnswers[i]
			}
		}
		return ""
	case strings.HasPrefix(header, "pre_"):
		return string(rec.PreComparisons[strings.TrimPrefix(header, "pre_")])
	}

	return rec.Extra[header]
}

// Escape wraps a value in double quotes when it contains a comma, quote or
// newline, doubling any internal quotes. Unescape inverts it exactly.
func Escape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// Unescape undoes Escape. Values that were never quoted pass through.
func Unescape(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

// Filename builds the download name for a participant's CSV artifact,
// timestamped to the minute with colons and dashes stripped.
func Filename(participantID string, now time.Time) string {
	return fmt.Sprintf("exp_result_%s_%s.csv", participantID, now.UTC().Format("20060102T1504"))
}
