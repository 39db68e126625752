package handlers

import (
	"net/http"
	"time"

	"adaptui/internal/config"
	"adaptui/internal/export"
	"adaptui/internal/models"
	"adaptui/internal/personalize"
	"adaptui/internal/tracker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SurveyHandler struct {
	log      *zap.Logger
	registry *tracker.Registry
	engine   *personalize.Engine
	survey   *models.Survey
}

func NewSurveyHandler(log *zap.Logger, registry *tracker.Registry, engine *personalize.Engine, survey *models.Survey) *SurveyHandler {
	return &SurveyHandler{log: log, registry: registry, engine: engine, survey: survey}
}

// SubmitPre accepts the pre-survey, grades the icon quiz, runs the
// personalization decision and opens the measurement phase. The control arm
// skips personalization but waits the configured delay so both arms see the
// same loading screen.
func (h *SurveyHandler) SubmitPre(c *gin.Context) {
	t, participantID, ok := sessionTracker(c, h.registry)
	if !ok {
		return
	}

	var answers models.PreSurveyAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	for _, q := range h.survey.Comparisons {
		choice, answered := answers.Comparisons[q.ID]
		if !answered || (choice != models.ChoiceA && choice != models.ChoiceB) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "question " + q.ID + " is unanswered"})
			return
		}
	}
	if len(answers.IconAnswers) != len(h.survey.Icons) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "icon quiz answers incomplete"})
		return
	}

	answers.IconScore = h.engine.ScoreIcons(c.Request.Context(), answers.IconAnswers)
	t.RecordPreSurvey(&answers)

	rec := t.Snapshot()
	var cfg *models.UIConfig
	if rec.Group == models.ModeControl {
		// Blinding: the control arm waits out the same loading screen the
		// experimental arm spends on the model call.
		select {
		case <-c.Request.Context().Done():
			return
		case <-time.After(config.Conf.Experiment.ControlDelay):
		}
		cfg = models.StandardConfig()
	} else {
		cfg = h.engine.Decide(c.Request.Context(), &answers)
	}

	t.SetUIConfig(cfg)
	t.StartClickTracking()
	for _, key := range models.ConditionKeys {
		t.StartTask(key)
	}

	h.log.Info("Pre-survey processed",
		zap.String("participant_id", participantID),
		zap.String("group", string(rec.Group)),
		zap.String("icon_score", answers.IconScore))

	c.JSON(http.StatusOK, gin.H{
		"ui_config":  cfg,
		"icon_score": answers.IconScore,
	})
}

// SubmitPost accepts the post-survey and streams back the participant's CSV
// artifact as the response body.
func (h *SurveyHandler) SubmitPost(c *gin.Context) {
	t, participantID, ok := sessionTracker(c, h.registry)
	if !ok {
		return
	}

	var answers models.PostSurveyAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	for _, v := range []int{answers.Ease, answers.Satisfaction, answers.Preference} {
		if v < 1 || v > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scale answers must be between 1 and 5"})
			return
		}
	}

	t.StopClickTracking()
	t.RecordPostSurvey(&answers)

	now := time.Now()
	csv := export.Serialize(t.Snapshot(), h.survey, &answers, now)
	filename := export.Filename(participantID, now)

	h.log.Info("Post-survey processed, exporting results",
		zap.String("participant_id", participantID),
		zap.String("filename", filename))

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
