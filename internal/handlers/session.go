package handlers

import (
	"net/http"

	"adaptui/internal/config"
	"adaptui/internal/experiment"
	"adaptui/internal/models"
	"adaptui/internal/tracker"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionHandler struct {
	log      *zap.Logger
	registry *tracker.Registry
	survey   *models.Survey
}

func NewSessionHandler(log *zap.Logger, registry *tracker.Registry, survey *models.Survey) *SessionHandler {
	return &SessionHandler{log: log, registry: registry, survey: survey}
}

// Init assigns the experiment arm, mints a participant id and creates the
// session tracker. Calling it again replaces the participant's session; the
// old record becomes unreachable, matching a page reload starting over.
func (h *SessionHandler) Init(c *gin.Context) {
	mode := experiment.ResolveMode(c.Query("mode"), config.Conf.Experiment.DefaultMode)
	participantID := experiment.NewParticipantID(mode)

	t := tracker.New(h.log, participantID, mode,
		tracker.WithDebounce(config.Conf.Experiment.PostSurveyDebounce))
	h.registry.Put(participantID, t)

	session := sessions.Default(c)
	session.Set(sessionKeyParticipant, participantID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}

	h.log.Info("Session initialized",
		zap.String("participant_id", participantID),
		zap.String("group", string(mode)))

	// The modal shows questions in random order; the CSV export stays in
	// catalog order regardless.
	questions := make([]models.ComparisonQuestion, len(h.survey.Comparisons))
	copy(questions, h.survey.Comparisons)
	models.ShuffleComparisons(questions)

	c.JSON(http.StatusOK, gin.H{
		"participant_id": participantID,
		"group":          mode,
		"comparisons":    questions,
		"icons":          h.survey.Icons,
		"conditions":     models.ConditionCatalog,
		"condition_keys": models.ConditionKeys,
	})
}
