package handlers

import (
	"net/http"

	"adaptui/internal/models"
	"adaptui/internal/tracker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventsHandler struct {
	log      *zap.Logger
	registry *tracker.Registry
}

func NewEventsHandler(log *zap.Logger, registry *tracker.Registry) *EventsHandler {
	return &EventsHandler{log: log, registry: registry}
}

// Click records one global click. Clicks arriving before tracking opens or
// after it closes are accepted and silently dropped by the tracker.
func (h *EventsHandler) Click(c *gin.Context) {
	t, _, ok := sessionTracker(c, h.registry)
	if !ok {
		return
	}
	t.Click()
	c.JSON(http.StatusOK, gin.H{"clicks": t.Clicks()})
}

// TaskStart re-opens the timing window for a checklist task.
func (h *EventsHandler) TaskStart(c *gin.Context) {
	t, _, ok := sessionTracker(c, h.registry)
	if !ok {
		return
	}
	key := c.Param("key")
	if !models.IsConditionKey(key) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown task key"})
		return
	}
	t.StartTask(key)
	c.Status(http.StatusNoContent)
}

type taskCompleteRequest struct {
	Success bool `json:"success"`
}

// TaskComplete records a completion event. A successful completion also
// satisfies the matching checklist condition, which closes the timing window
// and may schedule the post-survey.
func (h *EventsHandler) TaskComplete(c *gin.Context) {
	t, _, ok := sessionTracker(c, h.registry)
	if !ok {
		return
	}
	key := c.Param("key")
	if !models.IsConditionKey(key) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown task key"})
		return
	}

	var req taskCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t.RecordTaskCompletion(req.Success)
	if req.Success {
		t.CompleteCondition(key)
	}

	c.JSON(http.StatusOK, gin.H{"conditions": t.Conditions()})
}

// Completion records the scalar success flag without touching the
// checklist. Used when the board reports an outcome that is not tied to a
// specific checklist task.
func (h *EventsHandler) Completion(c *gin.Context) {
	t, _, ok := sessionTracker(c, h.registry)
	if !ok {
		return
	}
	var req taskCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	t.RecordTaskCompletion(req.Success)
	c.Status(http.StatusNoContent)
}

// State reports the checklist progress and whether the post-survey is due.
// The client polls this after each completion to decide when to open the
// post-survey modal.
func (h *EventsHandler) State(c *gin.Context) {
	t, _, ok := sessionTracker(c, h.registry)
	if !ok {
		return
	}
	rec := t.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"group":           rec.Group,
		"conditions":      t.Conditions(),
		"clicks":          t.Clicks(),
		"post_survey_due": t.PostSurveyDue(),
	})
}
