// Package handlers implements the JSON API the task application talks to.
// Every handler resolves the participant's tracker from the session cookie;
// requests without an initialized session get a 401.
package handlers

import (
	"net/http"

	"adaptui/internal/tracker"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionKeyParticipant = "participant_id"

// sessionTracker resolves the calling participant's tracker. On failure it
// writes the error response and returns ok=false; the caller just returns.
func sessionTracker(c *gin.Context, registry *tracker.Registry) (*tracker.Tracker, string, bool) {
	session := sessions.Default(c)
	participantID, ok := session.Get(sessionKeyParticipant).(string)
	if !ok || participantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return nil, "", false
	}

	t, found := registry.Get(participantID)
	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return nil, "", false
	}
	return t, participantID, true
}
