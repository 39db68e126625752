// Package experiment decides arm assignment and mints participant ids.
package experiment

import (
	"math/rand"
	"strconv"
	"time"

	"adaptui/internal/models"
)

// ResolveMode picks the experiment arm. A query parameter override wins,
// then the configured default, then the experimental arm.
func ResolveMode(queryValue, configured string) models.Mode {
	switch models.Mode(queryValue) {
	case models.ModeControl:
		return models.ModeControl
	case models.ModeExperimental:
		return models.ModeExperimental
	}
	switch models.Mode(configured) {
	case models.ModeControl:
		return models.ModeControl
	case models.ModeExperimental:
		return models.ModeExperimental
	}
	return models.ModeExperimental
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewParticipantID builds an id from a mode prefix, a base-36 millisecond
// timestamp and a 5-character random suffix. There is no collision check;
// the probability is acceptable for lab-scale studies and the id stays
// traceable to arm and enrollment time.
func NewParticipantID(mode models.Mode) string {
	prefix := "e"
	if mode == models.ModeControl {
		prefix = "c"
	}
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return prefix + ts + string(suffix)
}
