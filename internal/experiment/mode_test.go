package experiment

import (
	"strings"
	"testing"

	"adaptui/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveModePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		configured string
		want       models.Mode
	}{
		{"query wins over config", "control", "experimental", models.ModeControl},
		{"query experimental", "experimental", "control", models.ModeExperimental},
		{"invalid query falls to config", "bogus", "control", models.ModeControl},
		{"empty query falls to config", "", "control", models.ModeControl},
		{"both invalid defaults experimental", "bogus", "nope", models.ModeExperimental},
		{"both empty defaults experimental", "", "", models.ModeExperimental},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMode(tt.query, tt.configured))
		})
	}
}

func TestNewParticipantID(t *testing.T) {
	e := NewParticipantID(models.ModeExperimental)
	c := NewParticipantID(models.ModeControl)

	assert.True(t, strings.HasPrefix(e, "e"))
	assert.True(t, strings.HasPrefix(c, "c"))

	// mode prefix + millisecond timestamp in base 36 + 5 random characters
	assert.Greater(t, len(e), 6)
	for _, r := range e[1:] {
		assert.Contains(t, idAlphabet, string(r))
	}
}

func TestNewParticipantIDVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		seen[NewParticipantID(models.ModeExperimental)] = true
	}
	assert.Greater(t, len(seen), 1)
}
