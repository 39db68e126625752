package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleVariantValid(t *testing.T) {
	assert.True(t, StyleNovice.Valid())
	assert.True(t, StyleStandard.Valid())
	assert.True(t, StyleExpert.Valid())
	assert.False(t, StyleVariant("advanced").Valid())
	assert.False(t, StyleVariant("").Valid())
}

func TestResolvePresentation(t *testing.T) {
	cfg := &UIConfig{
		Presentation: &PresentationConfig{
			Global: PresentationIcon,
			Buttons: map[string]PresentationMode{
				"menu": PresentationText,
			},
		},
	}

	assert.Equal(t, PresentationText, ResolvePresentation("menu", cfg))
	assert.Equal(t, PresentationIcon, ResolvePresentation("addTask", cfg))

	cfg.Presentation.Global = ""
	assert.Equal(t, PresentationIconText, ResolvePresentation("addTask", cfg))

	assert.Equal(t, PresentationIconText, ResolvePresentation("menu", &UIConfig{}))
	assert.Equal(t, PresentationIconText, ResolvePresentation("menu", nil))
}

func TestStandardConfig(t *testing.T) {
	cfg := StandardConfig()
	assert.Equal(t, StyleStandard, cfg.Layout)
	assert.Equal(t, StyleStandard, cfg.Text)
	assert.Equal(t, StyleStandard, cfg.Button)
	assert.Equal(t, StyleStandard, cfg.Input)
	assert.Equal(t, StyleStandard, cfg.Description)
	assert.Nil(t, cfg.Presentation)
}
