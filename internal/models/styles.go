package models

// StyleVariant is the value of a single UI style axis.
type StyleVariant string

const (
	StyleNovice   StyleVariant = "novice"
	StyleStandard StyleVariant = "standard"
	StyleExpert   StyleVariant = "expert"
)

// Valid reports whether the variant is one of the three accepted values.
func (s StyleVariant) Valid() bool {
	switch s {
	case StyleNovice, StyleStandard, StyleExpert:
		return true
	}
	return false
}

// PresentationMode controls how a button renders its icon and label.
type PresentationMode string

const (
	PresentationIcon     PresentationMode = "icon"
	PresentationText     PresentationMode = "text"
	PresentationIconText PresentationMode = "icon_text"
)

// PresentationConfig holds the global presentation mode plus per-button
// overrides. Buttons is not required to cover every button in the task
// application; absent keys fall back to Global.
type PresentationConfig struct {
	Global  PresentationMode            `json:"global,omitempty"`
	Buttons map[string]PresentationMode `json:"buttons,omitempty"`
}

// UIConfig is the personalization decision applied to the task application.
// Every axis always carries a valid variant; the engine substitutes
// "standard" before a config ever leaves the personalize package.
type UIConfig struct {
	Layout      StyleVariant `json:"layout"`
	Text        StyleVariant `json:"text"`
	Button      StyleVariant `json:"button"`
	Input       StyleVariant `json:"input"`
	Description StyleVariant `json:"description"`

	Presentation *PresentationConfig `json:"presentation,omitempty"`
	// Reasons maps decision keys to human-readable justifications. Audit
	// data only; nothing reads it for control flow.
	Reasons map[string]string `json:"reasons,omitempty"`
}

// StandardConfig returns the fixed configuration used for the control arm
// and as the terminal fallback.
func StandardConfig() *UIConfig {
	return &UIConfig{
		Layout:      StyleStandard,
		Text:        StyleStandard,
		Button:      StyleStandard,
		Input:       StyleStandard,
		Description: StyleStandard,
	}
}

// ResolvePresentation returns the presentation mode for a named button.
// The lookup order is fixed everywhere in the system: explicit per-button
// entry, then the global mode, then "icon_text".
func ResolvePresentation(button string, cfg *UIConfig) PresentationMode {
	if cfg != nil && cfg.Presentation != nil {
		if m, ok := cfg.Presentation.Buttons[button]; ok && m != "" {
			return m
		}
		if cfg.Presentation.Global != "" {
			return cfg.Presentation.Global
		}
	}
	return PresentationIconText
}
