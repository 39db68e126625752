package personalize

import (
	"adaptui/internal/models"

	"go.uber.org/zap"
)

// Validate normalizes a parsed model response into a usable UIConfig.
// Axis values outside the enum are silently replaced with "standard"; the
// presentation block is taken only when it is object shaped, with missing
// optional fields defaulted rather than rejected; reasons are advisory and
// accepted as-is. Validate never fails: the worst input yields the standard
// configuration.
func Validate(raw map[string]any, log *zap.Logger) *models.UIConfig {
	cfg := models.StandardConfig()

	axes := []struct {
		key   string
		field *models.StyleVariant
	}{
		{"layout", &cfg.Layout},
		{"text", &cfg.Text},
		{"button", &cfg.Button},
		{"input", &cfg.Input},
		{"description", &cfg.Description},
	}
	for _, axis := range axes {
		value, _ := raw[axis.key].(string)
		if v := models.StyleVariant(value); v.Valid() {
			*axis.field = v
		} else {
			log.Warn("Invalid style axis value, substituting standard",
				zap.String("axis", axis.key),
				zap.Any("value", raw[axis.key]))
		}
	}

	if pres, ok := raw["presentation"].(map[string]any); ok {
		cfg.Presentation = normalizePresentation(pres)
	} else if raw["presentation"] != nil {
		log.Warn("Presentation block is not an object, discarding", zap.Any("value", raw["presentation"]))
	}

	if reasons, ok := raw["reasons"].(map[string]any); ok {
		rm := make(map[string]string, len(reasons))
		for k, v := range reasons {
			if s, ok := v.(string); ok {
				rm[k] = s
			}
		}
		cfg.Reasons = rm
	}

	return cfg
}

func normalizePresentation(pres map[string]any) *models.PresentationConfig {
	p := &models.PresentationConfig{
		Global:  models.PresentationIcon,
		Buttons: map[string]models.PresentationMode{"default": models.PresentationIcon},
	}

	if g, ok := pres["global"].(string); ok && g != "" {
		p.Global = models.PresentationMode(g)
	} else if d, ok := pres["default"].(string); ok && d != "" {
		p.Global = models.PresentationMode(d)
	}

	if buttons, ok := pres["buttons"].(map[string]any); ok {
		bm := make(map[string]models.PresentationMode, len(buttons))
		for key, v := range buttons {
			if s, ok := v.(string); ok && s != "" {
				bm[key] = models.PresentationMode(s)
			}
		}
		if len(bm) > 0 {
			p.Buttons = bm
		}
	}

	return p
}
