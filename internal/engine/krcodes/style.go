package krcodes

import (
	"encoding/json"
	"strings"
)

const (
	DefaultFG      = "#0EA5E9"
	DefaultBG      = "transparent"
	DefaultSize    = 240
	DefaultMargin  = 2
	DefaultECLevel = "M"
)

// EffectiveStyle is the fully defaulted render configuration of a KR Code.
// It is derived on every request and never stored.
type EffectiveStyle struct {
	FG                string  `json:"fg"`
	BG                string  `json:"bg"`
	Size              int     `json:"size"`
	Margin            int     `json:"margin"`
	ECLevel           string  `json:"ecLevel"`
	LogoURL           *string `json:"logoUrl"`
	LogoEnabled       bool    `json:"logoEnabled"`
	LogoBgTransparent bool    `json:"logoBgTransparent"`

	// Defaulted lists fields that were present but unusable and got replaced.
	Defaulted []string `json:"-"`
}

// HasLogo reports whether a logo should be composited onto exports.
func (s EffectiveStyle) HasLogo() bool {
	return s.LogoURL != nil && s.LogoEnabled
}

func DefaultStyle() EffectiveStyle {
	return EffectiveStyle{
		FG:                DefaultFG,
		BG:                DefaultBG,
		Size:              DefaultSize,
		Margin:            DefaultMargin,
		ECLevel:           DefaultECLevel,
		LogoBgTransparent: true,
	}
}

// NormalizeStyle merges a stored style blob over the defaults. Anything that
// is missing or of the wrong type falls back to its default; it never fails.
func NormalizeStyle(raw json.RawMessage) EffectiveStyle {
	style := DefaultStyle()

	if len(raw) == 0 {
		return style
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		if strings.TrimSpace(string(raw)) != "null" {
			style.Defaulted = append(style.Defaulted, "style")
		}
		return style
	}

	if v, ok := fields["fg"]; ok {
		if s, ok := v.(string); ok {
			style.FG = s
		} else {
			style.Defaulted = append(style.Defaulted, "fg")
		}
	}

	if v, ok := fields["bg"]; ok {
		if s, ok := v.(string); ok {
			style.BG = s
		} else {
			style.Defaulted = append(style.Defaulted, "bg")
		}
	}

	if v, ok := fields["size"]; ok {
		if n, ok := v.(float64); ok {
			style.Size = int(n)
		} else {
			style.Defaulted = append(style.Defaulted, "size")
		}
	}

	if v, ok := fields["margin"]; ok {
		if n, ok := v.(float64); ok {
			style.Margin = int(n)
		} else {
			style.Defaulted = append(style.Defaulted, "margin")
		}
	}

	if v, ok := fields["ecLevel"]; ok && v != nil {
		if level, ok := parseECLevel(v); ok {
			style.ECLevel = level
		} else {
			style.Defaulted = append(style.Defaulted, "ecLevel")
		}
	}

	if s, ok := fields["logoUrl"].(string); ok && strings.TrimSpace(s) != "" {
		logo := strings.TrimSpace(s)
		style.LogoURL = &logo
	}

	// A configured logo is on unless explicitly switched off.
	style.LogoEnabled = style.LogoURL != nil
	if b, ok := fields["logoEnabled"].(bool); ok && style.LogoURL != nil {
		style.LogoEnabled = b
	}

	if b, ok := fields["logoBgTransparent"].(bool); ok {
		style.LogoBgTransparent = b
	}

	return style
}

func parseECLevel(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	switch level := strings.ToUpper(strings.TrimSpace(s)); level {
	case "L", "M", "Q", "H":
		return level, true
	default:
		return "", false
	}
}
