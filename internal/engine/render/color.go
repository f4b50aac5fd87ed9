package render

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var ErrInvalidColor = errors.New("invalid color")

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// ParseColor accepts CSS hex notation: #RGB, #RGBA, #RRGGBB and #RRGGBBAA.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// parseBackground maps "transparent" (any case) and the empty string to opaque
// white; the exports are always rendered on a concrete background.
func parseBackground(s string) (color.NRGBA, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "transparent") {
		return white, nil
	}
	return ParseColor(trimmed)
}

// svgColor renders c as an SVG paint value plus its opacity.
func svgColor(c color.NRGBA) (string, string) {
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	if c.A == 0xff {
		return hex, ""
	}
	return hex, strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64)
}
