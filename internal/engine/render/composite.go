package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// LogoOutcome records what happened to the logo of a render.
type LogoOutcome int

const (
	// LogoNone: no logo configured, or the path does not composite logos.
	LogoNone LogoOutcome = iota
	LogoApplied
	// LogoFailed: a logo was configured but could not be used; the base
	// artifact was returned instead.
	LogoFailed
)

func (o LogoOutcome) String() string {
	switch o {
	case LogoApplied:
		return "applied"
	case LogoFailed:
		return "failed"
	default:
		return "none"
	}
}

const (
	// Raster logos fit inside this fraction of the code's width.
	logoRasterFraction = 0.3
	// SVG logos occupy the central box starting at 30% with 40% extent.
	svgLogoBox = `x="30%" y="30%" width="40%" height="40%"`

	maxLogoPixels = MaxExportWidth * MaxExportWidth
)

// ErrLogoDimensions is returned for logos whose declared size is empty or
// too large to decode.
var ErrLogoDimensions = errors.New("logo dimensions out of range")

// CompositeLogo draws logo centered on base, scaled to fit within 30% of the
// base width. When plate is non-nil a rectangle of that color is drawn under
// the logo first.
func CompositeLogo(base image.Image, logo *Logo, plate color.Color) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(logo.Data))
	if err != nil {
		return nil, fmt.Errorf("decode logo header (%s): %w", logo.MIME, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxLogoPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrLogoDimensions, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(logo.Data))
	if err != nil {
		return nil, fmt.Errorf("decode logo (%s): %w", logo.MIME, err)
	}

	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return nil, errors.New("logo has no pixels")
	}

	bb := base.Bounds()
	box := int(float64(bb.Dx()) * logoRasterFraction)
	if box < 1 {
		return nil, errors.New("base image too small for a logo")
	}

	w, h := box, box
	if sb.Dx() >= sb.Dy() {
		h = max(1, sb.Dy()*box/sb.Dx())
	} else {
		w = max(1, sb.Dx()*box/sb.Dy())
	}

	x0 := bb.Min.X + (bb.Dx()-w)/2
	y0 := bb.Min.Y + (bb.Dy()-h)/2
	target := image.Rect(x0, y0, x0+w, y0+h)

	dst := image.NewNRGBA(bb)
	draw.Draw(dst, bb, base, bb.Min, draw.Src)
	if plate != nil {
		draw.Draw(dst, target, &image.Uniform{C: plate}, image.Point{}, draw.Src)
	}
	xdraw.CatmullRom.Scale(dst, target, src, sb, xdraw.Over, nil)

	return dst, nil
}

// InjectSVGLogo inserts an <image> referencing logo right before the closing
// </svg> tag. When plate is non-empty a rectangle of that fill sits under it.
func InjectSVGLogo(svg string, logo *Logo, plate string) (string, error) {
	idx := strings.LastIndex(svg, "</svg>")
	if idx < 0 {
		return "", errors.New("svg has no closing tag")
	}

	var insertion strings.Builder
	if plate != "" {
		insertion.WriteString(`<rect ` + svgLogoBox + ` fill="` + plate + `"/>`)
	}
	// DataURI is rebuilt from decoded bytes, so it only holds base64 characters.
	insertion.WriteString(`<image href="` + logo.DataURI() + `" ` + svgLogoBox + ` preserveAspectRatio="xMidYMid meet"/>`)

	return svg[:idx] + insertion.String() + svg[idx:], nil
}
