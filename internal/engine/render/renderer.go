package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/rs/zerolog/log"

	"kompi/internal/engine/krcodes"
	"kompi/internal/engine/links"
)

type Format string

const (
	FormatPNG   Format = "png"
	FormatSVG   Format = "svg"
	FormatThumb Format = "thumb"
)

// ErrRenderFailed wraps encoder failures so callers can tell them apart from
// lookups that found nothing.
var ErrRenderFailed = errors.New("render failed")

type CodeResolver interface {
	Resolve(ctx context.Context, id string) (*krcodes.KRCode, *links.Link, error)
}

// Artifact is one rendered export. Logo tells whether the configured logo made
// it into Body; LogoErr carries the reason when it did not.
type Artifact struct {
	Body        []byte
	ContentType string
	ScanURL     string
	Width       int
	Logo        LogoOutcome
	LogoErr     error
}

type Renderer struct {
	resolver CodeResolver
	logos    *LogoLoader
}

func NewRenderer(resolver CodeResolver, logos *LogoLoader) *Renderer {
	return &Renderer{resolver: resolver, logos: logos}
}

// Render resolves id and produces the requested format for a scan URL rooted
// at origin. Missing artifacts return krcodes.ErrNotFound; encoding problems
// return ErrRenderFailed.
func (r *Renderer) Render(ctx context.Context, format Format, id, origin string) (*Artifact, error) {
	start := time.Now()

	art, err := r.render(ctx, format, id, origin)

	outcome := "success"
	switch {
	case errors.Is(err, krcodes.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	ArtifactsRendered.WithLabelValues(string(format), outcome).Inc()
	RenderDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())

	return art, err
}

func (r *Renderer) PNG(ctx context.Context, id, origin string) (*Artifact, error) {
	return r.Render(ctx, FormatPNG, id, origin)
}

func (r *Renderer) SVG(ctx context.Context, id, origin string) (*Artifact, error) {
	return r.Render(ctx, FormatSVG, id, origin)
}

func (r *Renderer) Thumbnail(ctx context.Context, id, origin string) (*Artifact, error) {
	return r.Render(ctx, FormatThumb, id, origin)
}

func (r *Renderer) render(ctx context.Context, format Format, id, origin string) (*Artifact, error) {
	code, link, err := r.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	style := krcodes.NormalizeStyle(code.Style)
	if len(style.Defaulted) > 0 {
		log.Warn().
			Str("kr_code_id", id).
			Strs("fields", style.Defaulted).
			Msg("Unusable style fields replaced with defaults")
	}

	scanURL := krcodes.ScanURL(origin, link.Code)
	opts := Options{
		Width:   ExportWidth(style.Size),
		Margin:  style.Margin,
		FG:      style.FG,
		BG:      style.BG,
		ECLevel: style.ECLevel,
	}
	withLogo := style.HasLogo() && format != FormatThumb
	if withLogo {
		// Leave room for the logo to cover modules.
		opts.ECLevel = "H"
	}

	var art *Artifact
	switch format {
	case FormatPNG:
		art, err = r.renderPNG(scanURL, opts, style, withLogo)
	case FormatSVG:
		art, err = r.renderSVG(scanURL, opts, style, withLogo)
	case FormatThumb:
		art, err = r.renderThumbnail(scanURL, opts)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrRenderFailed, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: kr code %s: %v", ErrRenderFailed, id, err)
	}
	art.ScanURL = scanURL

	if art.Logo != LogoNone {
		LogoOutcomes.WithLabelValues(string(format), art.Logo.String()).Inc()
	}
	if art.Logo == LogoFailed {
		log.Warn().
			Err(art.LogoErr).
			Str("kr_code_id", id).
			Str("format", string(format)).
			Msg("Logo skipped, serving base code")
	}

	return art, nil
}

func (r *Renderer) renderPNG(content string, opts Options, style krcodes.EffectiveStyle, withLogo bool) (*Artifact, error) {
	img, err := EncodeImage(content, opts)
	if err != nil {
		return nil, err
	}

	art := &Artifact{ContentType: "image/png", Width: img.Bounds().Dx()}
	if !withLogo {
		art.Body, err = encodePNG(img)
		return art, err
	}

	composited, logoErr := r.compositePNG(img, style)
	if logoErr != nil {
		art.Logo, art.LogoErr = LogoFailed, logoErr
		art.Body, err = encodePNG(img)
		return art, err
	}

	art.Logo = LogoApplied
	art.Body, err = encodePNG(composited)
	return art, err
}

func (r *Renderer) compositePNG(base image.Image, style krcodes.EffectiveStyle) (image.Image, error) {
	logo, err := r.logos.Load(*style.LogoURL)
	if err != nil {
		return nil, err
	}

	var plate color.Color
	if !style.LogoBgTransparent {
		bg, err := parseBackground(style.BG)
		if err != nil {
			return nil, err
		}
		plate = bg
	}

	return CompositeLogo(base, logo, plate)
}

func (r *Renderer) renderSVG(content string, opts Options, style krcodes.EffectiveStyle, withLogo bool) (*Artifact, error) {
	svg, err := EncodeSVG(content, opts)
	if err != nil {
		return nil, err
	}

	art := &Artifact{ContentType: "image/svg+xml", Width: opts.Width}
	if withLogo {
		if injected, logoErr := r.injectSVG(svg, style); logoErr != nil {
			art.Logo, art.LogoErr = LogoFailed, logoErr
		} else {
			art.Logo = LogoApplied
			svg = injected
		}
	}

	art.Body = []byte(svg)
	return art, nil
}

func (r *Renderer) injectSVG(svg string, style krcodes.EffectiveStyle) (string, error) {
	logo, err := r.logos.Load(*style.LogoURL)
	if err != nil {
		return "", err
	}

	plate := ""
	if !style.LogoBgTransparent {
		bg, err := parseBackground(style.BG)
		if err != nil {
			return "", err
		}
		plate, _ = svgColor(bg)
	}

	return InjectSVGLogo(svg, logo, plate)
}

func (r *Renderer) renderThumbnail(content string, opts Options) (*Artifact, error) {
	body, err := EncodeThumbnail(content, opts)
	if err != nil {
		return nil, err
	}
	return &Artifact{Body: body, ContentType: "image/png", Width: ThumbnailSize}, nil
}
