package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"kompi/internal/engine/krcodes"
	"kompi/internal/engine/render"
	"kompi/internal/platform/config"
	apperrors "kompi/internal/pkg/errors"
)

const thumbnailCacheControl = "public, max-age=86400, s-maxage=86400, stale-while-revalidate=604800"

type ArtifactRenderer interface {
	Render(ctx context.Context, format render.Format, id, origin string) (*render.Artifact, error)
}

type StyleLoader interface {
	Artifact(ctx context.Context, id string) (*krcodes.KRCode, error)
}

// KRCodeHandler serves the public export endpoints of KR Codes. Every failure
// on the artifact routes is answered with a bare 404.
type KRCodeHandler struct {
	renderer ArtifactRenderer
	styles   StyleLoader
	app      *config.AppConfig
}

func NewKRCodeHandler(renderer ArtifactRenderer, styles StyleLoader, app *config.AppConfig) *KRCodeHandler {
	return &KRCodeHandler{renderer: renderer, styles: styles, app: app}
}

// PNG serves the full-size export, or the thumbnail when ?thumb=1 is set.
func (h *KRCodeHandler) PNG(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("thumb") == "1" {
		h.Thumbnail(w, r)
		return
	}
	h.serve(w, r, render.FormatPNG)
}

func (h *KRCodeHandler) SVG(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, render.FormatSVG)
}

func (h *KRCodeHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, render.FormatThumb)
}

func (h *KRCodeHandler) serve(w http.ResponseWriter, r *http.Request, format render.Format) {
	id := routeParam(r, "id")
	origin := krcodes.Origin(r, h.publicURL())

	art, err := h.renderer.Render(r.Context(), format, id, origin)
	if err != nil {
		level := zerolog.ErrorLevel
		if errors.Is(err, krcodes.ErrNotFound) {
			level = zerolog.DebugLevel
		}
		hlog.FromRequest(r).WithLevel(level).Err(err).Str("kr_code_id", id).Str("format", string(format)).Msg("KR Code artifact unavailable")
		apperrors.WriteNotFound(w)
		return
	}

	header := w.Header()
	header.Set("Content-Type", art.ContentType)
	header.Set("Content-Length", strconv.Itoa(len(art.Body)))
	header.Set("X-Content-Type-Options", "nosniff")

	switch format {
	case render.FormatThumb:
		header.Set("Cache-Control", thumbnailCacheControl)
	default:
		header.Set("Content-Disposition", `attachment; filename="krcode-`+fileSafe(id)+"."+string(format)+`"`)
	}

	w.WriteHeader(http.StatusOK)
	w.Write(art.Body)
}

type styleResponse struct {
	ID    string                 `json:"id"`
	Style krcodes.EffectiveStyle `json:"style"`
}

// Style returns the effective style a render of this KR Code would use.
func (h *KRCodeHandler) Style(w http.ResponseWriter, r *http.Request) {
	id := routeParam(r, "id")

	code, err := h.styles.Artifact(r.Context(), id)
	if errors.Is(err, krcodes.ErrNotFound) {
		apperrors.WriteError(w, http.StatusNotFound, apperrors.ErrCodeNotFound, "KR Code not found", nil)
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("kr_code_id", id).Msg("Failed to load KR Code")
		apperrors.WriteError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to load KR Code", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(styleResponse{
		ID:    code.ID,
		Style: krcodes.NormalizeStyle(code.Style),
	})
}

func (h *KRCodeHandler) publicURL() string {
	if h.app == nil {
		return ""
	}
	return h.app.PublicURL
}

// fileSafe keeps ids usable inside a quoted Content-Disposition filename.
func fileSafe(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
