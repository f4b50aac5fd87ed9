package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"kompi/internal/engine/links"
	"kompi/internal/engine/redirect"
	apperrors "kompi/internal/pkg/errors"
)

type LinkResolver interface {
	Lookup(ctx context.Context, code string) (*links.Link, error)
}

type ClickTracker interface {
	LogClick(linkID string, r *http.Request)
}

// RedirectHandler serves /r/:code, the URL every KR Code encodes.
type RedirectHandler struct {
	links  LinkResolver
	clicks ClickTracker
}

func NewRedirectHandler(resolver LinkResolver, clicks ClickTracker) *RedirectHandler {
	return &RedirectHandler{links: resolver, clicks: clicks}
}

func (h *RedirectHandler) Handle(w http.ResponseWriter, r *http.Request) {
	code := routeParam(r, "code")

	link, err := h.links.Lookup(r.Context(), code)
	if err != nil {
		if errors.Is(err, links.ErrNotFound) {
			redirect.Redirects.WithLabelValues("not_found").Inc()
		} else {
			redirect.Redirects.WithLabelValues("error").Inc()
			hlog.FromRequest(r).Error().Err(err).Str("code", code).Msg("Failed to look up short link")
		}
		apperrors.WriteNotFound(w)
		return
	}

	target, err := redirect.Target(link)
	if err != nil {
		redirect.Redirects.WithLabelValues("invalid_target").Inc()
		hlog.FromRequest(r).Warn().Str("link_id", link.ID).Msg("Short link has no usable target")
		apperrors.WriteText(w, http.StatusInternalServerError, "Invalid target")
		return
	}

	h.clicks.LogClick(link.ID, r)
	redirect.Redirects.WithLabelValues("redirected").Inc()

	// Every scan must reach the server to be counted.
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, target, http.StatusFound)
}
