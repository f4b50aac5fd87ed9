package redirect

import (
	"context"
	"errors"

	"kompi/internal/engine/links"
)

var ErrInvalidTarget = errors.New("invalid target")

type LinkLookup interface {
	GetActiveByCode(ctx context.Context, code string) (*links.Link, error)
}

// Resolver finds the active link for a short code, consulting the cache
// before the store.
type Resolver struct {
	links LinkLookup
	cache *LinkCache
}

func NewResolver(lookup LinkLookup, cache *LinkCache) *Resolver {
	return &Resolver{links: lookup, cache: cache}
}

func (r *Resolver) Lookup(ctx context.Context, code string) (*links.Link, error) {
	if code == "" {
		return nil, links.ErrNotFound
	}

	if r.cache != nil {
		if link, ok := r.cache.Get(code); ok {
			LinkCacheHits.WithLabelValues("hit").Inc()
			return link, nil
		}
		LinkCacheHits.WithLabelValues("miss").Inc()
	}

	link, err := r.links.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.Set(link)
	}
	return link, nil
}

// Target is the URL a visitor is sent to.
func Target(link *links.Link) (string, error) {
	target := links.NormalizeTargetURL(link.TargetURL)
	if target == "" {
		return "", ErrInvalidTarget
	}
	return target, nil
}
