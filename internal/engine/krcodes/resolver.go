package krcodes

import (
	"context"
	"errors"
	"fmt"

	"kompi/internal/engine/links"
)

type ArtifactStore interface {
	GetByID(ctx context.Context, id string) (*KRCode, error)
}

type LinkStore interface {
	GetByID(ctx context.Context, id string) (*links.Link, error)
}

// Resolver pairs a KR Code with its short link. It reads the stores on every
// call so style edits show up on the next render.
type Resolver struct {
	codes ArtifactStore
	links LinkStore
}

func NewResolver(codes ArtifactStore, linkStore LinkStore) *Resolver {
	return &Resolver{codes: codes, links: linkStore}
}

func (r *Resolver) Resolve(ctx context.Context, id string) (*KRCode, *links.Link, error) {
	code, err := r.Artifact(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if code.ShortCodeID == "" {
		return nil, nil, fmt.Errorf("kr code %s has no short link: %w", id, ErrNotFound)
	}

	link, err := r.links.GetByID(ctx, code.ShortCodeID)
	if errors.Is(err, links.ErrNotFound) {
		return nil, nil, fmt.Errorf("short link %s of kr code %s: %w", code.ShortCodeID, id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load short link %s: %w", code.ShortCodeID, err)
	}
	if link.Code == "" {
		return nil, nil, fmt.Errorf("short link %s has no code: %w", link.ID, ErrNotFound)
	}

	return code, link, nil
}

// Artifact loads the KR Code alone.
func (r *Resolver) Artifact(ctx context.Context, id string) (*KRCode, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	code, err := r.codes.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("kr code %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load kr code %s: %w", id, err)
	}
	return code, nil
}
