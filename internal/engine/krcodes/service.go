package krcodes

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"kompi/internal/engine/links"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a KR Code bound to link. The stored destination is the
// link's redirect path, never its target.
func (s *Service) Create(ctx context.Context, title string, link *links.Link, style json.RawMessage) (*KRCode, error) {
	if link == nil || link.Code == "" {
		return nil, errors.New("a short link with a code is required")
	}
	if len(style) > 0 && !json.Valid(style) {
		return nil, errors.New("style must be valid JSON")
	}

	now := time.Now().Unix()
	code := &KRCode{
		ID:          uuid.New().String(),
		Title:       title,
		Type:        "url",
		Destination: "/r/" + link.Code,
		ShortCodeID: link.ID,
		Style:       style,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}
