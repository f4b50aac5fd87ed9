package links

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateLink stores a new active link. customCode may be empty, in which case
// a random code is generated.
func (s *Service) CreateLink(ctx context.Context, targetURL, customCode, title string) (*Link, error) {
	if err := ValidateTargetURL(targetURL); err != nil {
		return nil, err
	}

	code, err := GenerateShortCode(ctx, customCode, s.repo)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	link := &Link{
		ID:        uuid.New().String(),
		Code:      code,
		TargetURL: NormalizeTargetURL(targetURL),
		Title:     title,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}
