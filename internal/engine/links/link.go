package links

import "errors"

var ErrNotFound = errors.New("link not found")

// Link is a redirect rule: /r/{Code} sends visitors to TargetURL.
type Link struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	TargetURL string `json:"target_url"`
	Title     string `json:"title,omitempty"`
	IsActive  bool   `json:"is_active"`
	Clicks    int64  `json:"clicks"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}
