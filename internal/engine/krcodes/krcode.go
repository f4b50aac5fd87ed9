// Package krcodes loads KR Codes (tracked QR artifacts) together with the short
// link they point at, and turns their stored style blob into a render-ready
// configuration.
package krcodes

import (
	"encoding/json"
	"errors"
)

// ErrNotFound covers every reason an artifact cannot be rendered: unknown id,
// no linked short link, or a short link without a code.
var ErrNotFound = errors.New("kr code not found")

type KRCode struct {
	ID          string          `json:"id"`
	Title       string          `json:"title,omitempty"`
	Type        string          `json:"type,omitempty"`
	Destination string          `json:"destination,omitempty"`
	ShortCodeID string          `json:"short_code_id,omitempty"`
	Style       json.RawMessage `json:"style,omitempty"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at"`
}
