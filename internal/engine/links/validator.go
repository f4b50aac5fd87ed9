package links

import (
	"errors"
	"net/url"
	"strings"
)

// NormalizeTargetURL trims raw and prefixes https:// when no http(s) scheme
// is present. An all-blank input normalizes to "".
func NormalizeTargetURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

func ValidateTargetURL(raw string) error {
	normalized := NormalizeTargetURL(raw)
	if normalized == "" {
		return errors.New("target_url is required")
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return errors.New("invalid target_url format")
	}
	if u.Host == "" {
		return errors.New("target_url must include a host")
	}

	return nil
}
