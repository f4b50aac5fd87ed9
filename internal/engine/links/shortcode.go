package links

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
)

const (
	shortCodeChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shortCodeLength = 6
)

var (
	ErrInvalidShortCode = errors.New("invalid short code format")
	ErrShortCodeTaken   = errors.New("short code already taken")
)

type CodeAvailabilityChecker interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

func GenerateShortCode(ctx context.Context, customCode string, checker CodeAvailabilityChecker) (string, error) {
	// Use custom code if provided
	if customCode != "" {
		if !isValidShortCode(customCode) {
			return "", ErrInvalidShortCode
		}

		exists, err := checker.ExistsByCode(ctx, customCode)
		if err != nil {
			return "", err
		}
		if exists {
			return "", ErrShortCodeTaken
		}

		return customCode, nil
	}

	// Generate random code with collision retry
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		code := generateRandomCode(shortCodeLength)

		exists, err := checker.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	// If collisions persist, try once more one character longer
	code := generateRandomCode(shortCodeLength + 1)
	exists, err := checker.ExistsByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errors.New("failed to generate unique short code")
	}

	return code, nil
}

func generateRandomCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = shortCodeChars[rand.IntN(len(shortCodeChars))]
	}
	return string(b)
}

func isValidShortCode(code string) bool {
	if len(code) < 3 || len(code) > 32 {
		return false
	}

	for _, c := range code {
		if !strings.ContainsRune(shortCodeChars, c) && c != '-' && c != '_' {
			return false
		}
	}

	return true
}
