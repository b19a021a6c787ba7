package services

import (
	"context"
	"signin/internal/models"
)

const keyNotConfigured = "not configured"

type ProfileStoreInterface interface {
	Load(ctx context.Context) (models.Profile, error)
	Save(ctx context.Context, p models.Profile) (models.Profile, error)
}

// KeyPreview hides the middle of the scheduler key for display.
func KeyPreview(key string) string {
	if key == "" {
		return keyNotConfigured
	}
	runes := []rune(key)
	if len(runes) <= 8 {
		return key
	}
	return string(runes[:4]) + "****" + string(runes[len(runes)-4:])
}
