package storage

import (
	"context"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// Store is the persistence collaborator consumed by the recommendation engine.
// Lookups for missing records return (nil, nil) rather than an error; the
// engine treats absence as an empty default, never as a failure.
type Store interface {
	AllProducts(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, productID string) (*models.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	RecentInteractions(ctx context.Context, userID string, limit int) ([]models.UserInteraction, error)
	UserRecord(ctx context.Context, userID string) (*models.UserRecord, error)
	RecordInteraction(ctx context.Context, interaction *models.UserInteraction) error
	RecordRecommendations(ctx context.Context, userID string, recommendations []models.Recommendation, reqContext map[string]string) error
}
