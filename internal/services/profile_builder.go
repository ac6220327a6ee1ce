package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/aniruddh-code-002/moodmart/internal/storage"
	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// ProfileBuilder assembles a transient user profile from the interaction log
// on every request. Profiles are never cached; the freshest interactions win.
type ProfileBuilder struct {
	store        storage.Store
	logger       *logrus.Logger
	historyLimit int
}

func NewProfileBuilder(store storage.Store, historyLimit int, logger *logrus.Logger) *ProfileBuilder {
	if historyLimit <= 0 {
		historyLimit = 20
	}

	return &ProfileBuilder{
		store:        store,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// Build summarizes the user's recent behavior. An unknown user is not an
// error; they get an empty profile that downstream scoring treats as neutral.
// Interactions referencing deleted products contribute nothing to category
// or price statistics.
func (b *ProfileBuilder) Build(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile := &models.UserProfile{
		UserID:              userID,
		CategoryPreferences: make(map[string]int),
		PreferredPriceRange: [2]float64{0, 1000},
	}

	record, err := b.store.UserRecord(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user record: %w", err)
	}
	if record != nil {
		profile.Preferences = record.Preferences
		profile.Demographics = record.Demographics
	}

	interactions, err := b.store.RecentInteractions(ctx, userID, b.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}
	profile.InteractionCount = len(interactions)

	var priceSamples []float64
	for _, interaction := range interactions {
		if interaction.Emotion != "" {
			profile.RecentEmotions = append(profile.RecentEmotions, interaction.Emotion)
		}

		product, err := b.store.Product(ctx, interaction.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product %s: %w", interaction.ProductID, err)
		}
		if product == nil {
			b.logger.WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": interaction.ProductID,
			}).Debug("Skipping interaction with unknown product")
			continue
		}

		if product.Category != "" {
			profile.CategoryPreferences[product.Category]++
		}
		if product.Price > 0 {
			priceSamples = append(priceSamples, product.Price)
		}
	}

	if len(priceSamples) > 0 {
		avg := stat.Mean(priceSamples, nil)
		profile.PreferredPriceRange = [2]float64{avg * 0.7, avg * 1.3}
	}

	return profile, nil
}
