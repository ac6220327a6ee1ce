package services

import (
	"context"
	"crypto/sha256"

	"github.com/stretchr/testify/mock"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) AllProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockStore) Product(ctx context.Context, productID string) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockStore) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockStore) RecentInteractions(ctx context.Context, userID string, limit int) ([]models.UserInteraction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserInteraction), args.Error(1)
}

func (m *MockStore) UserRecord(ctx context.Context, userID string) (*models.UserRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRecord), args.Error(1)
}

func (m *MockStore) RecordInteraction(ctx context.Context, interaction *models.UserInteraction) error {
	args := m.Called(ctx, interaction)
	return args.Error(0)
}

func (m *MockStore) RecordRecommendations(ctx context.Context, userID string, recommendations []models.Recommendation, reqContext map[string]string) error {
	args := m.Called(ctx, userID, recommendations, reqContext)
	return args.Error(0)
}

type MockExplainer struct {
	mock.Mock
}

func (m *MockExplainer) GenerateExplanation(ctx context.Context, profile *models.UserProfile, product *models.Product, reason string) (string, error) {
	args := m.Called(ctx, profile, product, reason)
	return args.String(0), args.Error(1)
}

// hashEmbedder is a deterministic in-process embedder; identical text maps
// to identical vectors. embedCalls counts the embeddings actually computed.
type hashEmbedder struct {
	embedCalls int
}

func (h *hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h.embedCalls++

	hash := sha256.Sum256([]byte(text))
	embedding := make([]float32, 16)
	for i := range embedding {
		embedding[i] = float32(hash[i])/255.0 - 0.5
	}
	return embedding, nil
}
