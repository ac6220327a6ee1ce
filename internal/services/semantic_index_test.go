package services

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func indexCatalog() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Lavender Candle", Description: "calming scent for relaxation", Category: "home"},
		{ID: "p2", Name: "Trail Running Shoes", Description: "lightweight shoes for outdoor running", Category: "sports"},
		{ID: "p3", Name: "Scented Candle Set", Description: "relaxing aromatherapy candles", Category: "home"},
	}
}

func TestBuildIndexIsIdempotent(t *testing.T) {
	embedder := &hashEmbedder{}
	index := NewSemanticIndex(embedder, testLogger())
	products := indexCatalog()

	require.NoError(t, index.BuildIndex(context.Background(), products))
	assert.Equal(t, 3, index.Size())
	firstPassCalls := embedder.embedCalls

	require.NoError(t, index.BuildIndex(context.Background(), products))
	assert.Equal(t, 3, index.Size())
	assert.Equal(t, firstPassCalls, embedder.embedCalls, "existing products should not be re-embedded")
}

func TestRebuildIndexRecomputesAll(t *testing.T) {
	embedder := &hashEmbedder{}
	index := NewSemanticIndex(embedder, testLogger())
	products := indexCatalog()

	require.NoError(t, index.BuildIndex(context.Background(), products))
	firstPassCalls := embedder.embedCalls

	require.NoError(t, index.RebuildIndex(context.Background(), products))
	assert.Equal(t, 3, index.Size())
	assert.Equal(t, firstPassCalls*2, embedder.embedCalls)
}

func TestBuildIndexSkipsProductsWithoutID(t *testing.T) {
	index := NewSemanticIndex(&hashEmbedder{}, testLogger())

	products := append(indexCatalog(), models.Product{Name: "No ID"})
	require.NoError(t, index.BuildIndex(context.Background(), products))
	assert.Equal(t, 3, index.Size())
}

func TestFindSimilarExcludesTarget(t *testing.T) {
	index := NewSemanticIndex(&hashEmbedder{}, testLogger())
	products := indexCatalog()
	require.NoError(t, index.BuildIndex(context.Background(), products))

	results, err := index.FindSimilar(context.Background(), &products[0], products, 10)
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, result := range results {
		assert.NotEqual(t, "p1", result.Product.ID)
	}
}

func TestFindSimilarIndexesUnknownTarget(t *testing.T) {
	index := NewSemanticIndex(&hashEmbedder{}, testLogger())
	products := indexCatalog()
	require.NoError(t, index.BuildIndex(context.Background(), products))

	newcomer := models.Product{ID: "p4", Name: "Meditation Cushion", Description: "comfortable cushion for calm sessions"}
	results, err := index.FindSimilar(context.Background(), &newcomer, products, 10)
	require.NoError(t, err)

	assert.Len(t, results, 3)
	assert.Equal(t, 4, index.Size())
}

func TestSearchSkipsUnindexedProducts(t *testing.T) {
	index := NewSemanticIndex(&hashEmbedder{}, testLogger())
	products := indexCatalog()
	require.NoError(t, index.BuildIndex(context.Background(), products[:2]))

	results, err := index.Search(context.Background(), "relaxing candle", products, 10)
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, result := range results {
		assert.NotEqual(t, "p3", result.Product.ID)
	}
}

func TestSearchRespectsTopK(t *testing.T) {
	index := NewSemanticIndex(&hashEmbedder{}, testLogger())
	products := indexCatalog()
	require.NoError(t, index.BuildIndex(context.Background(), products))

	results, err := index.Search(context.Background(), "candle", products, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchOrdersByDescendingSimilarity(t *testing.T) {
	index := NewSemanticIndex(&hashEmbedder{}, testLogger())
	products := indexCatalog()
	require.NoError(t, index.BuildIndex(context.Background(), products))

	results, err := index.Search(context.Background(), "aromatherapy", products, 10)
	require.NoError(t, err)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
}

func TestContextualSearchBuildsQueryFromContext(t *testing.T) {
	index := NewSemanticIndex(&hashEmbedder{}, testLogger())
	products := indexCatalog()
	require.NoError(t, index.BuildIndex(context.Background(), products))

	results, err := index.ContextualSearch(context.Background(), QueryContext{
		Mood:       "stressed",
		Situation:  "winding down after work",
		Categories: []string{"home"},
	}, products, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestContextualSearchEmptyContext(t *testing.T) {
	index := NewSemanticIndex(&hashEmbedder{}, testLogger())
	products := indexCatalog()
	require.NoError(t, index.BuildIndex(context.Background(), products))

	results, err := index.ContextualSearch(context.Background(), QueryContext{}, products, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
