package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// Embedder produces embedding vectors for arbitrary text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ScoredProduct pairs a product with its similarity to a query or target.
type ScoredProduct struct {
	Product    models.Product
	Similarity float64
}

// QueryContext carries the situational signals used to build a contextual
// search query for a user.
type QueryContext struct {
	Mood        string
	Situation   string
	CurrentNeed string
	Categories  []string
}

// SemanticIndex holds per-product embedding vectors and answers similarity
// queries over them. Safe for concurrent use.
type SemanticIndex struct {
	mu         sync.RWMutex
	embeddings map[string][]float32

	embedder Embedder
	logger   *logrus.Logger
}

func NewSemanticIndex(embedder Embedder, logger *logrus.Logger) *SemanticIndex {
	return &SemanticIndex{
		embeddings: make(map[string][]float32),
		embedder:   embedder,
		logger:     logger,
	}
}

// Size reports the number of indexed products.
func (idx *SemanticIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.embeddings)
}

// BuildIndex embeds every product not already present in the index. Calling
// it again with the same catalog is a no-op, so callers may invoke it on
// every request without recomputing vectors.
func (idx *SemanticIndex) BuildIndex(ctx context.Context, products []models.Product) error {
	for i := range products {
		product := &products[i]
		if product.ID == "" {
			continue
		}

		idx.mu.RLock()
		_, exists := idx.embeddings[product.ID]
		idx.mu.RUnlock()
		if exists {
			continue
		}

		if err := idx.indexProduct(ctx, product); err != nil {
			return err
		}
	}

	return nil
}

// RebuildIndex drops all stored vectors and re-embeds the given catalog.
// Use after product text changes; BuildIndex alone never refreshes a vector.
func (idx *SemanticIndex) RebuildIndex(ctx context.Context, products []models.Product) error {
	idx.mu.Lock()
	idx.embeddings = make(map[string][]float32)
	idx.mu.Unlock()

	return idx.BuildIndex(ctx, products)
}

func (idx *SemanticIndex) indexProduct(ctx context.Context, product *models.Product) error {
	embedding, err := idx.embedder.Embed(ctx, productText(product))
	if err != nil {
		return fmt.Errorf("failed to embed product %s: %w", product.ID, err)
	}

	idx.mu.Lock()
	idx.embeddings[product.ID] = embedding
	idx.mu.Unlock()

	return nil
}

// Search ranks the given products by cosine similarity to the query. Products
// missing from the index are skipped; equal scores keep catalog order.
func (idx *SemanticIndex) Search(ctx context.Context, query string, products []models.Product, topK int) ([]ScoredProduct, error) {
	queryEmbedding, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return idx.rankBySimilarity(queryEmbedding, products, "", topK), nil
}

// FindSimilar ranks products by similarity to the target product. The target
// itself is never part of the result. The target is embedded on demand if it
// is not in the index yet.
func (idx *SemanticIndex) FindSimilar(ctx context.Context, target *models.Product, products []models.Product, topK int) ([]ScoredProduct, error) {
	idx.mu.RLock()
	targetEmbedding, exists := idx.embeddings[target.ID]
	idx.mu.RUnlock()

	if !exists {
		if err := idx.indexProduct(ctx, target); err != nil {
			return nil, err
		}
		idx.mu.RLock()
		targetEmbedding = idx.embeddings[target.ID]
		idx.mu.RUnlock()
	}

	return idx.rankBySimilarity(targetEmbedding, products, target.ID, topK), nil
}

// ContextualSearch turns the user's mood and situation into a text query and
// runs a semantic search with it.
func (idx *SemanticIndex) ContextualSearch(ctx context.Context, qc QueryContext, products []models.Product, topK int) ([]ScoredProduct, error) {
	var parts []string

	if qc.Mood != "" {
		parts = append(parts, "feeling "+qc.Mood)
	}
	if qc.Situation != "" {
		parts = append(parts, "for "+qc.Situation)
	}
	parts = append(parts, qc.Categories...)
	if qc.CurrentNeed != "" {
		parts = append(parts, qc.CurrentNeed)
	}

	query := strings.Join(parts, " ")
	if query == "" {
		return nil, nil
	}

	return idx.Search(ctx, query, products, topK)
}

func (idx *SemanticIndex) rankBySimilarity(reference []float32, products []models.Product, excludeID string, topK int) []ScoredProduct {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var scored []ScoredProduct
	for i := range products {
		product := products[i]
		if product.ID == "" || product.ID == excludeID {
			continue
		}

		embedding, ok := idx.embeddings[product.ID]
		if !ok {
			continue
		}

		scored = append(scored, ScoredProduct{
			Product:    product,
			Similarity: cosineSimilarity(reference, embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}

	return scored
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for zero-length or mismatched vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	va := make([]float64, len(a))
	vb := make([]float64, len(b))
	for i := range a {
		va[i] = float64(a[i])
		vb[i] = float64(b[i])
	}

	normA := floats.Norm(va, 2)
	normB := floats.Norm(vb, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	return floats.Dot(va, vb) / (normA * normB)
}

func productText(product *models.Product) string {
	parts := []string{
		product.Name,
		product.Description,
		product.Category,
		strings.Join(product.Features, " "),
		strings.Join(product.EmotionTags, " "),
	}

	var nonEmpty []string
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}

	return strings.Join(nonEmpty, " ")
}
