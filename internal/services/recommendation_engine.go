package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/internal/config"
	"github.com/aniruddh-code-002/moodmart/internal/metrics"
	"github.com/aniruddh-code-002/moodmart/internal/storage"
	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// Explainer generates user-facing explanations for recommended products.
type Explainer interface {
	GenerateExplanation(ctx context.Context, profile *models.UserProfile, product *models.Product, reason string) (string, error)
}

// RecommendationEngine fuses emotion, semantic and popularity signals into a
// ranked product list. Generation never fails from the caller's point of
// view: any pipeline error degrades to a popularity-only fallback.
type RecommendationEngine struct {
	store     storage.Store
	profiles  *ProfileBuilder
	matcher   *EmotionMatcher
	index     *SemanticIndex
	explainer Explainer
	cache     *redis.Client
	metrics   *metrics.EngineMetrics
	cfg       config.RecommendationConfig
	logger    *logrus.Logger
}

func NewRecommendationEngine(
	store storage.Store,
	profiles *ProfileBuilder,
	matcher *EmotionMatcher,
	index *SemanticIndex,
	explainer Explainer,
	cache *redis.Client,
	engineMetrics *metrics.EngineMetrics,
	cfg config.RecommendationConfig,
	logger *logrus.Logger,
) *RecommendationEngine {
	return &RecommendationEngine{
		store:     store,
		profiles:  profiles,
		matcher:   matcher,
		index:     index,
		explainer: explainer,
		cache:     cache,
		metrics:   engineMetrics,
		cfg:       cfg,
		logger:    logger,
	}
}

// GenerateRecommendations produces up to limit ranked recommendations for a
// user. It always returns a usable, possibly empty, slice and never an
// error; failures inside the pipeline are logged and answered with the
// popularity fallback.
func (e *RecommendationEngine) GenerateRecommendations(ctx context.Context, userID string, reqContext map[string]string, limit int) []models.Recommendation {
	start := time.Now()
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	if cached, ok := e.cachedRecommendations(ctx, userID, reqContext, limit); ok {
		e.observeRequest("ok", start)
		return cached
	}

	recommendations, err := e.generate(ctx, userID, reqContext, limit)
	if err != nil {
		e.logger.WithError(err).WithField("user_id", userID).Error("Recommendation pipeline failed, serving fallback")
		e.observeRequest("fallback", start)
		return e.fallbackRecommendations(ctx, limit)
	}

	// Persistence and caching are best-effort; the response is already final.
	if err := e.store.RecordRecommendations(ctx, userID, recommendations, reqContext); err != nil {
		e.logger.WithError(err).WithField("user_id", userID).Warn("Failed to persist recommendations")
	}
	e.cacheRecommendations(ctx, userID, reqContext, limit, recommendations)

	e.observeRequest("ok", start)
	return recommendations
}

func (e *RecommendationEngine) generate(ctx context.Context, userID string, reqContext map[string]string, limit int) ([]models.Recommendation, error) {
	profile, err := e.profiles.Build(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build user profile: %w", err)
	}

	products, err := e.store.AllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if e.index.Size() == 0 {
		if err := e.index.BuildIndex(ctx, products); err != nil {
			return nil, fmt.Errorf("failed to build semantic index: %w", err)
		}
	}
	if e.metrics != nil {
		e.metrics.IndexedProducts.Set(float64(e.index.Size()))
	}

	candidateLimit := limit * 2

	var (
		wg          sync.WaitGroup
		emotion     []Candidate
		semantic    []Candidate
		popularity  []Candidate
		semanticErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		emotion = e.emotionCandidates(profile, products, candidateLimit)
	}()
	go func() {
		defer wg.Done()
		semantic, semanticErr = e.semanticCandidates(ctx, profile, reqContext, products, candidateLimit)
	}()
	go func() {
		defer wg.Done()
		popularity = e.popularityCandidates(products, limit)
	}()
	wg.Wait()

	if semanticErr != nil {
		return nil, fmt.Errorf("semantic candidate generation failed: %w", semanticErr)
	}

	ranked := e.hybridRank(emotion, semantic, popularity, profile, limit)

	now := time.Now().UTC()
	recommendations := make([]models.Recommendation, 0, len(ranked))
	for _, item := range ranked {
		recommendations = append(recommendations, models.Recommendation{
			Product:         item.Product,
			ConfidenceScore: item.Score,
			Reason:          item.Reason,
			Explanation:     e.explain(ctx, profile, &item.Product, item.Reason),
			GeneratedAt:     now,
		})
	}

	return recommendations, nil
}

// explain asks the explainer for a personalized blurb and falls back to a
// generic template when it is unavailable or errors out.
func (e *RecommendationEngine) explain(ctx context.Context, profile *models.UserProfile, product *models.Product, reason string) string {
	if e.explainer != nil {
		explanation, err := e.explainer.GenerateExplanation(ctx, profile, product, reason)
		if err == nil && explanation != "" {
			return explanation
		}
		if err != nil {
			e.logger.WithError(err).WithField("product_id", product.ID).Debug("Explanation generation failed, using template")
		}
	}

	return fmt.Sprintf("This %s matches your interests and could be perfect for your current needs.", product.Name)
}

// fallbackRecommendations serves the top-rated products with a flat 0.5
// confidence. A catalog read failure here yields an empty, non-nil slice.
func (e *RecommendationEngine) fallbackRecommendations(ctx context.Context, limit int) []models.Recommendation {
	recommendations := []models.Recommendation{}

	products, err := e.store.AllProducts(ctx)
	if err != nil {
		e.logger.WithError(err).Error("Fallback catalog read failed")
		return recommendations
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Rating > products[j].Rating
	})
	if len(products) > limit {
		products = products[:limit]
	}

	now := time.Now().UTC()
	for _, product := range products {
		recommendations = append(recommendations, models.Recommendation{
			Product:         product,
			ConfidenceScore: 0.5,
			Reason:          "Popular choice",
			Explanation:     fmt.Sprintf("This %s is highly rated by other customers.", product.Name),
			GeneratedAt:     now,
		})
	}

	return recommendations
}

// Search ranks the catalog by semantic similarity to a free-text query. The
// optional emotion context only colors explanations, not the ranking.
func (e *RecommendationEngine) Search(ctx context.Context, query, emotionContext string, limit int) ([]models.SearchResult, error) {
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	products, err := e.store.AllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if e.index.Size() == 0 {
		if err := e.index.BuildIndex(ctx, products); err != nil {
			return nil, fmt.Errorf("failed to build semantic index: %w", err)
		}
	}

	scored, err := e.index.Search(ctx, query, products, limit)
	if err != nil {
		return nil, fmt.Errorf("semantic search failed: %w", err)
	}

	profile := &models.UserProfile{UserID: "search"}
	if emotionContext != "" {
		profile.RecentEmotions = []string{emotionContext}
	}

	results := make([]models.SearchResult, 0, len(scored))
	for _, item := range scored {
		product := item.Product
		results = append(results, models.SearchResult{
			Product:         product,
			SimilarityScore: item.Similarity,
			Explanation:     e.explain(ctx, profile, &product, fmt.Sprintf("Semantic similarity: %.2f", item.Similarity)),
		})
	}

	return results, nil
}

// SimilarProducts finds the products closest to a target. A nil target
// product in the result means the product does not exist.
func (e *RecommendationEngine) SimilarProducts(ctx context.Context, productID string, limit int) (*models.Product, []models.SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	target, err := e.store.Product(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load product: %w", err)
	}
	if target == nil {
		return nil, nil, nil
	}

	products, err := e.store.AllProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if e.index.Size() == 0 {
		if err := e.index.BuildIndex(ctx, products); err != nil {
			return nil, nil, fmt.Errorf("failed to build semantic index: %w", err)
		}
	}

	scored, err := e.index.FindSimilar(ctx, target, products, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("similarity search failed: %w", err)
	}

	results := make([]models.SearchResult, 0, len(scored))
	for _, item := range scored {
		results = append(results, models.SearchResult{
			Product:         item.Product,
			SimilarityScore: item.Similarity,
		})
	}

	return target, results, nil
}

func (e *RecommendationEngine) cachedRecommendations(ctx context.Context, userID string, reqContext map[string]string, limit int) ([]models.Recommendation, bool) {
	if e.cache == nil || e.cfg.CacheTTL <= 0 {
		return nil, false
	}

	key := recommendationCacheKey(userID, reqContext, limit)
	data, err := e.cache.Get(ctx, key).Result()
	if err != nil {
		e.countCache("miss")
		return nil, false
	}

	var recommendations []models.Recommendation
	if err := json.Unmarshal([]byte(data), &recommendations); err != nil {
		e.logger.WithError(err).WithField("key", key).Warn("Malformed cached recommendations")
		e.countCache("miss")
		return nil, false
	}

	e.countCache("hit")
	return recommendations, true
}

func (e *RecommendationEngine) cacheRecommendations(ctx context.Context, userID string, reqContext map[string]string, limit int, recommendations []models.Recommendation) {
	if e.cache == nil || e.cfg.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(recommendations)
	if err != nil {
		e.logger.WithError(err).Warn("Failed to serialize recommendations for caching")
		return
	}

	key := recommendationCacheKey(userID, reqContext, limit)
	if err := e.cache.Set(ctx, key, data, e.cfg.CacheTTL).Err(); err != nil {
		e.logger.WithError(err).WithField("key", key).Warn("Failed to cache recommendations")
	}
}

// recommendationCacheKey hashes the request context so distinct situations
// never share a cache entry.
func recommendationCacheKey(userID string, reqContext map[string]string, limit int) string {
	keys := make([]string, 0, len(reqContext))
	for k := range reqContext {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(reqContext[k])
		sb.WriteByte(';')
	}
	contextHash := fmt.Sprintf("%x", sha256.Sum256([]byte(sb.String())))[:12]

	return fmt.Sprintf("rec:%s:%d:%s", userID, limit, contextHash)
}

func (e *RecommendationEngine) observeRequest(outcome string, start time.Time) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecommendationRequests.WithLabelValues(outcome).Inc()
	e.metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
}

func (e *RecommendationEngine) countCache(result string) {
	if e.metrics == nil {
		return
	}
	e.metrics.CacheEvents.WithLabelValues(result).Inc()
}
