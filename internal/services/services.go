package services

import (
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/internal/config"
	"github.com/aniruddh-code-002/moodmart/internal/database"
	"github.com/aniruddh-code-002/moodmart/internal/gemini"
	"github.com/aniruddh-code-002/moodmart/internal/metrics"
	"github.com/aniruddh-code-002/moodmart/internal/ml"
	"github.com/aniruddh-code-002/moodmart/internal/storage"
)

// Services wires the recommendation stack together: storage, embeddings,
// the semantic index, the Gemini client and the fusion engine.
type Services struct {
	Store      storage.Store
	Profiles   *ProfileBuilder
	Matcher    *EmotionMatcher
	Index      *SemanticIndex
	Embeddings *ml.TextEmbeddingService
	Gemini     *gemini.Client
	Sentiment  *SentimentService
	Engine     *RecommendationEngine
	Health     *HealthService
	Metrics    *metrics.EngineMetrics
}

func New(cfg *config.Config, db *database.Database, logger *logrus.Logger) *Services {
	store := storage.NewPostgresStore(db.PG, logger)
	geminiClient := gemini.NewClient(&cfg.Gemini, logger)
	embeddings := ml.NewTextEmbeddingService(geminiClient, db.Redis.Cold, cfg.Embedding, logger)

	matcher := NewEmotionMatcher()
	index := NewSemanticIndex(embeddings, logger)
	profiles := NewProfileBuilder(store, cfg.Recommendation.HistoryLimit, logger)
	engineMetrics := metrics.NewEngineMetrics(logger)

	engine := NewRecommendationEngine(
		store, profiles, matcher, index, geminiClient,
		db.Redis.Warm, engineMetrics, cfg.Recommendation, logger,
	)

	return &Services{
		Store:      store,
		Profiles:   profiles,
		Matcher:    matcher,
		Index:      index,
		Embeddings: embeddings,
		Gemini:     geminiClient,
		Sentiment:  NewSentimentService(geminiClient, matcher, logger),
		Engine:     engine,
		Health:     NewHealthService(db, index, logger),
		Metrics:    engineMetrics,
	}
}

// Stop shuts down background workers. Safe to call once during server
// shutdown.
func (s *Services) Stop() {
	if s.Embeddings != nil {
		s.Embeddings.Stop()
	}
}
