package ml

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/aniruddh-code-002/moodmart/internal/config"
)

// RemoteEmbedder is the external embedding backend. The Gemini client
// satisfies it; tests substitute a deterministic stub.
type RemoteEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// TextEmbeddingService generates embedding vectors for product and query
// text. Remote inference goes through a worker pool backed by a Redis cache;
// when the remote backend is unavailable the service degrades to a
// deterministic hash-based embedding so ranking stays stable across calls.
type TextEmbeddingService struct {
	remote      RemoteEmbedder
	redisClient *redis.Client
	logger      *logrus.Logger

	dimensions  int
	cachePrefix string
	cacheTTL    time.Duration

	workerPool  chan chan embeddingJob
	jobQueue    chan embeddingJob
	workers     []*embeddingWorker
	workerCount int
}

type embeddingJob struct {
	ctx      context.Context
	text     string
	response chan embeddingResult
}

type embeddingResult struct {
	embedding []float32
	err       error
	cached    bool
}

type embeddingWorker struct {
	id         int
	service    *TextEmbeddingService
	jobChannel chan embeddingJob
	quit       chan bool
}

// NewTextEmbeddingService creates the service and starts its worker pool.
// remote and redisClient may both be nil; the service then runs purely on
// local deterministic embeddings.
func NewTextEmbeddingService(remote RemoteEmbedder, redisClient *redis.Client, cfg config.EmbeddingConfig, logger *logrus.Logger) *TextEmbeddingService {
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 384
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 4
	}
	if cfg.CachePrefix == "" {
		cfg.CachePrefix = "embed:text"
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	service := &TextEmbeddingService{
		remote:      remote,
		redisClient: redisClient,
		logger:      logger,
		dimensions:  cfg.Dimensions,
		cachePrefix: cfg.CachePrefix,
		cacheTTL:    cfg.CacheTTL,
		workerCount: cfg.WorkerCount,
		workerPool:  make(chan chan embeddingJob, cfg.WorkerCount),
		jobQueue:    make(chan embeddingJob, cfg.WorkerCount*8),
	}

	service.startWorkers()

	return service
}

func (tes *TextEmbeddingService) startWorkers() {
	tes.workers = make([]*embeddingWorker, tes.workerCount)

	for i := 0; i < tes.workerCount; i++ {
		worker := &embeddingWorker{
			id:         i,
			service:    tes,
			jobChannel: make(chan embeddingJob),
			quit:       make(chan bool),
		}

		tes.workers[i] = worker
		go worker.start()
	}

	go tes.dispatch()
}

func (tes *TextEmbeddingService) dispatch() {
	for job := range tes.jobQueue {
		jobChannel := <-tes.workerPool
		jobChannel <- job
	}
}

func (w *embeddingWorker) start() {
	for {
		w.service.workerPool <- w.jobChannel

		select {
		case job := <-w.jobChannel:
			w.processJob(job)
		case <-w.quit:
			return
		}
	}
}

func (w *embeddingWorker) processJob(job embeddingJob) {
	if embedding, found := w.service.getCachedEmbedding(job.ctx, job.text); found {
		job.response <- embeddingResult{embedding: embedding, cached: true}
		return
	}

	embedding := w.service.generateEmbedding(job.ctx, job.text)
	w.service.cacheEmbedding(job.ctx, job.text, embedding)

	job.response <- embeddingResult{embedding: embedding}
}

// Embed returns the embedding vector for text. The call never fails: when
// the remote backend errors out the deterministic local embedding is used.
func (tes *TextEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	job := embeddingJob{
		ctx:      ctx,
		text:     text,
		response: make(chan embeddingResult, 1),
	}

	select {
	case tes.jobQueue <- job:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case result := <-job.response:
		return result.embedding, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// EmbedBatch embeds several texts concurrently through the worker pool,
// preserving input order in the result.
func (tes *TextEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty")
	}

	jobs := make([]embeddingJob, len(texts))
	for i, text := range texts {
		jobs[i] = embeddingJob{
			ctx:      ctx,
			text:     text,
			response: make(chan embeddingResult, 1),
		}
		select {
		case tes.jobQueue <- jobs[i]:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	results := make([][]float32, len(texts))
	for i, job := range jobs {
		select {
		case result := <-job.response:
			if result.err != nil {
				return nil, fmt.Errorf("failed to embed text %d: %w", i, result.err)
			}
			results[i] = result.embedding
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return results, nil
}

func (tes *TextEmbeddingService) generateEmbedding(ctx context.Context, text string) []float32 {
	if tes.remote != nil {
		embedding, err := tes.remote.EmbedText(ctx, text)
		if err != nil {
			tes.logger.WithError(err).Warn("Remote embedding failed, falling back to local embedding")
		} else if len(embedding) > 0 {
			tes.logger.WithFields(logrus.Fields{
				"dimensions": len(embedding),
				"method":     "remote",
			}).Debug("Generated remote embedding")
			return tes.l2Normalize(embedding)
		}
	}

	return tes.l2Normalize(tes.localEmbedding(text))
}

// localEmbedding derives a stable pseudo-embedding from the text content.
// Identical text always yields an identical vector, which keeps similarity
// scores and sort orders reproducible without the remote backend.
func (tes *TextEmbeddingService) localEmbedding(text string) []float32 {
	embedding := make([]float32, tes.dimensions)

	hash := sha256.Sum256([]byte(text))
	textLength := float32(len(text))

	for i := 0; i < tes.dimensions; i++ {
		hashComponent := (float32(hash[i%len(hash)])/255.0 - 0.5) * 0.6

		lengthComponent := (textLength/200.0 - 0.5) * 0.2

		posComponent := float32(0.1 * (float64(i)/float64(tes.dimensions) - 0.5))

		// Per-dimension noise keyed on text so distinct texts diverge even
		// when their base hashes collide on a byte.
		noiseHash := sha256.Sum256(fmt.Appendf(nil, "%s_%d", text, i))
		noise := (float32(noiseHash[0])/255.0 - 0.5) * 0.1

		embedding[i] = hashComponent + lengthComponent + posComponent + noise
	}

	return embedding
}

func (tes *TextEmbeddingService) l2Normalize(embedding []float32) []float32 {
	vec := make([]float64, len(embedding))
	for i, v := range embedding {
		vec[i] = float64(v)
	}

	norm := floats.Norm(vec, 2)
	if norm == 0 {
		return embedding
	}

	normalized := make([]float32, len(embedding))
	for i, v := range vec {
		normalized[i] = float32(v / norm)
	}

	return normalized
}

func (tes *TextEmbeddingService) getCachedEmbedding(ctx context.Context, text string) ([]float32, bool) {
	if tes.redisClient == nil {
		return nil, false
	}

	key := tes.cacheKey(text)

	result, err := tes.redisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}

	var embedding []float32
	if err := json.Unmarshal([]byte(result), &embedding); err != nil {
		tes.logger.WithFields(logrus.Fields{
			"error": err.Error(),
			"key":   key,
		}).Warn("Failed to deserialize cached embedding")
		return nil, false
	}

	return embedding, true
}

func (tes *TextEmbeddingService) cacheEmbedding(ctx context.Context, text string, embedding []float32) {
	if tes.redisClient == nil {
		return
	}

	key := tes.cacheKey(text)

	data, err := json.Marshal(embedding)
	if err != nil {
		tes.logger.WithFields(logrus.Fields{
			"error": err.Error(),
			"key":   key,
		}).Warn("Failed to serialize embedding for caching")
		return
	}

	if err := tes.redisClient.Set(ctx, key, data, tes.cacheTTL).Err(); err != nil {
		tes.logger.WithFields(logrus.Fields{
			"error": err.Error(),
			"key":   key,
		}).Warn("Failed to cache embedding")
	}
}

func (tes *TextEmbeddingService) cacheKey(text string) string {
	contentHash := fmt.Sprintf("%x", sha256.Sum256([]byte(text)))[:16]
	return fmt.Sprintf("%s:%d:%s", tes.cachePrefix, tes.dimensions, contentHash)
}

// Stop shuts down the worker pool. In-flight jobs finish; queued jobs that
// were never dispatched are abandoned.
func (tes *TextEmbeddingService) Stop() {
	for _, worker := range tes.workers {
		worker.quit <- true
	}

	tes.logger.Info("Text embedding service stopped")
}

// Stats reports pool configuration and queue depth for the health endpoint.
func (tes *TextEmbeddingService) Stats() map[string]any {
	return map[string]any{
		"worker_count": tes.workerCount,
		"dimensions":   tes.dimensions,
		"cache_prefix": tes.cachePrefix,
		"cache_ttl":    tes.cacheTTL.String(),
		"queue_length": len(tes.jobQueue),
	}
}
