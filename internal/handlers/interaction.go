package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/internal/metrics"
	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// InteractionRecorder persists user interactions.
type InteractionRecorder interface {
	RecordInteraction(ctx context.Context, interaction *models.UserInteraction) error
}

// EventPublisher emits interaction events for analytics. Failures are
// swallowed; the interaction is already durable in the store.
type EventPublisher interface {
	PublishInteraction(ctx context.Context, interaction *models.UserInteraction) error
}

type InteractionHandler struct {
	store     InteractionRecorder
	publisher EventPublisher
	metrics   *metrics.EngineMetrics
	validate  *validator.Validate
	logger    *logrus.Logger
}

func NewInteractionHandler(store InteractionRecorder, publisher EventPublisher, engineMetrics *metrics.EngineMetrics, logger *logrus.Logger) *InteractionHandler {
	return &InteractionHandler{
		store:     store,
		publisher: publisher,
		metrics:   engineMetrics,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (h *InteractionHandler) Track(c *gin.Context) {
	var req models.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Request body must be valid JSON",
			},
		})
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	interaction := &models.UserInteraction{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Action:    req.Action,
		Emotion:   req.Emotion,
		Timestamp: time.Now().UTC(),
	}

	if err := h.store.RecordInteraction(c.Request.Context(), interaction); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":    req.UserID,
			"product_id": req.ProductID,
		}).Error("Failed to record interaction")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERACTION_WRITE_FAILED",
				"message": "Failed to record interaction",
			},
		})
		return
	}

	if h.publisher != nil {
		// Best-effort; the publisher logs its own failures.
		_ = h.publisher.PublishInteraction(c.Request.Context(), interaction)
	}
	if h.metrics != nil {
		h.metrics.InteractionsTracked.Inc()
	}

	c.JSON(http.StatusOK, models.InteractionResponse{
		Success:       true,
		InteractionID: interaction.ID,
	})
}
