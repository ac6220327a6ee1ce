package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// SentimentAnalyzer extracts an emotional reading from user text.
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (*models.SentimentAnalysis, error)
}

type SentimentHandler struct {
	analyzer SentimentAnalyzer
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewSentimentHandler(analyzer SentimentAnalyzer, logger *logrus.Logger) *SentimentHandler {
	return &SentimentHandler{
		analyzer: analyzer,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *SentimentHandler) Analyze(c *gin.Context) {
	var req models.SentimentRequest
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

	sentiment, err := h.analyzer.AnalyzeSentiment(c.Request.Context(), req.Text)
	if err != nil {
		h.logger.WithError(err).Warn("Sentiment analysis failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": gin.H{
				"code":    "SENTIMENT_ANALYSIS_FAILED",
				"message": "Failed to analyze sentiment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SentimentResponse{
		Success:   true,
		Sentiment: sentiment,
	})
}
