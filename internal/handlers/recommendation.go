package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// Recommender produces ranked recommendations. It never fails; degraded
// results come back as the popularity fallback.
type Recommender interface {
	GenerateRecommendations(ctx context.Context, userID string, reqContext map[string]string, limit int) []models.Recommendation
}

type RecommendationHandler struct {
	recommender Recommender
	validate    *validator.Validate
	logger      *logrus.Logger
}

func NewRecommendationHandler(recommender Recommender, logger *logrus.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommender: recommender,
		validate:    validator.New(),
		logger:      logger,
	}
}

func (h *RecommendationHandler) Generate(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Request body must be valid JSON",
			},
		})
		return
	}

	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_USER_ID",
				"message": "user_id is required",
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

	recommendations := h.recommender.GenerateRecommendations(c.Request.Context(), req.UserID, req.Context, req.Limit)

	c.JSON(http.StatusOK, models.RecommendationResponse{
		Success:         true,
		UserID:          req.UserID,
		Recommendations: recommendations,
		Context:         req.Context,
	})
}
