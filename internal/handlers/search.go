package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// SimilaritySearcher answers semantic queries over the catalog.
type SimilaritySearcher interface {
	Search(ctx context.Context, query, emotionContext string, limit int) ([]models.SearchResult, error)
	SimilarProducts(ctx context.Context, productID string, limit int) (*models.Product, []models.SearchResult, error)
}

type SearchHandler struct {
	searcher SimilaritySearcher
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewSearchHandler(searcher SimilaritySearcher, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *SearchHandler) Search(c *gin.Context) {
	var req models.SearchRequest
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

	results, err := h.searcher.Search(c.Request.Context(), req.Query, req.EmotionContext, req.Limit)
	if err != nil {
		h.logger.WithError(err).WithField("query", req.Query).Error("Search failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "SEARCH_FAILED",
				"message": "Failed to search products",
			},
		})
		return
	}

	if results == nil {
		results = []models.SearchResult{}
	}

	c.JSON(http.StatusOK, models.SearchResponse{
		Success: true,
		Query:   req.Query,
		Results: results,
	})
}

func (h *SearchHandler) Similar(c *gin.Context) {
	productID := c.Param("productId")

	limit := 5
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	target, results, err := h.searcher.SimilarProducts(c.Request.Context(), productID, limit)
	if err != nil {
		h.logger.WithError(err).WithField("product_id", productID).Error("Similar products lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "SIMILARITY_FAILED",
				"message": "Failed to find similar products",
			},
		})
		return
	}

	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if results == nil {
		results = []models.SearchResult{}
	}

	c.JSON(http.StatusOK, models.SimilarProductsResponse{
		Success:         true,
		TargetProduct:   *target,
		SimilarProducts: results,
	})
}
