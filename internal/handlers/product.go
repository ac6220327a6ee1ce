package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// ProductCatalog is the slice of the store the product handler reads from.
type ProductCatalog interface {
	AllProducts(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, productID string) (*models.Product, error)
}

type ProductHandler struct {
	catalog ProductCatalog
	logger  *logrus.Logger
}

func NewProductHandler(catalog ProductCatalog, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalog.AllProducts(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CATALOG_UNAVAILABLE",
				"message": "Failed to load products",
			},
		})
		return
	}

	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:  true,
		Products: products,
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	productID := c.Param("productId")

	product, err := h.catalog.Product(c.Request.Context(), productID)
	if err != nil {
		h.logger.WithError(err).WithField("product_id", productID).Error("Failed to load product")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CATALOG_UNAVAILABLE",
				"message": "Failed to load product",
			},
		})
		return
	}

	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Product: product,
	})
}
