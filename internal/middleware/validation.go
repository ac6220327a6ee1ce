package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aniruddh-code-002/moodmart/internal/validation"
)

// ValidationMiddleware validates JSON request bodies against the embedded
// schemas before they reach a handler. The body is restored afterwards so
// handlers can bind it normally.
type ValidationMiddleware struct {
	validator *validation.SchemaValidator
}

func NewValidationMiddleware(validator *validation.SchemaValidator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: validator}
}

func (vm *ValidationMiddleware) ValidateRecommendationRequest() gin.HandlerFunc {
	return vm.validateBody(vm.validator.ValidateRecommendationRequest)
}

func (vm *ValidationMiddleware) ValidateInteractionRequest() gin.HandlerFunc {
	return vm.validateBody(vm.validator.ValidateInteractionRequest)
}

func (vm *ValidationMiddleware) ValidateSearchRequest() gin.HandlerFunc {
	return vm.validateBody(vm.validator.ValidateSearchRequest)
}

func (vm *ValidationMiddleware) ValidateSentimentRequest() gin.HandlerFunc {
	return vm.validateBody(vm.validator.ValidateSentimentRequest)
}

func (vm *ValidationMiddleware) validateBody(validate func([]byte) *validation.ValidationResult) gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			vm.reject(c, "BODY_READ_ERROR", "Failed to read request body", nil)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		if len(bodyBytes) == 0 {
			vm.reject(c, "EMPTY_BODY", "Request body is required", nil)
			return
		}

		result := validate(bodyBytes)
		if !result.Valid {
			vm.reject(c, "VALIDATION_ERROR", "Request validation failed", result.Errors)
			return
		}

		c.Next()
	}
}

func (vm *ValidationMiddleware) reject(c *gin.Context, code, message string, details any) {
	body := gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
	if details != nil {
		body["error"].(gin.H)["details"] = details
	}

	c.JSON(http.StatusBadRequest, body)
	c.Abort()
}
