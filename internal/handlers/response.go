package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rental-service/internal/services"
)

// ErrorResponse sends a standardized error response.
// Internal errors are logged but not exposed to clients.
func ErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	requestID := getRequestID(c)

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"status":     statusCode,
		}).WithError(err).Error(message)
	}

	response := gin.H{
		"success":    false,
		"message":    message,
		"request_id": requestID,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	// Only include error details in development mode
	if gin.Mode() == gin.DebugMode && err != nil {
		response["error_details"] = err.Error()
	}

	c.JSON(statusCode, response)
}

// SuccessResponse sends a standardized success response
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := gin.H{
		"success":    true,
		"message":    message,
		"request_id": getRequestID(c),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	if data != nil {
		response["data"] = data
	}

	c.JSON(statusCode, response)
}

// MapError translates service-level sentinel errors into the HTTP taxonomy:
// validation 400, unauthorized 401, not-found 404, conflict 409, everything
// else 500 with a generic message.
func MapError(c *gin.Context, err error, fallback string) {
	switch {
	case err == nil:
		return
	case isValidation(err):
		ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidReference):
		ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrUnauthorized):
		ErrorResponse(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		ErrorResponse(c, http.StatusConflict, err.Error(), nil)
	default:
		ErrorResponse(c, http.StatusInternalServerError, fallback, err)
	}
}

func isValidation(err error) bool {
	_, ok := services.IsValidationError(err)
	return ok
}

// getRequestID retrieves the request ID set by middleware
func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		return requestID.(string)
	}
	return c.GetHeader("X-Request-ID")
}
