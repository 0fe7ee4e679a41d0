package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Business-rule rejection codes. Everything here is an expected outcome the
// caller can act on; only storage/infrastructure failures fall outside it.
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeAuthorization     = "authorization_error"
	CodeConflict          = "conflict"
	CodeInsufficientFunds = "insufficient_funds"
	CodeInvalidTransition = "invalid_state_transition"
	CodeDeadlinePassed    = "deadline_passed"
)

// ServiceError is a caller-visible business-rule rejection.
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Message
}

func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// HTTPStatus maps a rejection code to its response status. Anything not in the
// taxonomy is an infrastructure failure and reported as a 500.
func (e *ServiceError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAuthorization:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	case CodeInsufficientFunds:
		return http.StatusPaymentRequired
	case CodeInvalidTransition, CodeDeadlinePassed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondError writes err to the client: service errors keep their code and
// mapped status, anything else is a generic retryable failure.
func RespondError(c *gin.Context, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.HTTPStatus(), ErrorResponse{Code: svcErr.Code, Message: svcErr.Message})
		return
	}
	GetLogger().Error("Unexpected failure", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal Server Error",
		Details: "An unexpected error occurred. Please try again later.",
	})
}
