package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/pkg/rbac"
)

// statusFor maps a service error onto an HTTP status and client message.
func statusFor(err error) (int, string) {
	var (
		verr     *model.ValidationError
		denied   *rbac.PermissionDeniedError
		mismatch *rbac.OrganizationMismatchError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, model.ErrAuthFailure):
		return http.StatusUnauthorized, model.ErrAuthFailure.Error()
	case errors.As(err, &denied), errors.As(err, &mismatch), errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// respondError logs err at a level matching its status and writes the
// JSON error body.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error, fields ...zap.Field) {
	status, msg := statusFor(err)
	fields = append(fields, zap.Int("status", status), zap.Error(err))
	if status >= http.StatusInternalServerError {
		logger.Error(op+": failed", fields...)
	} else {
		logger.Warn(op+": rejected", fields...)
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, logger *zap.Logger, op string, err error) {
	logger.Warn(op+": invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func unauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
}
