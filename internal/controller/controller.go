// Package controller holds the helpers shared by the admin and user HTTP controllers.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/service"
)

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoQuestionsGenerated):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrStoreUnavailable),
		errors.Is(err, service.ErrRecommenderUnavailable),
		errors.Is(err, service.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithBindError answers a request whose body failed to bind or validate.
func AbortWithBindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
}

// AbortWithServiceError writes err as dto.ErrorResponse with its mapped status.
func AbortWithServiceError(ctx *gin.Context, message string, err error) {
	resp := dto.ErrorResponse{Message: message, Details: []string{err.Error()}}
	var verr *service.ValidationError
	if errors.As(err, &verr) && len(verr.Details) > 0 {
		resp.Details = verr.Details
	}
	ctx.JSON(StatusFor(err), resp)
}

// Health reports liveness. It is mounted outside /api/v1 and is left
// out of the API document.
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: dto.StatusOK})
}
