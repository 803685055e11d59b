package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.NewValidationError("bad"), http.StatusBadRequest},
		{fmt.Errorf("test t1: %w", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: all 2 batches failed", service.ErrNoQuestionsGenerated), http.StatusBadGateway},
		{service.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{service.ErrRecommenderUnavailable, http.StatusServiceUnavailable},
		{service.ErrModelUnavailable, http.StatusServiceUnavailable},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestAbortWithServiceErrorUsesValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	AbortWithServiceError(ctx, "Failed to grade answers", service.NewValidationError("answer_key[0]: id is required", "answer_key[1]: answer is required"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to grade answers", resp.Message)
	assert.Len(t, resp.Details, 2)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
