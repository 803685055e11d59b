package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/service"
	"github.com/stretchr/testify/assert"
)

type stubCustomTests struct {
	service.CustomTestService
	lastID string
	err    error
}

func (s *stubCustomTests) UpsertQuestion(ctx context.Context, q dto.BankQuestionDTO) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastID = q.ID
	if q.ID == "" {
		return "generated-id", nil
	}
	return q.ID, nil
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/questions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpsertQuestion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubCustomTests{}
	r := gin.New()
	NewAdminQuestionController(svc).RegisterRoutes(r)

	w := post(r, `{"id":"q-1","type":"mcq","level":"B1","text":"She ____ here.","options":["is","are","am","be"],"answers":["is"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","id":"q-1"}`, w.Body.String())

	w = post(r, `{"type":"gap","level":"B1","text":"x ____","answers":["y"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "generated-id")
}

func TestUpsertQuestionValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAdminQuestionController(&stubCustomTests{}).RegisterRoutes(r)

	for _, body := range []string{
		`{"type":"essay","level":"B1","text":"x","answers":["y"]}`,
		`{"type":"mcq","level":"B1","text":"x","answers":[]}`,
		`{"type":"mcq","text":"x","answers":["y"]}`,
	} {
		w := post(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestUpsertQuestionWithoutStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAdminQuestionController(&stubCustomTests{err: service.ErrStoreUnavailable}).RegisterRoutes(r)

	w := post(r, `{"type":"mcq","level":"B1","text":"x","answers":["y"]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
