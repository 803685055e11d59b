package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/studyhub-ai/config"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	text string
	err  error
}

func (s stubLLM) GenerateText(context.Context, string) (string, error) { return s.text, s.err }
func (s stubLLM) GenerateJSON(context.Context, string) (string, error) { return s.text, s.err }
func (s stubLLM) Close() error                                         { return nil }

type stubGeneration struct {
	questions []dto.GeneratedQuestion
	err       error
}

func (s stubGeneration) GenerateCustom(context.Context, dto.GenerateCustomTestRequest) ([]dto.GeneratedQuestion, error) {
	return s.questions, s.err
}

func (s stubGeneration) GenerateByTopic(context.Context, dto.GenerateTopicTestRequest) ([]dto.GeneratedQuestion, error) {
	return s.questions, s.err
}

type stubRecommender struct {
	resp *dto.RecommendResponse
}

func (s stubRecommender) Available() bool { return s.resp != nil }

func (s stubRecommender) Recommend([7]float64) (*dto.RecommendResponse, error) {
	if s.resp == nil {
		return nil, service.ErrRecommenderUnavailable
	}
	return s.resp, nil
}

func newRouter(register ...func(*gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	for _, reg := range register {
		reg(r)
	}
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func gradingRouter(llm service.GeminiLLMService, rec service.Recommender) *gin.Engine {
	ctrl := NewGradingController(service.NewGradingService(llm, service.NewLevelScaleService()), rec)
	return newRouter(ctrl.RegisterRoutes)
}

func TestGradeEndpoint(t *testing.T) {
	r := gradingRouter(stubLLM{}, stubRecommender{})
	w := doJSON(t, r, http.MethodPost, "/api/v1/grade",
		`{"answer_key":[{"id":1,"answer":"B","skill":"Grammar","topic":"Tenses"}],"student_answers":{"1":"b"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.GradeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalScore)
	assert.Equal(t, 1, resp.TotalQuestions)
	assert.Equal(t, []dto.SkillSummary{{Skill: "Grammar", Total: 1, Correct: 1, Accuracy: 100}}, resp.SkillSummary)
	assert.Empty(t, resp.WeakTopics)
	assert.Equal(t, "Unknown", resp.PostTestLevel)
	assert.Equal(t, dto.QuestionID("1"), resp.PerQuestion[0].ID)
	assert.Contains(t, w.Body.String(), `"trend_analysis"`)
}

func TestGradeEndpointEnrichmentFailure(t *testing.T) {
	r := gradingRouter(stubLLM{err: errors.New("upstream 500")}, stubRecommender{})
	w := doJSON(t, r, http.MethodPost, "/api/v1/grade", map[string]any{
		"answer_key":      []map[string]any{{"id": "q1", "answer": "went", "skill": "Grammar", "topic": "Past simple"}},
		"student_answers": map[string]string{"q1": "goed"},
		"use_gemini":      true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.GradeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Unknown (AI Error)", resp.PostTestLevel)
	assert.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, []string{"Grammar - Past simple"}, resp.WeakTopics)
}

func TestGradeEndpointRejectsMalformedKey(t *testing.T) {
	r := gradingRouter(stubLLM{}, stubRecommender{})
	tests := []struct {
		name string
		body string
	}{
		{"empty key", `{"answer_key":[],"student_answers":{}}`},
		{"missing answer", `{"answer_key":[{"id":1}],"student_answers":{}}`},
		{"duplicate id", `{"answer_key":[{"id":1,"answer":"a"},{"id":"1","answer":"b"}]}`},
		{"not json", `answer_key=1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/grade", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestRecommendEndpoint(t *testing.T) {
	want := &dto.RecommendResponse{LearningPath: "Balanced Path", NextLessons: []string{"Shadowing"}, WeakSkills: []string{"writing", "reading"}}
	r := gradingRouter(stubLLM{}, stubRecommender{resp: want})

	w := doJSON(t, r, http.MethodPost, "/api/v1/recommend", dto.RecommendRequest{TimeAvailable: 10, VocabScore: 80})
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.RecommendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, want.LearningPath, got.LearningPath)

	w = doJSON(t, r, http.MethodPost, "/api/v1/recommend", `{"time_available":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendEndpointUnavailable(t *testing.T) {
	r := gradingRouter(stubLLM{}, stubRecommender{})
	w := doJSON(t, r, http.MethodPost, "/api/v1/recommend", dto.RecommendRequest{})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGenerationEndpoints(t *testing.T) {
	questions := []dto.GeneratedQuestion{{Question: "q", Options: []string{"a", "b", "c", "d"}, Answer: "a"}}
	tests := []struct {
		name       string
		svc        stubGeneration
		path       string
		body       string
		wantStatus int
		wantEnv    string
	}{
		{"custom ok", stubGeneration{questions: questions}, "/api/v1/generate-test-custom", `{"current_level":"B1","num_questions":1}`, http.StatusOK, dto.StatusSuccess},
		{"topic ok", stubGeneration{questions: questions}, "/api/v1/generate-test", `{"topic":"Travel"}`, http.StatusOK, dto.StatusSuccess},
		{"all batches failed", stubGeneration{err: fmt.Errorf("%w: all 3 batches failed", service.ErrNoQuestionsGenerated)}, "/api/v1/generate-test-custom", `{"current_level":"B1"}`, http.StatusBadGateway, dto.StatusError},
		{"missing level", stubGeneration{questions: questions}, "/api/v1/generate-test-custom", `{"num_questions":5}`, http.StatusBadRequest, dto.StatusError},
		{"too many questions", stubGeneration{questions: questions}, "/api/v1/generate-test-custom", `{"current_level":"B1","num_questions":500}`, http.StatusBadRequest, dto.StatusError},
		{"unexpected", stubGeneration{err: errors.New("boom")}, "/api/v1/generate-test", `{"topic":"Travel"}`, http.StatusInternalServerError, dto.StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewGenerationController(tt.svc).RegisterRoutes)
			w := doJSON(t, r, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			var env dto.QuestionsEnvelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, tt.wantEnv, env.Status)
			if tt.wantEnv == dto.StatusError {
				assert.NotEmpty(t, env.Message)
				assert.Empty(t, env.Data)
			} else {
				assert.Len(t, env.Data, 1)
			}
		})
	}
}

func TestCustomTestEndpointsWithoutStore(t *testing.T) {
	cfg := &config.Config{Generation: config.Generation{BatchSize: 5, MaxInFlight: 1}}
	orchestrator := service.NewBatchOrchestrator(cfg, stubLLM{err: errors.New("offline")})
	svc := service.NewCustomTestService(cfg, nil, nil, nil, orchestrator, service.NewLevelScaleService())
	r := newRouter(NewUserTestController(svc).RegisterRoutes)

	w := doJSON(t, r, http.MethodPost, "/api/v1/tests/custom", `{"userId":"u1","profile":{"currentLevel":"B1"}}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/tests/t1/questions", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/tests/t1/attempts?user_id=u1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/attempts", `{"testId":"t1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
