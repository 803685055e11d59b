package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/lshigami/studyhub-ai/config"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memQuestionRepo struct {
	mu        sync.Mutex
	questions map[string]model.BankQuestion
	order     []string
}

func newMemQuestionRepo() *memQuestionRepo {
	return &memQuestionRepo{questions: map[string]model.BankQuestion{}}
}

func (r *memQuestionRepo) Upsert(ctx context.Context, q *model.BankQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[q.ID]; !ok {
		r.order = append(r.order, q.ID)
	}
	r.questions[q.ID] = *q
	return nil
}

func (r *memQuestionRepo) FindCandidates(ctx context.Context, levels, tags []string, limit int) ([]model.BankQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.BankQuestion
	for _, id := range r.order {
		q := r.questions[id]
		if slices.Contains(levels, q.Level) {
			out = append(out, q)
		}
	}
	return out, nil
}

type memTestRepo struct {
	tests map[string]model.CustomTest
}

func (r *memTestRepo) Create(ctx context.Context, t *model.CustomTest) error {
	r.tests[t.ID] = *t
	return nil
}

func (r *memTestRepo) FindByID(ctx context.Context, id string) (*model.CustomTest, error) {
	t, ok := r.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

type memAttemptRepo struct {
	attempts []model.TestAttempt
}

func (r *memAttemptRepo) Create(ctx context.Context, a *model.TestAttempt) error {
	r.attempts = append(r.attempts, *a)
	return nil
}

func (r *memAttemptRepo) FindAllByTestAndUser(ctx context.Context, testID string, userID *string) ([]model.TestAttempt, error) {
	var out []model.TestAttempt
	for _, a := range r.attempts {
		if a.TestID == testID && (userID == nil || a.UserID == *userID) {
			out = append(out, a)
		}
	}
	return out, nil
}

type customTestFixture struct {
	svc       CustomTestService
	questions *memQuestionRepo
	attempts  *memAttemptRepo
	llm       *fakeLLM
}

func newCustomTestFixture(t *testing.T, enabled bool) *customTestFixture {
	t.Helper()
	cfg := &config.Config{Generation: config.Generation{BatchSize: 5, MaxInFlight: 2}}
	if enabled {
		cfg.Database.Host = "localhost"
	}
	f := &customTestFixture{
		questions: newMemQuestionRepo(),
		attempts:  &memAttemptRepo{},
		llm: &fakeLLM{respond: func(call int, prompt string) (string, error) {
			return "", errors.New("model offline")
		}},
	}
	f.svc = NewCustomTestService(cfg, f.questions, &memTestRepo{tests: map[string]model.CustomTest{}}, f.attempts,
		NewBatchOrchestrator(cfg, f.llm), NewLevelScaleService())
	return f
}

func (f *customTestFixture) seed(t *testing.T, qType, level string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		q := dto.BankQuestionDTO{
			ID:      fmt.Sprintf("%s-%s-%d", qType, level, i),
			Type:    qType,
			Level:   level,
			Skills:  []string{"grammar"},
			Text:    "She ____ to school.",
			Options: []string{"goes", "go", "going", "gone"},
			Answers: []string{"goes"},
		}
		_, err := f.svc.UpsertQuestion(context.Background(), q)
		require.NoError(t, err)
	}
}

func TestCustomTestStoreDisabled(t *testing.T) {
	f := newCustomTestFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.UpsertQuestion(ctx, dto.BankQuestionDTO{Type: "mcq", Level: "B1", Text: "x", Answers: []string{"a"}})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = f.svc.CreateCustomTest(ctx, dto.CreateCustomTestRequest{UserID: "u1"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = f.svc.GetTestQuestions(ctx, "t1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = f.svc.SubmitAttempt(ctx, dto.SubmitAttemptRequest{TestID: "t1", UserID: "u1"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = f.svc.ListAttempts(ctx, "t1", nil)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestUpsertQuestionAssignsID(t *testing.T) {
	f := newCustomTestFixture(t, true)
	id, err := f.svc.UpsertQuestion(context.Background(), dto.BankQuestionDTO{Type: "gap", Level: "b1", Text: "x ____", Answers: []string{"a"}})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, "B1", f.questions.questions[id].Level)
}

func TestCreateCustomTestFromBank(t *testing.T) {
	f := newCustomTestFixture(t, true)
	f.seed(t, model.QuestionTypeMCQ, "B1", 10)
	f.seed(t, model.QuestionTypeGap, "B2", 10)
	f.seed(t, model.QuestionTypeMCQ, "C2", 10)
	ctx := context.Background()

	summary, err := f.svc.CreateCustomTest(ctx, dto.CreateCustomTestRequest{
		UserID:  "u1",
		Profile: dto.Profile{CurrentLevel: "B1"},
		TestPreferences: dto.TestPreferences{
			NumQuestions:  10,
			QuestionRatio: map[string]int{"mcq": 70, "gap": 30},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Summary.Total)
	assert.Equal(t, 7, summary.Summary.Distribution.MCQ)
	assert.Equal(t, 3, summary.Summary.Distribution.Gap)
	assert.Equal(t, 5, summary.Summary.EstTimeMin)
	assert.Zero(t, f.llm.callCount())

	public, err := f.svc.GetTestQuestions(ctx, summary.TestID)
	require.NoError(t, err)
	require.Len(t, public.Questions, 10)
	for _, q := range public.Questions {
		assert.NotEqual(t, "C2", q.Level)
		assert.NotEmpty(t, q.Text)
	}
}

func TestCreateCustomTestTopsUpFromModel(t *testing.T) {
	f := newCustomTestFixture(t, true)
	f.seed(t, model.QuestionTypeMCQ, "B1", 2)
	f.llm.respond = func(call int, prompt string) (string, error) {
		return questionsJSON(fmt.Sprintf("gen%d", call), 3), nil
	}

	summary, err := f.svc.CreateCustomTest(context.Background(), dto.CreateCustomTestRequest{
		UserID:          "u1",
		Profile:         dto.Profile{CurrentLevel: "B1"},
		TestPreferences: dto.TestPreferences{NumQuestions: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Summary.Total)
	assert.Equal(t, 1, f.llm.callCount())
	// 2 seeded + 3 generated questions saved back to the bank
	assert.Len(t, f.questions.questions, 5)
}

func TestCreateCustomTestEmptyBankAndModelDown(t *testing.T) {
	f := newCustomTestFixture(t, true)
	_, err := f.svc.CreateCustomTest(context.Background(), dto.CreateCustomTestRequest{
		UserID:  "u1",
		Profile: dto.Profile{CurrentLevel: "A1"},
	})
	assert.ErrorIs(t, err, ErrNoQuestionsGenerated)
}

func TestSubmitAttemptAndListAttempts(t *testing.T) {
	f := newCustomTestFixture(t, true)
	f.seed(t, model.QuestionTypeMCQ, "B1", 2)
	ctx := context.Background()

	summary, err := f.svc.CreateCustomTest(ctx, dto.CreateCustomTestRequest{
		UserID:          "u1",
		Profile:         dto.Profile{CurrentLevel: "B1"},
		TestPreferences: dto.TestPreferences{NumQuestions: 2, QuestionRatio: map[string]int{"mcq": 100}},
	})
	require.NoError(t, err)

	resp, err := f.svc.SubmitAttempt(ctx, dto.SubmitAttemptRequest{
		TestID: summary.TestID,
		UserID: "u1",
		MCQAnswers: []dto.MCQAnswer{
			{QuestionID: "mcq-B1-0", SelectedOption: "Goes"},
			{QuestionID: "mcq-B1-1", SelectedOption: "go"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AttemptID)
	assert.Equal(t, 1, resp.Result.Correct)
	assert.Equal(t, 50.0, resp.Result.Pct)

	other := "u2"
	list, err := f.svc.ListAttempts(ctx, summary.TestID, &other)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = f.svc.ListAttempts(ctx, summary.TestID, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, map[string]float64{"grammar": 50}, list[0].SkillPct)
	assert.Equal(t, []dto.WeaknessDTO{{Skill: "grammar", Pct: 50, Severity: "medium"}}, list[0].Weaknesses)
}

func TestSubmitAttemptUnknownTest(t *testing.T) {
	f := newCustomTestFixture(t, true)
	_, err := f.svc.SubmitAttempt(context.Background(), dto.SubmitAttemptRequest{TestID: "nope", UserID: "u1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGradeAttempt(t *testing.T) {
	questions := []dto.BankQuestionDTO{
		{ID: "m1", Type: "mcq", Skills: []string{"Grammar"}, Options: []string{"goes", "go"}, Answers: []string{"goes"}},
		{ID: "m2", Type: "mcq", Skills: []string{"vocabulary"}, Options: []string{"itinerary", "map"}},
		{ID: "g1", Type: "gap", Skills: []string{"vocabulary"}, Answers: []string{"colour", "color"}},
		{ID: "g2", Type: "gap", Answers: []string{"don't"}},
	}
	res := GradeAttempt(questions,
		[]dto.MCQAnswer{
			{QuestionID: "m1", SelectedOption: "goes"},
			{QuestionID: "m1", SelectedOption: "go"},
			{QuestionID: "m2", SelectedOption: "map"},
			{QuestionID: "ghost", SelectedOption: "x"},
		},
		[]dto.GapAnswer{
			{QuestionID: "g1", Text: " Color "},
			{QuestionID: "g2", Text: "Don’t"},
		},
	)

	assert.Equal(t, 3, res.Correct)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 75.0, res.Pct)
	assert.Equal(t, map[string]float64{"grammar": 100, "vocabulary": 50}, res.SkillPct)
	assert.Equal(t, []dto.WeaknessDTO{{Skill: "vocabulary", Pct: 50, Severity: "medium"}}, res.Weaknesses)
}

func TestGradeAttemptSeverity(t *testing.T) {
	questions := []dto.BankQuestionDTO{
		{ID: "1", Answers: []string{"a"}, Skills: []string{"listening"}},
		{ID: "2", Answers: []string{"a"}, Skills: []string{"listening"}},
		{ID: "3", Answers: []string{"a"}, Skills: []string{"listening"}},
	}
	res := GradeAttempt(questions, []dto.MCQAnswer{{QuestionID: "1", SelectedOption: "a"}, {QuestionID: "2", SelectedOption: "b"}, {QuestionID: "3", SelectedOption: "b"}}, nil)
	assert.Equal(t, 33.3, res.Pct)
	assert.Equal(t, []dto.WeaknessDTO{{Skill: "listening", Pct: 33.3, Severity: "high"}}, res.Weaknesses)
}

func TestMCQCount(t *testing.T) {
	tests := []struct {
		num   int
		ratio map[string]int
		want  int
	}{
		{10, nil, 7},
		{15, nil, 11},
		{10, map[string]int{"mcq": 50}, 5},
		{5, map[string]int{"mcq": 50}, 3},
		{10, map[string]int{"mcq": 0}, 0},
		{10, map[string]int{"mcq": 150}, 10},
		{10, map[string]int{"gap": 100}, 0},
		{10, map[string]int{"gap": 40}, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MCQCount(tt.num, tt.ratio), "num=%d ratio=%v", tt.num, tt.ratio)
	}
}

func TestBankQuestionFromGenerated(t *testing.T) {
	q := bankQuestionFromGenerated(dto.GeneratedQuestion{
		Type:     "Fill in the blank",
		Skill:    "Vocabulary",
		Topic:    []string{"Business Vocab"},
		Question: "We signed the ____.",
		Options:  []string{"contract", "contact", "contrast", "contest"},
		Answer:   "contract",
	}, "B2")

	assert.Equal(t, model.QuestionTypeGap, q.Type)
	assert.Equal(t, "B2", q.Level)
	assert.Equal(t, []string{"business_vocab"}, q.Tags)
	assert.Equal(t, []string{"vocabulary"}, q.Skills)
	assert.Equal(t, []string{"contract"}, q.Answers)
	assert.NotEmpty(t, q.ID)
}
