package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/studyhub-ai/config"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/lshigami/studyhub-ai/internal/model"
	"github.com/lshigami/studyhub-ai/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultNumQuestions     = 15
	defaultMCQPercent       = 70
	maxBankCandidates       = 500
	defaultQuestionSeconds  = 30
	mediumWeaknessThreshold = 60.0
	highWeaknessThreshold   = 40.0
	defaultAttemptSkill     = "grammar"
)

// CustomTestService builds tests from the question bank, topping up with
// generated questions, and grades attempts against them.
type CustomTestService interface {
	UpsertQuestion(ctx context.Context, q dto.BankQuestionDTO) (string, error)
	CreateCustomTest(ctx context.Context, req dto.CreateCustomTestRequest) (*dto.CustomTestSummaryDTO, error)
	GetTestQuestions(ctx context.Context, testID string) (*dto.TestQuestionsDTO, error)
	SubmitAttempt(ctx context.Context, req dto.SubmitAttemptRequest) (*dto.AttemptResponse, error)
	ListAttempts(ctx context.Context, testID string, userID *string) ([]dto.AttemptResultDTO, error)
}

type customTestService struct {
	enabled      bool
	questionRepo repository.QuestionRepository
	testRepo     repository.CustomTestRepository
	attemptRepo  repository.TestAttemptRepository
	orchestrator BatchOrchestrator
	levels       LevelScaleService
}

func NewCustomTestService(
	cfg *config.Config,
	questionRepo repository.QuestionRepository,
	testRepo repository.CustomTestRepository,
	attemptRepo repository.TestAttemptRepository,
	orchestrator BatchOrchestrator,
	levels LevelScaleService,
) CustomTestService {
	return &customTestService{
		enabled:      cfg.Database.Enabled(),
		questionRepo: questionRepo,
		testRepo:     testRepo,
		attemptRepo:  attemptRepo,
		orchestrator: orchestrator,
		levels:       levels,
	}
}

func (s *customTestService) UpsertQuestion(ctx context.Context, q dto.BankQuestionDTO) (string, error) {
	if !s.enabled {
		return "", ErrStoreUnavailable
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	m, err := toBankModel(q)
	if err != nil {
		return "", err
	}
	if err := s.questionRepo.Upsert(ctx, m); err != nil {
		log.Error().Err(err).Str("questionID", q.ID).Msg("Failed to upsert bank question")
		return "", fmt.Errorf("upsert question %s: %w", q.ID, err)
	}
	return q.ID, nil
}

func (s *customTestService) CreateCustomTest(ctx context.Context, req dto.CreateCustomTestRequest) (*dto.CustomTestSummaryDTO, error) {
	if !s.enabled {
		return nil, ErrStoreUnavailable
	}
	prefs := req.TestPreferences
	if prefs.NumQuestions <= 0 {
		prefs.NumQuestions = defaultNumQuestions
	}
	if prefs.DifficultyPreference == "" {
		prefs.DifficultyPreference = "same"
	}
	num := prefs.NumQuestions

	levels := s.levels.CEFRRange(req.Profile.CurrentLevel, prefs.DifficultyPreference)
	tags := append(append([]string{}, req.Profile.PreferredTopics.Grammar...), req.Profile.PreferredTopics.Vocabulary...)

	candidates, err := s.questionRepo.FindCandidates(ctx, levels, tags, maxBankCandidates)
	if err != nil {
		return nil, fmt.Errorf("query question bank: %w", err)
	}
	var mcqs, gaps []dto.BankQuestionDTO
	for _, c := range candidates {
		q, err := toBankDTO(c)
		if err != nil {
			log.Warn().Err(err).Str("questionID", c.ID).Msg("Skipping unreadable bank question")
			continue
		}
		switch q.Type {
		case model.QuestionTypeMCQ:
			mcqs = append(mcqs, q)
		case model.QuestionTypeGap:
			gaps = append(gaps, q)
		}
	}

	mcqCount := MCQCount(num, prefs.QuestionRatio)
	selected := append(sample(mcqs, mcqCount), sample(gaps, num-mcqCount)...)

	if missing := num - len(selected); missing > 0 {
		generated := s.topUp(ctx, missing, levels, req.Profile)
		selected = append(selected, generated...)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: question bank is empty for levels %v", ErrNoQuestionsGenerated, levels)
	}

	rand.Shuffle(len(selected), func(i, j int) { selected[i], selected[j] = selected[j], selected[i] })
	if len(selected) > num {
		selected = selected[:num]
	}

	test, err := newCustomTest(req.UserID, req.Profile, prefs, selected)
	if err != nil {
		return nil, err
	}
	if err := s.testRepo.Create(ctx, test); err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("Failed to persist custom test")
		return nil, fmt.Errorf("save custom test: %w", err)
	}

	summary := dto.CustomTestSummary{Total: len(selected)}
	seconds := 0
	for _, q := range selected {
		switch q.Type {
		case model.QuestionTypeMCQ:
			summary.Distribution.MCQ++
		case model.QuestionTypeGap:
			summary.Distribution.Gap++
		}
		if q.TimeEstimate > 0 {
			seconds += q.TimeEstimate
		} else {
			seconds += defaultQuestionSeconds
		}
	}
	summary.EstTimeMin = int(math.Round(float64(seconds) / 60))

	log.Info().Str("testID", test.ID).Int("total", summary.Total).Strs("levels", levels).Msg("Custom test created")
	return &dto.CustomTestSummaryDTO{TestID: test.ID, Summary: summary}, nil
}

// MCQCount splits num by the mcq percentage, rounding half up. Without an
// mcq entry the share is 100 minus the gap share, or 70 when neither is set.
func MCQCount(num int, ratio map[string]int) int {
	pct, ok := ratio[model.QuestionTypeMCQ]
	if !ok {
		pct = defaultMCQPercent
		if gap, hasGap := ratio[model.QuestionTypeGap]; hasGap {
			pct = 100 - gap
		}
	}
	pct = min(max(pct, 0), 100)
	return min((num*pct+50)/100, num)
}

func sample(pool []dto.BankQuestionDTO, k int) []dto.BankQuestionDTO {
	if k <= 0 || len(pool) == 0 {
		return nil
	}
	if len(pool) <= k {
		return append([]dto.BankQuestionDTO(nil), pool...)
	}
	out := make([]dto.BankQuestionDTO, 0, k)
	for _, i := range rand.Perm(len(pool))[:k] {
		out = append(out, pool[i])
	}
	return out
}

// topUp generates the questions the bank could not supply and saves them for
// reuse. Failures leave the test shorter rather than failing it.
func (s *customTestService) topUp(ctx context.Context, missing int, levels []string, profile dto.Profile) []dto.BankQuestionDTO {
	level := levels[len(levels)/2]
	generated, err := s.orchestrator.Generate(ctx, missing, func(batchSize int) string {
		return bankTopUpPrompt(profile, levels, batchSize)
	})
	if err != nil {
		log.Warn().Err(err).Int("missing", missing).Msg("Could not top up custom test from the model")
		return nil
	}

	out := make([]dto.BankQuestionDTO, 0, len(generated))
	for _, g := range generated {
		q := bankQuestionFromGenerated(g, level)
		m, err := toBankModel(q)
		if err == nil {
			err = s.questionRepo.Upsert(ctx, m)
		}
		if err != nil {
			log.Warn().Err(err).Str("questionID", q.ID).Msg("Failed to save generated question to bank")
		}
		out = append(out, q)
	}
	return out
}

func bankQuestionFromGenerated(g dto.GeneratedQuestion, level string) dto.BankQuestionDTO {
	qType := model.QuestionTypeMCQ
	if t := strings.ToLower(g.Type); strings.Contains(t, "gap") || strings.Contains(t, "fill") {
		qType = model.QuestionTypeGap
	}
	tags := make([]string, 0, len(g.Topic))
	for _, t := range g.Topic {
		tags = append(tags, strings.ReplaceAll(strings.ToLower(strings.TrimSpace(t)), " ", "_"))
	}
	skills := []string{defaultAttemptSkill}
	if sk := strings.ToLower(strings.TrimSpace(g.Skill)); sk != "" {
		skills = []string{sk}
	}
	return dto.BankQuestionDTO{
		ID:          uuid.NewString(),
		Type:        qType,
		Level:       level,
		Tags:        tags,
		Skills:      skills,
		Text:        g.Question,
		Options:     g.Options,
		Answers:     []string{g.Answer},
		Explanation: g.Explanation,
	}
}

func newCustomTest(userID string, profile dto.Profile, prefs dto.TestPreferences, questions []dto.BankQuestionDTO) (*model.CustomTest, error) {
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	settingsJSON, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode question ids: %w", err)
	}
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	return &model.CustomTest{
		ID:              uuid.NewString(),
		CreatorID:       userID,
		ProfileSnapshot: datatypes.JSON(profileJSON),
		Settings:        datatypes.JSON(settingsJSON),
		QuestionIDs:     datatypes.JSON(idsJSON),
		Questions:       datatypes.JSON(questionsJSON),
		CreatedAt:       time.Now().UTC(),
	}, nil
}

func (s *customTestService) loadTest(ctx context.Context, testID string) ([]dto.BankQuestionDTO, error) {
	test, err := s.testRepo.FindByID(ctx, testID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("test %s: %w", testID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load test %s: %w", testID, err)
	}
	var questions []dto.BankQuestionDTO
	if err := json.Unmarshal(test.Questions, &questions); err != nil {
		return nil, fmt.Errorf("decode questions of test %s: %w", testID, err)
	}
	return questions, nil
}

func (s *customTestService) GetTestQuestions(ctx context.Context, testID string) (*dto.TestQuestionsDTO, error) {
	if !s.enabled {
		return nil, ErrStoreUnavailable
	}
	questions, err := s.loadTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	public := make([]dto.PublicQuestionDTO, 0, len(questions))
	if err := copier.Copy(&public, &questions); err != nil {
		return nil, fmt.Errorf("strip answers: %w", err)
	}
	return &dto.TestQuestionsDTO{TestID: testID, Questions: public}, nil
}

func (s *customTestService) SubmitAttempt(ctx context.Context, req dto.SubmitAttemptRequest) (*dto.AttemptResponse, error) {
	if !s.enabled {
		return nil, ErrStoreUnavailable
	}
	questions, err := s.loadTest(ctx, req.TestID)
	if err != nil {
		return nil, err
	}

	result := GradeAttempt(questions, req.MCQAnswers, req.GapAnswers)
	result.ID = uuid.NewString()
	result.TestID = req.TestID
	result.UserID = req.UserID
	result.SubmittedAt = time.Now().UTC()

	attempt, err := toAttemptModel(result)
	if err != nil {
		return nil, err
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		log.Error().Err(err).Str("testID", req.TestID).Str("userID", req.UserID).Msg("Failed to persist attempt")
		return nil, fmt.Errorf("save attempt: %w", err)
	}
	return &dto.AttemptResponse{AttemptID: result.ID, Result: result}, nil
}

func (s *customTestService) ListAttempts(ctx context.Context, testID string, userID *string) ([]dto.AttemptResultDTO, error) {
	if !s.enabled {
		return nil, ErrStoreUnavailable
	}
	attempts, err := s.attemptRepo.FindAllByTestAndUser(ctx, testID, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts of test %s: %w", testID, err)
	}
	out := make([]dto.AttemptResultDTO, 0, len(attempts))
	for _, a := range attempts {
		r := dto.AttemptResultDTO{
			ID:          a.ID,
			TestID:      a.TestID,
			UserID:      a.UserID,
			Correct:     a.Correct,
			Total:       a.Total,
			Pct:         a.Pct,
			SubmittedAt: a.SubmittedAt,
		}
		if err := json.Unmarshal(a.SkillPct, &r.SkillPct); err != nil {
			log.Warn().Err(err).Str("attemptID", a.ID).Msg("Unreadable skill percentages")
		}
		if err := json.Unmarshal(a.Weaknesses, &r.Weaknesses); err != nil {
			log.Warn().Err(err).Str("attemptID", a.ID).Msg("Unreadable weaknesses")
		}
		out = append(out, r)
	}
	return out, nil
}

type skillScore struct {
	score, max int
}

// GradeAttempt scores MCQ and gap answers with NormalizeAnswer. An MCQ is
// checked against its first answer (or first option); a gap answer may match
// any accepted answer. Only the first answer per question counts.
func GradeAttempt(questions []dto.BankQuestionDTO, mcq []dto.MCQAnswer, gap []dto.GapAnswer) dto.AttemptResultDTO {
	byID := make(map[string]dto.BankQuestionDTO, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	scores := make(map[string]*skillScore)
	var order []string
	answered := make(map[string]bool)
	correct := 0

	record := func(q dto.BankQuestionDTO, ok bool) {
		skill := defaultAttemptSkill
		if len(q.Skills) > 0 && strings.TrimSpace(q.Skills[0]) != "" {
			skill = strings.ToLower(strings.TrimSpace(q.Skills[0]))
		}
		sc, seen := scores[skill]
		if !seen {
			sc = &skillScore{}
			scores[skill] = sc
			order = append(order, skill)
		}
		sc.max++
		if ok {
			sc.score++
			correct++
		}
	}

	for _, a := range mcq {
		q, exists := byID[a.QuestionID]
		if !exists || answered[q.ID] {
			continue
		}
		answered[q.ID] = true
		expected := ""
		switch {
		case len(q.Answers) > 0:
			expected = q.Answers[0]
		case len(q.Options) > 0:
			expected = q.Options[0]
		}
		record(q, expected != "" && AnswersMatch(expected, a.SelectedOption))
	}
	for _, a := range gap {
		q, exists := byID[a.QuestionID]
		if !exists || answered[q.ID] {
			continue
		}
		answered[q.ID] = true
		ok := false
		for _, cand := range q.Answers {
			if AnswersMatch(cand, a.Text) {
				ok = true
				break
			}
		}
		record(q, ok)
	}

	res := dto.AttemptResultDTO{
		Correct:    correct,
		Total:      len(questions),
		SkillPct:   make(map[string]float64, len(order)),
		Weaknesses: []dto.WeaknessDTO{},
	}
	if res.Total > 0 {
		res.Pct = round1(float64(correct) / float64(res.Total) * 100)
	}
	for _, skill := range order {
		sc := scores[skill]
		pct := round1(float64(sc.score) / float64(sc.max) * 100)
		res.SkillPct[skill] = pct
		if pct < mediumWeaknessThreshold {
			severity := "medium"
			if pct < highWeaknessThreshold {
				severity = "high"
			}
			res.Weaknesses = append(res.Weaknesses, dto.WeaknessDTO{Skill: skill, Pct: pct, Severity: severity})
		}
	}
	return res
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func toBankModel(q dto.BankQuestionDTO) (*model.BankQuestion, error) {
	enc := func(v []string) (datatypes.JSON, error) {
		if v == nil {
			v = []string{}
		}
		b, err := json.Marshal(v)
		return datatypes.JSON(b), err
	}
	m := &model.BankQuestion{
		ID:           q.ID,
		Type:         q.Type,
		Level:        strings.ToUpper(strings.TrimSpace(q.Level)),
		Text:         q.Text,
		Explanation:  q.Explanation,
		TimeEstimate: q.TimeEstimate,
	}
	var err error
	if m.Tags, err = enc(q.Tags); err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	if m.Skills, err = enc(q.Skills); err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}
	if m.Options, err = enc(q.Options); err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	if m.Answers, err = enc(q.Answers); err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	return m, nil
}

func toBankDTO(m model.BankQuestion) (dto.BankQuestionDTO, error) {
	q := dto.BankQuestionDTO{
		ID:           m.ID,
		Type:         m.Type,
		Level:        m.Level,
		Text:         m.Text,
		Explanation:  m.Explanation,
		TimeEstimate: m.TimeEstimate,
	}
	for _, f := range []struct {
		raw datatypes.JSON
		dst *[]string
	}{
		{m.Tags, &q.Tags},
		{m.Skills, &q.Skills},
		{m.Options, &q.Options},
		{m.Answers, &q.Answers},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return dto.BankQuestionDTO{}, fmt.Errorf("decode question %s: %w", m.ID, err)
		}
	}
	return q, nil
}

func toAttemptModel(r dto.AttemptResultDTO) (*model.TestAttempt, error) {
	skillPct, err := json.Marshal(r.SkillPct)
	if err != nil {
		return nil, fmt.Errorf("encode skill percentages: %w", err)
	}
	weaknesses, err := json.Marshal(r.Weaknesses)
	if err != nil {
		return nil, fmt.Errorf("encode weaknesses: %w", err)
	}
	return &model.TestAttempt{
		ID:          r.ID,
		TestID:      r.TestID,
		UserID:      r.UserID,
		Correct:     r.Correct,
		Total:       r.Total,
		Pct:         r.Pct,
		SkillPct:    datatypes.JSON(skillPct),
		Weaknesses:  datatypes.JSON(weaknesses),
		SubmittedAt: r.SubmittedAt,
	}, nil
}
