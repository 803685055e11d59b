package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/rs/zerolog/log"
)

// AnalysisUnavailableAdvice is returned as the only recommendation when the
// analysis model could not be used.
const AnalysisUnavailableAdvice = "AI analysis is temporarily unavailable; showing local grading results only."

type GradingService interface {
	Grade(ctx context.Context, req dto.GradeRequest) (*dto.GradeResponse, error)
}

type gradingService struct {
	llm    GeminiLLMService
	levels LevelScaleService
}

func NewGradingService(llm GeminiLLMService, levels LevelScaleService) GradingService {
	return &gradingService{llm: llm, levels: levels}
}

// analysis is the part of the model answer that is merged into the response.
type analysis struct {
	PostTestLevel         string                     `json:"post_test_level"`
	CurrentLevel          string                     `json:"current_level"`
	Recommendations       []string                   `json:"recommendations"`
	WeakTopicsRefined     []string                   `json:"weak_topics_refined"`
	PersonalizedPlan      *dto.PersonalizedPlan      `json:"personalized_plan"`
	ProficiencyPrediction *dto.ProficiencyPrediction `json:"proficiency_prediction"`
	MonitoringAlerts      []string                   `json:"monitoring_alerts"`
}

// Grade always grades locally first. With use_gemini the local result is
// sent for analysis; any failure there is absorbed and reported in the body.
func (s *gradingService) Grade(ctx context.Context, req dto.GradeRequest) (*dto.GradeResponse, error) {
	local, err := Grade(req.AnswerKey, req.StudentAnswers)
	if err != nil {
		return nil, err
	}

	current := 0.0
	if local.Total > 0 {
		current = float64(local.Correct) / float64(local.Total) * 100
	}
	var history []dto.TestHistoryItem
	currentLevel := LevelUnknown
	if req.Profile != nil {
		history = req.Profile.TestHistory
		if lvl := strings.TrimSpace(req.Profile.CurrentLevel); lvl != "" {
			currentLevel = lvl
		}
	}
	trend := ComputeTrend(HistoryScores(history), current, local.SkillSummary)

	resp := &dto.GradeResponse{
		TotalScore:       local.Correct,
		TotalQuestions:   local.Total,
		PerQuestion:      local.PerQuestion,
		SkillSummary:     local.SkillSummary,
		WeakTopics:       local.WeakTopics,
		CurrentLevel:     currentLevel,
		PostTestLevel:    LevelUnknown,
		MonitoringAlerts: []string{},
		Trend:            trend,
	}
	if !req.UseGemini {
		return resp, nil
	}

	a, err := s.analyse(ctx, req.Profile, resp)
	if err != nil {
		log.Error().Err(err).Int("questions", resp.TotalQuestions).Msg("Grading analysis failed, returning local results")
		resp.Recommendations = []string{AnalysisUnavailableAdvice}
		resp.PostTestLevel = LevelUnknownAIError
		return resp, nil
	}
	s.merge(resp, a)
	return resp, nil
}

func (s *gradingService) analyse(ctx context.Context, profile *dto.LearningProfile, local *dto.GradeResponse) (*analysis, error) {
	text, err := s.llm.GenerateJSON(ctx, analysisPrompt(profile, local))
	if err != nil {
		return nil, err
	}
	return parseAnalysis(text)
}

func parseAnalysis(text string) (*analysis, error) {
	raw, perr := cleanJSON(text)
	if perr != nil {
		return nil, perr
	}
	if err := validateAgainst("analysis", analysisSchema, raw); err != nil {
		return nil, newParseError(ParseErrorShape, string(raw), err)
	}
	var a analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, newParseError(ParseErrorShape, string(raw), fmt.Errorf("decode analysis: %w", err))
	}
	return &a, nil
}

// merge overrides the local placeholders field by field, then puts the local
// trend numbers back over whatever the model reported.
func (s *gradingService) merge(resp *dto.GradeResponse, a *analysis) {
	resp.PostTestLevel = s.levels.NormalizePostTestLevel(a.PostTestLevel)
	if lvl := strings.TrimSpace(a.CurrentLevel); lvl != "" {
		resp.CurrentLevel = lvl
	}
	if len(a.Recommendations) > 0 {
		resp.Recommendations = a.Recommendations
	}
	if len(a.WeakTopicsRefined) > 0 {
		resp.WeakTopics = a.WeakTopicsRefined
	}
	if a.ProficiencyPrediction != nil {
		resp.ProficiencyPrediction = a.ProficiencyPrediction
	}
	if a.MonitoringAlerts != nil {
		resp.MonitoringAlerts = a.MonitoringAlerts
	}
	if a.PersonalizedPlan != nil {
		a.PersonalizedPlan.ProgressSpeed.Trend = resp.Trend
		resp.PersonalizedPlan = a.PersonalizedPlan
	}
}
