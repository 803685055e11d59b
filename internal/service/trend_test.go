package service

import (
	"testing"

	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/stretchr/testify/assert"
)

func TestComputeTrendWithoutHistory(t *testing.T) {
	trend := ComputeTrend(nil, 80, nil)

	assert.Equal(t, 0, trend.PastTests)
	assert.Equal(t, 0.0, trend.AccuracyGrowthRate)
	assert.Equal(t, 1.0, trend.ConsistencyIndex)
	assert.Equal(t, []float64{80}, trend.ScoresTrajectory)
	assert.Empty(t, trend.StrongSkills)
	assert.Empty(t, trend.WeakSkills)
}

func TestComputeTrendWithHistory(t *testing.T) {
	trend := ComputeTrend([]float64{50, 70}, 90, nil)

	assert.Equal(t, 2, trend.PastTests)
	assert.Equal(t, 13.33, trend.AccuracyGrowthRate)
	assert.InDelta(t, 0.2, trend.ConsistencyIndex, 1e-9)
	assert.Equal(t, []float64{50, 70, 90}, trend.ScoresTrajectory)
}

func TestComputeTrendConsistencyFloorsAtZero(t *testing.T) {
	trend := ComputeTrend([]float64{0, 100}, 0, nil)
	assert.Equal(t, 0.0, trend.ConsistencyIndex)
	assert.Equal(t, 0.0, trend.AccuracyGrowthRate)
}

func TestComputeTrendIdenticalScores(t *testing.T) {
	trend := ComputeTrend([]float64{60, 60}, 60, nil)
	assert.Equal(t, 1.0, trend.ConsistencyIndex)
}

func TestComputeTrendSkillBands(t *testing.T) {
	skills := []dto.SkillSummary{
		{Skill: "Grammar", Accuracy: 70},
		{Skill: "Vocabulary", Accuracy: 60},
		{Skill: "Reading", Accuracy: 49.99},
	}
	trend := ComputeTrend(nil, 60, skills)
	assert.Equal(t, []string{"Grammar"}, trend.StrongSkills)
	assert.Equal(t, []string{"Reading"}, trend.WeakSkills)
}

func TestHistoryScores(t *testing.T) {
	pct := 72.5
	history := []dto.TestHistoryItem{
		{ScorePercentage: &pct, TotalScore: 1, TotalQuestions: 100},
		{TotalScore: 8, TotalQuestions: 10},
		{TotalScore: 3},
	}
	assert.Equal(t, []float64{72.5, 80}, HistoryScores(history))
}
