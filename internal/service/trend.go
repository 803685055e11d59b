package service

import (
	"math"

	"github.com/lshigami/studyhub-ai/internal/dto"
)

const (
	strongSkillAccuracy = 70.0
	weakSkillAccuracy   = 50.0
	consistencySpread   = 25.0
)

// HistoryScores turns past test records into score percentages. Items with
// neither a percentage nor a question count are skipped.
func HistoryScores(history []dto.TestHistoryItem) []float64 {
	scores := make([]float64, 0, len(history))
	for _, h := range history {
		switch {
		case h.ScorePercentage != nil:
			scores = append(scores, *h.ScorePercentage)
		case h.TotalQuestions > 0:
			scores = append(scores, h.TotalScore/float64(h.TotalQuestions)*100)
		}
	}
	return scores
}

// ComputeTrend appends current to history and summarises the sequence.
// Growth is (last-first)/n and consistency is max(0, 1-stdev/25) using the
// sample standard deviation. Fewer than two points is the stable default.
func ComputeTrend(history []float64, current float64, skills []dto.SkillSummary) dto.ProgressTrend {
	scores := make([]float64, 0, len(history)+1)
	scores = append(scores, history...)
	scores = append(scores, current)

	trend := dto.ProgressTrend{
		ConsistencyIndex: 1.0,
		ScoresTrajectory: scores,
		StrongSkills:     []string{},
		WeakSkills:       []string{},
	}
	for _, s := range skills {
		switch {
		case s.Accuracy >= strongSkillAccuracy:
			trend.StrongSkills = append(trend.StrongSkills, s.Skill)
		case s.Accuracy < weakSkillAccuracy:
			trend.WeakSkills = append(trend.WeakSkills, s.Skill)
		}
	}

	n := len(scores)
	if n < 2 {
		return trend
	}

	trend.PastTests = len(history)
	trend.AccuracyGrowthRate = round2((scores[n-1] - scores[0]) / float64(n))

	sd := sampleStdev(scores)
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		return trend
	}
	trend.ConsistencyIndex = round2(math.Max(0, 1-sd/consistencySpread))
	return trend
}

func sampleStdev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	ss := 0.0
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
