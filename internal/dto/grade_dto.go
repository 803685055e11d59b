package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// QuestionID accepts both JSON numbers and strings ("1" and 1 are the same id).
type QuestionID string

func (id *QuestionID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = QuestionID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("question id must be a number or string: %w", err)
	}
	*id = QuestionID(n.String())
	return nil
}

// MarshalJSON writes integer ids as numbers and everything else as strings.
func (id QuestionID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// QuestionKey is one entry of the answer key.
type QuestionKey struct {
	ID       QuestionID `json:"id" binding:"required"`
	Question string     `json:"question,omitempty"`
	Answer   string     `json:"answer" binding:"required"`
	Skill    string     `json:"skill,omitempty"`
	Topic    string     `json:"topic,omitempty"`
}

type TestInfo struct {
	Title          string `json:"title,omitempty"`
	TotalQuestions *int   `json:"total_questions,omitempty"`
}

type TestHistoryItem struct {
	TestDate        string              `json:"test_date,omitempty"`
	LevelAtTest     string              `json:"level_at_test,omitempty"`
	TotalScore      float64             `json:"total_score"`
	TotalQuestions  int                 `json:"total_questions"`
	ScorePercentage *float64            `json:"score_percentage,omitempty"`
	PerQuestion     []PerQuestionResult `json:"per_question,omitempty"`
	WeakTopics      []string            `json:"weak_topics,omitempty"`
}

type LearningProfile struct {
	StudentID           string            `json:"student_id"`
	Name                string            `json:"name"`
	CurrentLevel        string            `json:"current_level"`
	StudyHoursPerWeek   int               `json:"study_hours_per_week"`
	LearningGoals       string            `json:"learning_goals"`
	LearningPreferences []string          `json:"learning_preferences"`
	StudyMethods        []string          `json:"study_methods"`
	TestHistory         []TestHistoryItem `json:"test_history"`
}

type GradeRequest struct {
	TestInfo       *TestInfo         `json:"test_info"`
	AnswerKey      []QuestionKey     `json:"answer_key" binding:"required,min=1,dive"`
	StudentAnswers map[string]string `json:"student_answers"`
	UseGemini      bool              `json:"use_gemini"`
	Profile        *LearningProfile  `json:"profile"`
}

type PerQuestionResult struct {
	ID             QuestionID `json:"id"`
	Question       string     `json:"question,omitempty"`
	Correct        bool       `json:"correct"`
	ExpectedAnswer string     `json:"expected_answer"`
	UserAnswer     *string    `json:"user_answer"`
	Skill          string     `json:"skill,omitempty"`
	Topic          string     `json:"topic,omitempty"`
	Explain        string     `json:"explain"`
}

type SkillSummary struct {
	Skill    string  `json:"skill"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// ProgressTrend is the locally computed trend. The numeric fields always come
// from the local estimator, never from the model.
type ProgressTrend struct {
	PastTests          int       `json:"past_tests"`
	AccuracyGrowthRate float64   `json:"accuracy_growth_rate"`
	StrongSkills       []string  `json:"strong_skills"`
	WeakSkills         []string  `json:"weak_skills"`
	ConsistencyIndex   float64   `json:"consistency_index"`
	ScoresTrajectory   []float64 `json:"scores_trajectory"`
}

type ProgressSpeed struct {
	Category                     string        `json:"category"`
	Description                  string        `json:"description"`
	Trend                        ProgressTrend `json:"trend"`
	PredictedReachNextLevelWeeks int           `json:"predicted_reach_next_level_weeks"`
	Recommendation               string        `json:"recommendation"`
}

// Material tolerates both {"title","url"} objects and bare strings.
type Material struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

func (m *Material) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &m.Title)
	}
	type plain Material
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*m = Material(p)
	return nil
}

type WeeklyGoal struct {
	Week         int        `json:"week"`
	Topic        string     `json:"topic"`
	Description  string     `json:"description"`
	StudyMethods []string   `json:"study_methods"`
	Materials    []Material `json:"materials"`
	Hours        int        `json:"hours"`
}

type PersonalizedPlan struct {
	ProgressSpeed ProgressSpeed `json:"progress_speed"`
	WeeklyGoals   []WeeklyGoal  `json:"weekly_goals"`
}

type SkillEstimate struct {
	Skill              string `json:"skill"`
	CurrentLevel       string `json:"current_level"`
	Confidence         string `json:"confidence"`
	PredictedGainWeeks int    `json:"predicted_gain_weeks"`
}

type ProficiencyPrediction struct {
	SkillEstimates []SkillEstimate `json:"skill_estimates"`
}

type GradeResponse struct {
	TotalScore     int                 `json:"total_score"`
	TotalQuestions int                 `json:"total_questions"`
	PerQuestion    []PerQuestionResult `json:"per_question"`
	SkillSummary   []SkillSummary      `json:"skill_summary"`
	WeakTopics     []string            `json:"weak_topics"`

	CurrentLevel          string                 `json:"current_level"`
	PostTestLevel         string                 `json:"post_test_level"`
	Recommendations       []string               `json:"recommendations,omitempty"`
	PersonalizedPlan      *PersonalizedPlan      `json:"personalized_plan,omitempty"`
	ProficiencyPrediction *ProficiencyPrediction `json:"proficiency_prediction,omitempty"`
	MonitoringAlerts      []string               `json:"monitoring_alerts"`
	Trend                 ProgressTrend          `json:"trend_analysis"`
}
