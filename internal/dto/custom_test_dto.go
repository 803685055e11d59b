package dto

import "time"

type PreferredTopics struct {
	Grammar    []string `json:"grammar"`
	Vocabulary []string `json:"vocabulary"`
}

// Profile is the learner snapshot a custom test is built for.
type Profile struct {
	CurrentLevel    string          `json:"currentLevel" binding:"required"` // CEFR, A1..C2
	ToeicScore      *int            `json:"toeicScore,omitempty"`
	WeakSkills      []string        `json:"weakSkills"`
	Goals           []string        `json:"goals"`
	PreferredTopics PreferredTopics `json:"preferredTopics"`
}

type TestPreferences struct {
	QuestionRatio        map[string]int `json:"questionRatio"` // percentages keyed by "mcq" and "gap"
	NumQuestions         int            `json:"numQuestions" binding:"omitempty,min=1,max=100"`
	DifficultyPreference string         `json:"difficultyPreference" binding:"omitempty,oneof=easier same harder"`
	TimeLimit            *int           `json:"timeLimit,omitempty"`
}

type CreateCustomTestRequest struct {
	UserID          string          `json:"userId" binding:"required"`
	Profile         Profile         `json:"profile" binding:"required"`
	TestPreferences TestPreferences `json:"testPreferences"`
}

type QuestionDistribution struct {
	MCQ int `json:"mcq"`
	Gap int `json:"gap"`
}

type CustomTestSummary struct {
	Total        int                  `json:"total"`
	Distribution QuestionDistribution `json:"distribution"`
	EstTimeMin   int                  `json:"estTimeMin"`
}

type CustomTestSummaryDTO struct {
	TestID  string            `json:"testId"`
	Summary CustomTestSummary `json:"summary"`
}

// BankQuestionDTO is a question bank document as clients send and tests store it.
type BankQuestionDTO struct {
	ID           string   `json:"id"`
	Type         string   `json:"type" binding:"required,oneof=mcq gap"`
	Level        string   `json:"level" binding:"required"`
	Tags         []string `json:"tags"`
	Skills       []string `json:"skills"`
	Text         string   `json:"text" binding:"required"`
	Options      []string `json:"options,omitempty"`
	Answers      []string `json:"answers" binding:"required,min=1"`
	Explanation  string   `json:"explanation,omitempty"`
	TimeEstimate int      `json:"time_estimate,omitempty"` // seconds
}

// PublicQuestionDTO is a test question with its answers removed.
type PublicQuestionDTO struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Level        string   `json:"level"`
	Tags         []string `json:"tags"`
	Skills       []string `json:"skills"`
	Text         string   `json:"text"`
	Options      []string `json:"options,omitempty"`
	TimeEstimate int      `json:"time_estimate,omitempty"`
}

type TestQuestionsDTO struct {
	TestID    string              `json:"testId"`
	Questions []PublicQuestionDTO `json:"questions"`
}

type MCQAnswer struct {
	QuestionID     string `json:"questionId" binding:"required"`
	SelectedOption string `json:"selectedOption"`
}

type GapAnswer struct {
	QuestionID string `json:"questionId" binding:"required"`
	Text       string `json:"text"`
}

type SubmitAttemptRequest struct {
	TestID     string      `json:"testId" binding:"required"`
	UserID     string      `json:"userId" binding:"required"`
	MCQAnswers []MCQAnswer `json:"mcqAnswers" binding:"dive"`
	GapAnswers []GapAnswer `json:"gapAnswers" binding:"dive"`
}

type WeaknessDTO struct {
	Skill    string  `json:"skill"`
	Pct      float64 `json:"pct"`
	Severity string  `json:"severity"` // "medium" below 60%, "high" below 40%
}

type AttemptResultDTO struct {
	ID          string             `json:"id"`
	TestID      string             `json:"testId"`
	UserID      string             `json:"userId"`
	Correct     int                `json:"correct"`
	Total       int                `json:"total"`
	Pct         float64            `json:"pct"`
	SkillPct    map[string]float64 `json:"skillPct"`
	Weaknesses  []WeaknessDTO      `json:"weaknesses"`
	SubmittedAt time.Time          `json:"submittedAt"`
}

type AttemptResponse struct {
	AttemptID string           `json:"attemptId"`
	Result    AttemptResultDTO `json:"result"`
}
