package dto

// GeneratedQuestion is one question produced by the generative model. It is only
// shape-checked, never proven correct.
type GeneratedQuestion struct {
	Type        string   `json:"type"`
	Skill       string   `json:"skill"`
	Topic       []string `json:"topic"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// GenerateCustomTestRequest drives profile-based generation.
type GenerateCustomTestRequest struct {
	CurrentLevel  string   `json:"current_level" binding:"required"` // A2, B1, B2 ...
	ToeicScore    *int     `json:"toeic_score"`
	WeakSkills    []string `json:"weak_skills"`
	ExamType      string   `json:"exam_type" binding:"omitempty,oneof=TOEIC IELTS"`
	Topics        []string `json:"topics"`
	Difficulty    string   `json:"difficulty" binding:"omitempty,oneof=easier same harder"`
	QuestionRatio string   `json:"question_ratio"` // "MCQ" or "Gap-fill"
	NumQuestions  int      `json:"num_questions" binding:"omitempty,min=1,max=100"`
	TimeLimit     *int     `json:"time_limit"` // minutes
}

// GenerateTopicTestRequest drives theme-based generation.
type GenerateTopicTestRequest struct {
	Topic         string   `json:"topic" binding:"required"`
	NumQuestions  int      `json:"num_questions" binding:"omitempty,min=1,max=100"`
	QuestionTypes []string `json:"question_types" binding:"omitempty,dive,oneof=multiple_choice fill_in_blank rearrange essay"`
	ExamType      string   `json:"exam_type" binding:"omitempty,oneof=TOEIC IELTS"`
	ScoreRange    string   `json:"score_range"` // e.g. "405-600", "6.5-7.0"
}
