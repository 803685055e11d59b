package dto

// RecommendRequest carries a new student's weekly study time and six skill scores.
type RecommendRequest struct {
	TimeAvailable  int `json:"time_available" binding:"gte=0"`
	VocabScore     int `json:"vocab_score" binding:"gte=0"`
	GrammarScore   int `json:"grammar_score" binding:"gte=0"`
	ListeningScore int `json:"listening_score" binding:"gte=0"`
	SpeakingScore  int `json:"speaking_score" binding:"gte=0"`
	ReadingScore   int `json:"reading_score" binding:"gte=0"`
	WritingScore   int `json:"writing_score" binding:"gte=0"`
}

// Features returns the values in dataset column order.
func (r RecommendRequest) Features() [7]float64 {
	return [7]float64{
		float64(r.TimeAvailable),
		float64(r.VocabScore),
		float64(r.GrammarScore),
		float64(r.ListeningScore),
		float64(r.SpeakingScore),
		float64(r.ReadingScore),
		float64(r.WritingScore),
	}
}

type RecommendResponse struct {
	LearningPath string   `json:"learning_path"`
	NextLessons  []string `json:"next_lessons"`
	WeakSkills   []string `json:"weak_skills"`
	StudyStyle   string   `json:"study_style"`
	Schedule     string   `json:"schedule"`
}
