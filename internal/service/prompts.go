package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lshigami/studyhub-ai/internal/dto"
)

var topicQuestionTypes = map[string]string{
	"multiple_choice": "Multiple-choice (4 options)",
	"fill_in_blank":   "Fill in the blank (Word Form with 4 options)",
	"rearrange":       "Sentence rearrangement",
	"essay":           "Essay (short/long)",
}

var defaultTopicQuestionTypes = []string{"multiple_choice", "fill_in_blank", "rearrange", "essay"}

func customTestPrompt(req dto.GenerateCustomTestRequest, batchSize int) string {
	toeic := "N/A"
	if req.ToeicScore != nil {
		toeic = fmt.Sprintf("%d", *req.ToeicScore)
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "same as level"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are an experienced English exam designer for %s tests.\n\n", req.ExamType))
	sb.WriteString(fmt.Sprintf("Generate %d questions based on the type: %q.\n", batchSize, req.QuestionRatio))
	sb.WriteString("Each question must reflect the student's learning profile:\n\n")
	sb.WriteString(fmt.Sprintf("- Current level: %s\n", req.CurrentLevel))
	sb.WriteString(fmt.Sprintf("- TOEIC score: %s\n", toeic))
	sb.WriteString(fmt.Sprintf("- Weak skills: %s\n", strings.Join(req.WeakSkills, ", ")))
	sb.WriteString(fmt.Sprintf("- Topics: %s\n", strings.Join(req.Topics, ", ")))
	sb.WriteString(fmt.Sprintf("- Difficulty: %s\n", difficulty))
	if req.TimeLimit != nil {
		sb.WriteString(fmt.Sprintf("- Time limit: %d minutes for the whole test\n", *req.TimeLimit))
	}

	sb.WriteString("\nQUESTION REQUIREMENTS\n")
	sb.WriteString("1. ALL questions MUST provide 4 distinct options.\n")
	sb.WriteString("2. Question, options and answer MUST be in English. The explanation MUST be in Vietnamese.\n")
	sb.WriteString("3. MCQ: standard multiple-choice. Gap-fill: the question contains _______ and a hint in parentheses (e.g. the root word). Never put the answer in the hint.\n")
	sb.WriteString("4. Keep explanations under 50 words and explain strictly why the answer is correct.\n\n")

	writeQuestionFormat(&sb, req.QuestionRatio, "Grammar or Vocabulary", "Topic Name")
	return sb.String()
}

func topicTestPrompt(req dto.GenerateTopicTestRequest, batchSize int) string {
	types := req.QuestionTypes
	if len(types) == 0 {
		types = defaultTopicQuestionTypes
	}
	chosen := make([]string, 0, len(types))
	for _, t := range types {
		if label, ok := topicQuestionTypes[t]; ok {
			chosen = append(chosen, label)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are an English teacher specialized in %s.\n", req.ExamType))
	sb.WriteString(fmt.Sprintf("Generate %d questions under the general theme %q.\n", batchSize, req.Topic))
	sb.WriteString(fmt.Sprintf("The required question types: %s.\n", strings.Join(chosen, ", ")))
	sb.WriteString(fmt.Sprintf("Target exam level: %s %s.\n\n", req.ExamType, req.ScoreRange))
	sb.WriteString("You MUST generate a mix of the requested question types unless only one type was requested.\n\n")
	sb.WriteString("Requirements for EACH question:\n")
	sb.WriteString("- The question and answers must be in English.\n")
	sb.WriteString(fmt.Sprintf("- Vocabulary and grammar must match the learner's %s %s level.\n", req.ExamType, req.ScoreRange))
	sb.WriteString("- The \"skill\" field is derived from the question type.\n")
	sb.WriteString("- For fill_in_blank the blank is ______ followed by the base form in parentheses, e.g. \"She drives very ______ (careful)\".\n")
	sb.WriteString("- The explanation MUST be written in Vietnamese, under 40 words.\n")
	sb.WriteString("- \"options\" is MANDATORY for every question type: exactly 4 distinct strings. For fill_in_blank give the answer plus 3 word-form distractors.\n\n")

	writeQuestionFormat(&sb, "multiple_choice", "Grammar", "Tenses")
	return sb.String()
}

func writeQuestionFormat(sb *strings.Builder, questionType, skill, topic string) {
	sb.WriteString("RESPONSE FORMAT\n")
	sb.WriteString("Return ONLY valid JSON (no markdown, no extra text):\n")
	sb.WriteString(fmt.Sprintf(`{
  "status": "success",
  "data": [
    {
      "type": %q,
      "skill": %q,
      "topic": [%q],
      "question": "Question text in English...",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "Correct option text",
      "explanation": "Explanation in Vietnamese..."
    }
  ]
}
`, questionType, skill, topic))
}

// analysisPrompt embeds the local grading result and trend and asks for the
// coaching plan. Numeric trend fields in the answer are overwritten later.
func analysisPrompt(profile *dto.LearningProfile, local *dto.GradeResponse) string {
	accuracy := 0.0
	if local.TotalQuestions > 0 {
		accuracy = float64(local.TotalScore) / float64(local.TotalQuestions) * 100
	}

	profileJSON := "{}"
	if profile != nil {
		p := *profile
		p.TestHistory = nil
		if b, err := json.Marshal(p); err == nil {
			profileJSON = string(b)
		}
	}
	weakTopics, _ := json.Marshal(local.WeakTopics)
	skills, _ := json.Marshal(local.SkillSummary)
	trend, _ := json.Marshal(local.Trend)

	var sb strings.Builder
	sb.WriteString("You are a senior language coach.\n")
	sb.WriteString("Task: analyse the student's mistakes and design a concrete study strategy.\n\n")
	sb.WriteString("LANGUAGE: answer 100% in Vietnamese. Translate skill names (Grammar -> Ngữ pháp, Vocabulary -> Từ vựng).\n")
	sb.WriteString("study_methods must name specific techniques (Spaced Repetition with Anki, Dictation, Shadowing, Active Recall, Feynman Technique, Pomodoro 25/5) with a concrete action each. Never write generic advice like \"watch videos\".\n\n")

	sb.WriteString("STRICT OUTPUT RULES for 'post_test_level':\n")
	sb.WriteString("Return exactly one of the strings below. Do NOT return CEFR levels such as 'A1' or 'B1'.\n")
	for _, bucket := range LevelBuckets() {
		sb.WriteString(fmt.Sprintf("- '%s'\n", bucket))
	}

	sb.WriteString("\nINPUT DATA:\n")
	sb.WriteString(fmt.Sprintf("- Profile: %s\n", profileJSON))
	sb.WriteString(fmt.Sprintf("- Score: %d/%d (%.1f%%)\n", local.TotalScore, local.TotalQuestions, accuracy))
	sb.WriteString(fmt.Sprintf("- Weak topics: %s\n", weakTopics))
	sb.WriteString(fmt.Sprintf("- Skill summary: %s\n", skills))
	sb.WriteString(fmt.Sprintf("- Trend (computed, copy these numbers verbatim): %s\n\n", trend))

	sb.WriteString(`JSON SCHEMA OUTPUT:
{
  "post_test_level": string,
  "current_level": string,
  "recommendations": [string],
  "weak_topics_refined": [string],
  "personalized_plan": {
    "progress_speed": {
      "category": string,
      "description": string,
      "trend": {
        "past_tests": int,
        "accuracy_growth_rate": float,
        "strong_skills": [string],
        "weak_skills": [string],
        "consistency_index": float
      },
      "predicted_reach_next_level_weeks": int,
      "recommendation": string
    },
    "weekly_goals": [
      {
        "week": int,
        "topic": string,
        "description": string,
        "study_methods": [string],
        "materials": [{"title": string, "url": string}],
        "hours": int
      }
    ]
  },
  "proficiency_prediction": {
    "skill_estimates": [
      {"skill": string, "current_level": string, "confidence": string, "predicted_gain_weeks": int}
    ]
  },
  "monitoring_alerts": [string]
}
`)
	return sb.String()
}

// bankTopUpPrompt asks for questions that fill a custom test the bank could
// not cover. Output uses the same question format as the other generators.
func bankTopUpPrompt(profile dto.Profile, levels []string, batchSize int) string {
	tags := append(append([]string{}, profile.PreferredTopics.Grammar...), profile.PreferredTopics.Vocabulary...)

	var sb strings.Builder
	sb.WriteString("You are a strict JSON generator for TOEIC/IELTS style practice.\n")
	sb.WriteString(fmt.Sprintf("Generate exactly %d questions for CEFR levels %s.\n", batchSize, strings.Join(levels, ", ")))
	if len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("Focus on these topics: %s.\n", strings.Join(tags, ", ")))
	}
	if len(profile.WeakSkills) > 0 {
		sb.WriteString(fmt.Sprintf("The learner is weak in: %s.\n", strings.Join(profile.WeakSkills, ", ")))
	}
	sb.WriteString("- type is \"mcq\" or \"gap\". Gap questions mark the blank with ____.\n")
	sb.WriteString("- skill is \"grammar\" or \"vocabulary\"; topic holds short tags like \"present_perfect\" or \"business_vocab\".\n")
	sb.WriteString("- Every question has exactly 4 options in English; answer is the correct option text.\n")
	sb.WriteString("- explanation is detailed and written in Vietnamese.\n\n")

	writeQuestionFormat(&sb, "mcq", "grammar", "present_perfect")
	return sb.String()
}
