package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/lshigami/studyhub-ai/internal/dto"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	unknownSkill       = "Unknown"
	weakTopicsPerSkill = 2
	maxWeakTopics      = 3
)

var answerFolder = cases.Fold()

// NormalizeAnswer is the single answer normalization used for every
// comparison: NFKC, case fold, keep letters, digits, apostrophes and
// whitespace, collapse runs of whitespace.
func NormalizeAnswer(s string) string {
	s = answerFolder.String(norm.NFKC.String(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '’' || r == '‘':
			return '\''
		case r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			return r
		default:
			return -1
		}
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// AnswersMatch compares a given answer against the expected one. Expected
// answers made only of punctuation fall back to a trimmed, upper-cased
// comparison so they stay gradable.
func AnswersMatch(expected, given string) bool {
	want := NormalizeAnswer(expected)
	if want == "" {
		return displayAnswer(expected) == displayAnswer(given)
	}
	return want == NormalizeAnswer(given)
}

func displayAnswer(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// canonicalID matches "1", " 1", "01" and "1.0" to the same question.
func canonicalID(id string) string {
	id = strings.TrimSpace(id)
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if f, err := strconv.ParseFloat(id, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return id
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

type GradeResult struct {
	Correct      int
	Total        int
	PerQuestion  []dto.PerQuestionResult
	SkillSummary []dto.SkillSummary
	WeakTopics   []string
}

type skillTally struct {
	total, correct int
	mistakes       map[string]int
	topicOrder     []string
}

// Grade scores answers against the key. It is pure: the same key and answers
// always produce the same result, whatever the order of the key.
func Grade(key []dto.QuestionKey, answers map[string]string) (*GradeResult, error) {
	if err := validateAnswerKey(key); err != nil {
		return nil, err
	}

	given := make(map[string]string, len(answers))
	for id, ans := range answers {
		given[canonicalID(id)] = ans
	}

	res := &GradeResult{
		Total:       len(key),
		PerQuestion: make([]dto.PerQuestionResult, 0, len(key)),
	}
	tallies := make(map[string]*skillTally)
	var skillOrder []string

	for _, q := range key {
		ans, answered := given[canonicalID(string(q.ID))]
		correct := answered && AnswersMatch(q.Answer, ans)
		if correct {
			res.Correct++
		}

		expected := displayAnswer(q.Answer)
		pq := dto.PerQuestionResult{
			ID:             q.ID,
			Question:       q.Question,
			Correct:        correct,
			ExpectedAnswer: expected,
			Skill:          q.Skill,
			Topic:          q.Topic,
		}
		if answered && strings.TrimSpace(ans) != "" {
			shown := displayAnswer(ans)
			pq.UserAnswer = &shown
		}
		if !correct {
			got := "no answer"
			if pq.UserAnswer != nil {
				got = *pq.UserAnswer
			}
			pq.Explain = fmt.Sprintf("Expected %s but got %s", expected, got)
		}
		res.PerQuestion = append(res.PerQuestion, pq)

		skill := strings.TrimSpace(q.Skill)
		if skill == "" {
			skill = unknownSkill
		}
		t, ok := tallies[skill]
		if !ok {
			t = &skillTally{mistakes: make(map[string]int)}
			tallies[skill] = t
			skillOrder = append(skillOrder, skill)
		}
		t.total++
		if correct {
			t.correct++
		}
		if topic := strings.TrimSpace(q.Topic); topic != "" {
			if _, seen := t.mistakes[topic]; !seen {
				t.topicOrder = append(t.topicOrder, topic)
				t.mistakes[topic] = 0
			}
			if !correct {
				t.mistakes[topic]++
			}
		}
	}

	res.SkillSummary = make([]dto.SkillSummary, 0, len(skillOrder))
	var candidates []string
	for _, skill := range skillOrder {
		t := tallies[skill]
		accuracy := 0.0
		if t.total > 0 {
			accuracy = round2(float64(t.correct) / float64(t.total) * 100)
		}
		res.SkillSummary = append(res.SkillSummary, dto.SkillSummary{
			Skill:    skill,
			Total:    t.total,
			Correct:  t.correct,
			Accuracy: accuracy,
		})
		for _, topic := range t.weakest(weakTopicsPerSkill) {
			candidates = append(candidates, skill+" - "+topic)
		}
	}

	res.WeakTopics = dedupeCap(candidates, maxWeakTopics)
	return res, nil
}

// weakest returns up to n topics with at least one mistake, most mistakes
// first, ties in first-seen order.
func (t *skillTally) weakest(n int) []string {
	topics := make([]string, 0, len(t.topicOrder))
	for _, topic := range t.topicOrder {
		if t.mistakes[topic] > 0 {
			topics = append(topics, topic)
		}
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return t.mistakes[topics[i]] > t.mistakes[topics[j]]
	})
	if len(topics) > n {
		topics = topics[:n]
	}
	return topics
}

func dedupeCap(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, limit)
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

func validateAnswerKey(key []dto.QuestionKey) error {
	if len(key) == 0 {
		return NewValidationError("answer_key must contain at least one question")
	}
	var problems []string
	seen := make(map[string]struct{}, len(key))
	for i, q := range key {
		id := canonicalID(string(q.ID))
		if id == "" {
			problems = append(problems, fmt.Sprintf("answer_key[%d]: id is required", i))
			continue
		}
		if _, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("answer_key[%d]: duplicate id %s", i, id))
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(q.Answer) == "" {
			problems = append(problems, fmt.Sprintf("answer_key[%d]: answer is required", i))
		}
	}
	if len(problems) > 0 {
		return NewValidationError(problems...)
	}
	return nil
}
