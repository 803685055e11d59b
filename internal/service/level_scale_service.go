package service

import (
	"strings"
)

// Level buckets the analysis model may report as post_test_level.
var (
	toeicBuckets = []string{
		"TOEIC 10-250",
		"TOEIC 255-400",
		"TOEIC 405-600",
		"TOEIC 605-780",
		"TOEIC 785-900",
		"TOEIC 905-990",
	}
	ieltsBuckets = []string{
		"IELTS 0-3.5",
		"IELTS 4.0-5.0",
		"IELTS 5.5-6.0",
		"IELTS 6.5-7.0",
		"IELTS 7.5-8.0",
		"IELTS 8.5-9.0",
	}
)

// CEFR levels in ascending order.
var cefrOrder = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

const (
	LevelUnknown        = "Unknown"
	LevelUnknownAIError = "Unknown (AI Error)"
	defaultCEFRIndex    = 2 // B1
)

// LevelBuckets returns every accepted post-test level string, TOEIC first.
func LevelBuckets() []string {
	out := make([]string, 0, len(toeicBuckets)+len(ieltsBuckets))
	out = append(out, toeicBuckets...)
	return append(out, ieltsBuckets...)
}

type LevelScaleService interface {
	// NormalizePostTestLevel maps a model-reported level onto the canonical
	// bucket string, or LevelUnknown when it is not one of the buckets.
	NormalizePostTestLevel(level string) string
	// CEFRRange returns the CEFR levels a custom test draws from, ascending.
	CEFRRange(level, difficulty string) []string
}

type levelScaleService struct {
	buckets map[string]string // upper-cased bucket -> canonical
}

func NewLevelScaleService() LevelScaleService {
	buckets := make(map[string]string)
	for _, b := range LevelBuckets() {
		buckets[strings.ToUpper(b)] = b
	}
	return &levelScaleService{buckets: buckets}
}

func (s *levelScaleService) NormalizePostTestLevel(level string) string {
	key := strings.ToUpper(strings.Join(strings.Fields(strings.Trim(level, ` '"`)), " "))
	if canonical, ok := s.buckets[key]; ok {
		return canonical
	}
	return LevelUnknown
}

// CEFRRange covers the level itself and one step either side. "harder" also
// admits two steps up, "easier" two steps down. Unknown levels count as B1.
func (s *levelScaleService) CEFRRange(level, difficulty string) []string {
	idx := defaultCEFRIndex
	for i, l := range cefrOrder {
		if strings.EqualFold(strings.TrimSpace(level), l) {
			idx = i
			break
		}
	}

	lo, hi := max(idx-1, 0), min(idx+1, len(cefrOrder)-1)
	switch difficulty {
	case "harder":
		hi = min(idx+2, len(cefrOrder)-1)
	case "easier":
		lo = max(idx-2, 0)
	}

	out := make([]string, 0, hi-lo+1)
	return append(out, cefrOrder[lo:hi+1]...)
}
