package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePostTestLevel(t *testing.T) {
	levels := NewLevelScaleService()
	tests := []struct {
		in, want string
	}{
		{"TOEIC 605-780", "TOEIC 605-780"},
		{"  toeic   605-780 ", "TOEIC 605-780"},
		{"'IELTS 5.5-6.0'", "IELTS 5.5-6.0"},
		{"B1", LevelUnknown},
		{"TOEIC 600", LevelUnknown},
		{"", LevelUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, levels.NormalizePostTestLevel(tt.in))
		})
	}
}

func TestCEFRRange(t *testing.T) {
	levels := NewLevelScaleService()
	tests := []struct {
		level, difficulty string
		want              []string
	}{
		{"B1", "same", []string{"A2", "B1", "B2"}},
		{"b1", "harder", []string{"A2", "B1", "B2", "C1"}},
		{"B1", "easier", []string{"A1", "A2", "B1", "B2"}},
		{"A1", "same", []string{"A1", "A2"}},
		{"C2", "harder", []string{"C1", "C2"}},
		{"A2", "easier", []string{"A1", "A2", "B1"}},
		{"expert", "same", []string{"A2", "B1", "B2"}},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.difficulty, func(t *testing.T) {
			assert.Equal(t, tt.want, levels.CEFRRange(tt.level, tt.difficulty))
		})
	}
}

func TestLevelBuckets(t *testing.T) {
	buckets := LevelBuckets()
	assert.Len(t, buckets, 12)
	assert.Equal(t, "TOEIC 10-250", buckets[0])
	assert.Equal(t, "IELTS 8.5-9.0", buckets[11])
}
