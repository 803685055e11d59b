package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lshigami/studyhub-ai/internal/dto"
)

// fakeLLM answers every prompt with respond. It records call counts and the
// highest number of concurrent calls it saw.
type fakeLLM struct {
	respond func(call int, prompt string) (string, error)
	delay   time.Duration

	mu       sync.Mutex
	calls    int
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeLLM) generate(ctx context.Context, prompt string) (string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	call := f.calls
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.respond(call, prompt)
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f.generate(ctx, prompt)
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return f.generate(ctx, prompt)
}

func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// questionsJSON renders n valid questions whose text is "<prefix>-<i>".
func questionsJSON(prefix string, n int) string {
	items := make([]dto.GeneratedQuestion, n)
	for i := range items {
		items[i] = dto.GeneratedQuestion{
			Type:     "MCQ",
			Skill:    "Grammar",
			Topic:    []string{"Tenses"},
			Question: fmt.Sprintf("%s-%d", prefix, i),
			Options:  []string{"a", "b", "c", "d"},
			Answer:   "a",
		}
	}
	b, _ := json.Marshal(map[string]any{"status": "success", "data": items})
	return string(b)
}
