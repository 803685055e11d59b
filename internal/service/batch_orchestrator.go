package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/studyhub-ai/config"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PromptBuilder renders the generation prompt for one batch of the given size.
type PromptBuilder func(batchSize int) string

// BatchOrchestrator fans a question count out into fixed-size model calls and
// merges whatever comes back.
type BatchOrchestrator interface {
	Generate(ctx context.Context, total int, buildPrompt PromptBuilder) ([]dto.GeneratedQuestion, error)
}

type batchOrchestrator struct {
	llm         GeminiLLMService
	batchSize   int
	maxInFlight int
}

func NewBatchOrchestrator(cfg *config.Config, llm GeminiLLMService) BatchOrchestrator {
	return &batchOrchestrator{
		llm:         llm,
		batchSize:   cfg.Generation.BatchSize,
		maxInFlight: cfg.Generation.MaxInFlight,
	}
}

// SplitBatches splits total into chunks of at most size, in order.
// SplitBatches(12, 5) == [5 5 2]; a non-positive total yields no batches.
func SplitBatches(total, size int) []int {
	if total <= 0 || size <= 0 {
		return []int{}
	}
	batches := make([]int, 0, (total+size-1)/size)
	for remaining := total; remaining > 0; {
		take := min(remaining, size)
		batches = append(batches, take)
		remaining -= take
	}
	return batches
}

// Generate runs one model call per batch with at most maxInFlight calls in
// flight. A failed batch is logged and contributes nothing; the call only
// fails when every batch came back empty. Results keep dispatch order.
func (o *batchOrchestrator) Generate(ctx context.Context, total int, buildPrompt PromptBuilder) ([]dto.GeneratedQuestion, error) {
	if total <= 0 {
		return nil, NewValidationError("num_questions must be positive")
	}

	sizes := SplitBatches(total, o.batchSize)
	results := make([][]dto.GeneratedQuestion, len(sizes))

	var g errgroup.Group
	g.SetLimit(max(o.maxInFlight, 1))

	start := time.Now()
	for i, size := range sizes {
		g.Go(func() error {
			results[i] = o.runBatch(ctx, i, size, buildPrompt)
			// Batch failures never reach the group so siblings keep running.
			return nil
		})
	}
	_ = g.Wait()

	questions := make([]dto.GeneratedQuestion, 0, total)
	failed := 0
	for _, batch := range results {
		if len(batch) == 0 {
			failed++
		}
		questions = append(questions, batch...)
	}

	log.Info().
		Int("requested", total).
		Int("batches", len(sizes)).
		Int("failedBatches", failed).
		Int("generated", len(questions)).
		Dur("elapsed", time.Since(start)).
		Msg("Batch generation finished")

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: all %d batches failed", ErrNoQuestionsGenerated, len(sizes))
	}
	return questions, nil
}

func (o *batchOrchestrator) runBatch(ctx context.Context, index, size int, buildPrompt PromptBuilder) []dto.GeneratedQuestion {
	text, err := o.llm.GenerateText(ctx, buildPrompt(size))
	if err != nil {
		log.Warn().Err(err).Int("batch", index).Int("size", size).Msg("Generation batch failed")
		return nil
	}
	questions, err := ParseQuestions(text)
	if err != nil {
		log.Warn().Err(err).Int("batch", index).Int("size", size).Msg("Generation batch returned unusable output")
		return nil
	}
	return questions
}
