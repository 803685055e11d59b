package service

import (
	"context"
	"encoding/json"
	"math/rand/v2"

	"github.com/lshigami/studyhub-ai/internal/cache"
	"github.com/lshigami/studyhub-ai/internal/dto"
	"github.com/rs/zerolog/log"
)

const (
	defaultCustomQuestions = 15
	defaultTopicQuestions  = 10
	defaultExamType        = "TOEIC"
	defaultQuestionRatio   = "MCQ"
)

type GenerationService interface {
	GenerateCustom(ctx context.Context, req dto.GenerateCustomTestRequest) ([]dto.GeneratedQuestion, error)
	GenerateByTopic(ctx context.Context, req dto.GenerateTopicTestRequest) ([]dto.GeneratedQuestion, error)
}

type generationService struct {
	orchestrator BatchOrchestrator
	cache        cache.GenerationCache
}

func NewGenerationService(orchestrator BatchOrchestrator, c cache.GenerationCache) GenerationService {
	if c == nil {
		c = cache.Disabled()
	}
	return &generationService{orchestrator: orchestrator, cache: c}
}

func (s *generationService) GenerateCustom(ctx context.Context, req dto.GenerateCustomTestRequest) ([]dto.GeneratedQuestion, error) {
	if req.NumQuestions == 0 {
		req.NumQuestions = defaultCustomQuestions
	}
	if req.ExamType == "" {
		req.ExamType = defaultExamType
	}
	if req.QuestionRatio == "" {
		req.QuestionRatio = defaultQuestionRatio
	}

	return s.cached(ctx, "custom", req, req.NumQuestions, func() ([]dto.GeneratedQuestion, error) {
		return s.orchestrator.Generate(ctx, req.NumQuestions, func(batchSize int) string {
			return customTestPrompt(req, batchSize)
		})
	})
}

// GenerateByTopic shuffles the options of every question after merging so the
// answer position carries no signal.
func (s *generationService) GenerateByTopic(ctx context.Context, req dto.GenerateTopicTestRequest) ([]dto.GeneratedQuestion, error) {
	if req.NumQuestions == 0 {
		req.NumQuestions = defaultTopicQuestions
	}
	if req.ExamType == "" {
		req.ExamType = defaultExamType
	}

	return s.cached(ctx, "topic", req, req.NumQuestions, func() ([]dto.GeneratedQuestion, error) {
		questions, err := s.orchestrator.Generate(ctx, req.NumQuestions, func(batchSize int) string {
			return topicTestPrompt(req, batchSize)
		})
		if err != nil {
			return nil, err
		}
		for i := range questions {
			shuffleOptions(questions[i].Options)
		}
		return questions, nil
	})
}

func shuffleOptions(options []string) {
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
}

// cached serves a request from the generation cache when possible. Only a
// complete result of want questions is stored, so a partial answer from a
// degraded model is never replayed. Cache failures are logged and otherwise
// ignored.
func (s *generationService) cached(ctx context.Context, kind string, req any, want int, generate func() ([]dto.GeneratedQuestion, error)) ([]dto.GeneratedQuestion, error) {
	key, err := cache.Key(kind, req)
	if err != nil {
		log.Warn().Err(err).Msg("Skipping generation cache")
		return generate()
	}

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("Generation cache read failed")
	} else if ok {
		var questions []dto.GeneratedQuestion
		if err := json.Unmarshal(raw, &questions); err == nil && len(questions) > 0 {
			log.Debug().Str("kind", kind).Int("questions", len(questions)).Msg("Generation cache hit")
			return questions, nil
		}
	}

	questions, err := generate()
	if err != nil {
		return nil, err
	}
	if len(questions) < want {
		log.Info().Str("kind", kind).Int("requested", want).Int("generated", len(questions)).Msg("Not caching partial generation")
		return questions, nil
	}
	if raw, err := json.Marshal(questions); err == nil {
		if err := s.cache.Set(ctx, key, raw); err != nil {
			log.Warn().Err(err).Str("kind", kind).Msg("Generation cache write failed")
		}
	}
	return questions, nil
}
