package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/studyhub-ai/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiLLMService is the generative-model collaborator. GenerateText uses the
// plain generation model, GenerateJSON the JSON-mode enrichment model.
type GeminiLLMService interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Close() error
}

type geminiLLMService struct {
	client            *genai.Client
	generator         *genai.GenerativeModel
	analyst           *genai.GenerativeModel
	generationTimeout time.Duration
	analysisTimeout   time.Duration
}

func NewGeminiLLMService(cfg *config.Config) (GeminiLLMService, error) {
	s := &geminiLLMService{
		generationTimeout: cfg.Generation.Timeout,
		analysisTimeout:   cfg.Gemini.EnrichmentTimeout,
	}
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiLLMService will be non-functional.")
		return s, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	s.client = client
	s.generator = client.GenerativeModel(cfg.Gemini.Model)

	s.analyst = client.GenerativeModel(cfg.Gemini.Model)
	s.analyst.ResponseMIMEType = "application/json"
	s.analyst.SetTemperature(0.3)

	log.Info().Str("model", cfg.Gemini.Model).Msg("Gemini client initialized")
	return s, nil
}

func (s *geminiLLMService) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, s.generator, s.generationTimeout, prompt)
}

func (s *geminiLLMService) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, s.analyst, s.analysisTimeout, prompt)
}

func (s *geminiLLMService) generate(ctx context.Context, m *genai.GenerativeModel, timeout time.Duration, prompt string) (string, error) {
	if m == nil {
		return "", ErrModelUnavailable
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

func (s *geminiLLMService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
