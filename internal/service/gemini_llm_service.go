package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/examprep/config"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// GeminiLLMService produces free-text study advice from a prompt.
type GeminiLLMService interface {
	Enabled() bool
	GenerateAdvice(ctx context.Context, prompt string) (string, error)
}

type geminiLLMService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiLLMService(lc fx.Lifecycle, cfg *config.Config) (GeminiLLMService, error) {
	if cfg.Gemini.ApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Study coaching is disabled.")
		return &geminiLLMService{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.Gemini.Model)
	m.SetTemperature(0.4)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return &geminiLLMService{client: client, model: m}, nil
}

func (s *geminiLLMService) Enabled() bool { return s.model != nil }

func (s *geminiLLMService) GenerateAdvice(ctx context.Context, prompt string) (string, error) {
	if s.model == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error while generating advice")
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return strings.TrimSpace(sb.String()), nil
}
