package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/vladimiradmaev/care-planner/internal/config"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
)

const (
	defaultGeminiModel = "gemini-1.5-flash"
	defaultOpenAIModel = "gpt-4o-mini"
)

// NewAIClient builds the configured provider. AI_PROVIDER=none returns a nil
// client and callers fall back to the rule-based estimator.
func NewAIClient(ctx context.Context, cfg *config.Config) (domain.AIClient, error) {
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.AI.Model)
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.AI.Model), nil
	case config.ProviderNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}

// GeminiClient implements domain.AIClient on the Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Name() string { return config.ProviderGemini }

func (c *GeminiClient) Close() error { return c.client.Close() }

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, genai.Text(prompt))
}

func (c *GeminiClient) GenerateStructured(ctx context.Context, prompt string, image []byte) ([]byte, error) {
	parts := []genai.Part{genai.Text(prompt)}
	if len(image) > 0 {
		format := strings.TrimPrefix(http.DetectContentType(image), "image/")
		parts = append([]genai.Part{genai.ImageData(format, image)}, parts...)
	}

	text, err := c.generate(ctx, parts...)
	if err != nil {
		return nil, err
	}
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return nil, apperrors.NewExternalAPIError(errors.New("no valid JSON found in response"), c.Name())
	}
	return []byte(jsonStr), nil
}

func (c *GeminiClient) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", providerError(err, c.Name())
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperrors.NewExternalAPIError(errors.New("empty response"), c.Name())
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// OpenAIClient implements domain.AIClient on the OpenAI chat completions API
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIClient{client: openai.NewClient(apiKey), model: model}
}

func (c *OpenAIClient) Name() string { return config.ProviderOpenAI }

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", providerError(err, c.Name())
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewExternalAPIError(errors.New("empty response"), c.Name())
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) GenerateStructured(ctx context.Context, prompt string, image []byte) ([]byte, error) {
	message := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(image) > 0 {
		dataURL := "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
		message.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
		}
	} else {
		message.Content = prompt
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          c.model,
		Messages:       []openai.ChatCompletionMessage{message},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return nil, providerError(err, c.Name())
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewExternalAPIError(errors.New("empty response"), c.Name())
	}

	jsonStr := extractJSON(resp.Choices[0].Message.Content)
	if jsonStr == "" {
		return nil, apperrors.NewExternalAPIError(errors.New("no valid JSON found in response"), c.Name())
	}
	return []byte(jsonStr), nil
}

// providerError maps a provider failure onto the rate-limit or external API error type
func providerError(err error, api string) error {
	if isRateLimited(err) {
		return apperrors.NewRateLimitError(err, api)
	}
	return apperrors.NewExternalAPIError(err, api)
}

var rateLimitSignals = []string{"429", "quota", "resource exhausted", "resource_exhausted", "resourceexhausted", "rate limit"}

// isRateLimited recognises rate-limit refusals from either provider
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.IsType(err, apperrors.ErrorTypeRateLimit) {
		return true
	}

	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) && openaiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) && googleErr.Code == http.StatusTooManyRequests {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, signal := range rateLimitSignals {
		if strings.Contains(msg, signal) {
			return true
		}
	}
	return false
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
