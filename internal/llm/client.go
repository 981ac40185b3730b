package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-packer/internal/scoring"
)

var _ scoring.Embedder = (*GeminiClient)(nil)

// Generator produces JSON text from a prompt
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type embedFunc func(ctx context.Context, texts []string) ([][]float32, error)

// GeminiClient implements scoring.Embedder and Generator for Google Gemini
type GeminiClient struct {
	client  *genai.Client
	config  *Config
	embed   embedFunc
	breaker *Breaker[[][]float32]
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &GeminiClient{
		client:  client,
		config:  config,
		breaker: NewBreaker[[][]float32]("embed", config.Breaker),
	}
	c.embed = c.batchEmbed
	return c, nil
}

// EmbedTexts returns one embedding per input text, in input order.
// Texts are sent in batches no larger than the API allows.
func (c *GeminiClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	size := c.config.batchSize()

	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		batch := texts[start:end]

		vectors, err := c.breaker.Execute(func() ([][]float32, error) {
			return c.embed(ctx, batch)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to embed texts %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(batch), len(vectors))
		}
		out = append(out, vectors...)
	}

	return out, nil
}

func (c *GeminiClient) batchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	model := c.client.EmbeddingModel(c.config.EmbeddingModel)
	model.TaskType = genai.TaskTypeSemanticSimilarity

	b := model.NewBatch()
	for _, t := range texts {
		b.AddContent(genai.Text(t))
	}

	resp, err := model.BatchEmbedContents(ctx, b)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("empty embedding at position %d", i)
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}

// GenerateJSON generates JSON content with the generation model
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.config.GenerationModel)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}

	return CleanJSONBlock(text), nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// CleanJSONBlock removes markdown code fences around a JSON response
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		lang := text[:idx]
		if !strings.ContainsAny(lang, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
