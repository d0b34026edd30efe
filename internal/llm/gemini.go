package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.0-pro",
}

// GeminiProvider chats through the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: resolveModel(cfg.Model, geminiModels)}, nil
}

func (p *GeminiProvider) Chat(ctx context.Context, req ChatRequest) (*Reply, error) {
	config := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, geminiContents(req.Turns()), config)
	if err != nil {
		// The SDK returns APIError by value.
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, statusError(ProviderGemini, apiErr.Code, err)
		}
		return nil, statusError(ProviderGemini, 0, err)
	}

	reply := &Reply{Text: result.Text(), Model: p.model}
	if result.UsageMetadata != nil {
		reply.Usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
		}
	}
	if len(result.Candidates) > 0 {
		reply.Truncated = result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens
	}
	return finish(ProviderGemini, reply)
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

func geminiContents(turns []Turn) []*genai.Content {
	out := make([]*genai.Content, len(turns))
	for i, t := range turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == RoleTutor {
			role = genai.RoleModel
		}
		out[i] = genai.NewContentFromText(t.Text, role)
	}
	return out
}
