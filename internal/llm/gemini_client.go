package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dileep-u-k/weather-chat/internal/tools"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// GeminiConfig selects the model and its generation limits.
type GeminiConfig struct {
	APIKey          string
	ModelID         string
	MaxOutputTokens int
}

// GeminiClient is a ChatModel backed by Google's Gemini API, with the tool
// declarations registered at construction.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger zerolog.Logger
}

var _ ChatModel = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, cfg GeminiConfig, declarations []tools.Declaration, logger zerolog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.ModelID)
	model.SetMaxOutputTokens(int32(cfg.MaxOutputTokens))
	model.Tools = toGeminiTools(declarations)

	logger.Info().
		Str("model", cfg.ModelID).
		Int("tools", len(declarations)).
		Msg("generative model initialized with function declarations")

	return &GeminiClient{
		client: client,
		model:  model,
		logger: logger.With().Str("component", "gemini").Logger(),
	}, nil
}

// StartChat opens a fresh session with no history.
func (c *GeminiClient) StartChat() ChatSession {
	return &geminiSession{chat: c.model.StartChat(), logger: c.logger}
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// messageSender is the part of *genai.ChatSession a session depends on.
type messageSender interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type geminiSession struct {
	chat   messageSender
	logger zerolog.Logger
}

func (s *geminiSession) SendText(ctx context.Context, text string) (*Response, error) {
	return s.send(ctx, genai.Text(text))
}

func (s *geminiSession) SendToolResult(ctx context.Context, name string, payload map[string]any) (*Response, error) {
	return s.send(ctx, genai.FunctionResponse{Name: name, Response: payload})
}

func (s *geminiSession) send(ctx context.Context, part genai.Part) (*Response, error) {
	resp, err := s.chat.SendMessage(ctx, part)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", classifyError(err))
	}
	result := parseGeminiResponse(resp)
	s.logger.Debug().
		Int("tool_calls", len(result.ToolCalls)).
		Bool("has_text", result.Text != nil).
		Msg("gemini response received")
	return result, nil
}

// toGeminiTools converts the tool declarations to the SDK's format.
func toGeminiTools(declarations []tools.Declaration) []*genai.Tool {
	if len(declarations) == 0 {
		return nil
	}
	funcs := make([]*genai.FunctionDeclaration, 0, len(declarations))
	for _, d := range declarations {
		funcs = append(funcs, &genai.FunctionDeclaration{
			Name:        string(d.Name),
			Description: d.Description,
			Parameters:  convertSchema(d.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: funcs}}
}

// convertSchema converts a JSONSchema to the SDK's schema type.
func convertSchema(s tools.JSONSchema) *genai.Schema {
	genaiSchema := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
	}
	switch s.Type {
	case "object":
		genaiSchema.Type = genai.TypeObject
	case "string":
		genaiSchema.Type = genai.TypeString
	case "number":
		genaiSchema.Type = genai.TypeNumber
	case "integer":
		genaiSchema.Type = genai.TypeInteger
	case "boolean":
		genaiSchema.Type = genai.TypeBoolean
	}
	if s.Properties != nil {
		genaiSchema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			genaiSchema.Properties[k] = convertSchema(*v)
		}
	}
	return genaiSchema
}

// parseGeminiResponse reads the first candidate's parts into a Response.
// Text is left nil when the candidate carries no text part at all.
func parseGeminiResponse(resp *genai.GenerateContentResponse) *Response {
	result := &Response{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return result
	}

	var (
		textBuilder strings.Builder
		sawText     bool
	)
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			sawText = true
			textBuilder.WriteString(string(v))
		case genai.FunctionCall:
			result.ToolCalls = append(result.ToolCalls, tools.Call{Name: v.Name, Args: v.Args})
		}
	}
	if sawText {
		text := textBuilder.String()
		result.Text = &text
	}
	return result
}
