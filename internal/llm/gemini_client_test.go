package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dileep-u-k/weather-chat/internal/tools"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func candidate(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}},
	}
}

type recordingSender struct {
	sent  [][]genai.Part
	reply *genai.GenerateContentResponse
	err   error
}

func (r *recordingSender) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	r.sent = append(r.sent, parts)
	return r.reply, r.err
}

func TestParseGeminiResponseText(t *testing.T) {
	got := parseGeminiResponse(candidate(genai.Text("It is "), genai.Text("sunny.")))

	text, ok := got.FinalText()
	require.True(t, ok)
	require.Equal(t, "It is sunny.", text)
	_, ok = got.FirstToolCall()
	require.False(t, ok)
}

func TestParseGeminiResponseToolCalls(t *testing.T) {
	got := parseGeminiResponse(candidate(
		genai.FunctionCall{Name: "getWeather", Args: map[string]any{"location": "Paris"}},
		genai.FunctionCall{Name: "echo", Args: map[string]any{"message": "hi"}},
	))

	require.Len(t, got.ToolCalls, 2)
	first, ok := got.FirstToolCall()
	require.True(t, ok)
	require.Equal(t, tools.Call{Name: "getWeather", Args: map[string]any{"location": "Paris"}}, first)
	_, ok = got.FinalText()
	require.False(t, ok)
}

func TestParseGeminiResponseEmpty(t *testing.T) {
	for _, resp := range []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
	} {
		got := parseGeminiResponse(resp)
		require.Empty(t, got.ToolCalls)
		require.Nil(t, got.Text)
	}
}

func TestResponseHelpersOnNil(t *testing.T) {
	var r *Response
	_, ok := r.FirstToolCall()
	require.False(t, ok)
	_, ok = r.FinalText()
	require.False(t, ok)
}

func TestToGeminiTools(t *testing.T) {
	got := toGeminiTools([]tools.Declaration{tools.WeatherDeclaration, tools.EchoDeclaration})

	require.Len(t, got, 1)
	decls := got[0].FunctionDeclarations
	require.Len(t, decls, 2)
	require.Equal(t, "getWeather", decls[0].Name)
	require.Equal(t, genai.TypeObject, decls[0].Parameters.Type)
	require.Equal(t, []string{"location"}, decls[0].Parameters.Required)
	require.Equal(t, genai.TypeString, decls[0].Parameters.Properties["location"].Type)
	require.Equal(t, "echo", decls[1].Name)

	require.Nil(t, toGeminiTools(nil))
}

func TestConvertSchemaNested(t *testing.T) {
	got := convertSchema(tools.JSONSchema{
		Type: "object",
		Properties: map[string]*tools.JSONSchema{
			"count": {Type: "integer"},
			"ratio": {Type: "number"},
			"flag":  {Type: "boolean"},
		},
	})
	require.Equal(t, genai.TypeInteger, got.Properties["count"].Type)
	require.Equal(t, genai.TypeNumber, got.Properties["ratio"].Type)
	require.Equal(t, genai.TypeBoolean, got.Properties["flag"].Type)
}

func TestSessionSendsToolResultAsFunctionResponse(t *testing.T) {
	sender := &recordingSender{reply: candidate(genai.Text("done"))}
	session := &geminiSession{chat: sender, logger: zerolog.Nop()}

	resp, err := session.SendToolResult(context.Background(), "echo", map[string]any{"result": "hi"})
	require.NoError(t, err)

	text, ok := resp.FinalText()
	require.True(t, ok)
	require.Equal(t, "done", text)
	require.Equal(t, [][]genai.Part{{genai.FunctionResponse{Name: "echo", Response: map[string]any{"result": "hi"}}}}, sender.sent)
}

func TestSessionSendText(t *testing.T) {
	sender := &recordingSender{reply: candidate(genai.Text("hello"))}
	session := &geminiSession{chat: sender, logger: zerolog.Nop()}

	_, err := session.SendText(context.Background(), "hi there")
	require.NoError(t, err)
	require.Equal(t, [][]genai.Part{{genai.Text("hi there")}}, sender.sent)
}

// wrapAPIError converts err into the *apierror.APIError the SDK surfaces.
func wrapAPIError(t *testing.T, err error) error {
	t.Helper()
	apiErr, ok := apierror.FromError(err)
	require.True(t, ok)
	return fmt.Errorf("generateContent: %w", apiErr)
}

func TestSessionClassifiesUnavailable(t *testing.T) {
	tests := map[string]error{
		"googleapi 503": &googleapi.Error{Code: http.StatusServiceUnavailable, Message: "overloaded"},
		"grpc":          status.Error(codes.Unavailable, "try later"),
		"apierror http": wrapAPIError(t, &googleapi.Error{Code: http.StatusServiceUnavailable, Message: "overloaded"}),
		"apierror grpc": wrapAPIError(t, status.Error(codes.Unavailable, "try later")),
	}
	for name, providerErr := range tests {
		t.Run(name, func(t *testing.T) {
			session := &geminiSession{chat: &recordingSender{err: providerErr}, logger: zerolog.Nop()}
			_, err := session.SendText(context.Background(), "hi")
			require.ErrorIs(t, err, ErrServiceUnavailable)
		})
	}
}

func TestIsUnavailableReadsAPIErrorCodes(t *testing.T) {
	unavailable, ok := apierror.FromError(&googleapi.Error{Code: http.StatusServiceUnavailable})
	require.True(t, ok)
	require.Equal(t, http.StatusServiceUnavailable, unavailable.HTTPCode())
	require.True(t, isUnavailable(unavailable))

	notFound, ok := apierror.FromError(&googleapi.Error{Code: http.StatusNotFound})
	require.True(t, ok)
	require.False(t, isUnavailable(notFound))
}

func TestSessionPassesOtherErrorsThrough(t *testing.T) {
	providerErr := &googleapi.Error{Code: http.StatusBadRequest, Message: "bad"}
	session := &geminiSession{chat: &recordingSender{err: providerErr}, logger: zerolog.Nop()}

	_, err := session.SendText(context.Background(), "hi")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrServiceUnavailable))

	var gErr *googleapi.Error
	require.ErrorAs(t, err, &gErr)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{}, nil, zerolog.Nop())
	require.Error(t, err)
}
