// Package llm wraps the generative-model provider behind a small chat API:
// start a session, send the user's text, send back a tool result.
package llm

import (
	"context"

	"github.com/dileep-u-k/weather-chat/internal/tools"
)

// Response is one model turn. Either field may be absent: a turn can ask
// for tool calls, carry final text, both, or neither.
type Response struct {
	// ToolCalls holds the calls the model requested, in the order given.
	ToolCalls []tools.Call
	// Text is the concatenated text of the turn, or nil when there is none.
	Text *string
}

// FirstToolCall returns the first requested call, if any.
func (r *Response) FirstToolCall() (tools.Call, bool) {
	if r == nil || len(r.ToolCalls) == 0 {
		return tools.Call{}, false
	}
	return r.ToolCalls[0], true
}

// FinalText returns the turn's text, if any.
func (r *Response) FinalText() (string, bool) {
	if r == nil || r.Text == nil {
		return "", false
	}
	return *r.Text, true
}

// ChatSession is one conversation with the model. It lives for a single
// request and is not safe for concurrent use.
type ChatSession interface {
	// SendText sends a user message.
	SendText(ctx context.Context, text string) (*Response, error)
	// SendToolResult returns the output of the named tool to the model.
	SendToolResult(ctx context.Context, name string, payload map[string]any) (*Response, error)
}

// ChatModel is a model configured once per process with the tool declarations.
type ChatModel interface {
	StartChat() ChatSession
}
