// Package chat serves the query endpoint: it relays one user query to the
// model, runs at most one requested tool, and returns the model's answer.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dileep-u-k/weather-chat/internal/api"
	"github.com/dileep-u-k/weather-chat/internal/errorsx"
	"github.com/dileep-u-k/weather-chat/internal/llm"
	"github.com/dileep-u-k/weather-chat/internal/tools"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Client-facing messages.
const (
	MsgNoQuery             = "No query provided."
	MsgInvalidParameters   = "Invalid function call parameters."
	MsgNoModelResponse     = "Failed to retrieve response from the model."
	MsgNoFinalResponse     = "Failed to retrieve final response from the model."
	MsgServiceUnavailable  = "The service is currently unavailable. Please try again later."
	MsgInternalServerError = "An internal server error occurred."
)

// Flow states, used for logging.
const (
	stateModelCalled     = "model_called"
	stateNoToolRequested = "no_tool_requested"
	stateToolRequested   = "tool_requested"
	stateArgsValidated   = "args_validated"
	stateToolExecuted    = "tool_executed"
	stateFollowUpSent    = "follow_up_sent"
	stateTextReady       = "text_ready"
)

// ToolInvoker runs a validated tool invocation.
type ToolInvoker interface {
	Invoke(ctx context.Context, inv tools.Invocation) (tools.Output, error)
}

// Handler orchestrates a single query against the model and the tools.
type Handler struct {
	model  llm.ChatModel
	tools  ToolInvoker
	logger zerolog.Logger
}

func NewHandler(model llm.ChatModel, invoker ToolInvoker, logger zerolog.Logger) *Handler {
	return &Handler{
		model:  model,
		tools:  invoker,
		logger: logger.With().Str("component", "query_handler").Logger(),
	}
}

// Register mounts the handler's routes.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/query", h.HandleQuery)
}

// HandleQuery serves POST /api/query.
func (h *Handler) HandleQuery(c *gin.Context) {
	logger := h.requestLogger(c)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Msg("panic while handling query")
			h.writeError(c, logger, errorsx.New(errorsx.KindInternal, MsgInternalServerError))
		}
	}()

	var req api.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		h.writeError(c, logger, errorsx.New(errorsx.KindMissingInput, MsgNoQuery))
		return
	}

	text, err := h.answer(c.Request.Context(), logger, req.Query)
	if err != nil {
		h.writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, api.QueryResponse{Response: text})
}

// answer runs the model/tool exchange for one query and returns the final text.
func (h *Handler) answer(ctx context.Context, logger zerolog.Logger, query string) (string, error) {
	session := h.model.StartChat()

	resp, err := session.SendText(ctx, query)
	if err != nil {
		return "", err
	}
	logger.Debug().Str("state", stateModelCalled).Int("tool_calls", len(resp.ToolCalls)).Msg("model replied")

	call, ok := resp.FirstToolCall()
	if !ok {
		logger.Debug().Str("state", stateNoToolRequested).Msg("no function call requested")
		text, ok := resp.FinalText()
		if !ok {
			return "", errorsx.New(errorsx.KindModelResponseUnavailable, MsgNoModelResponse)
		}
		logger.Debug().Str("state", stateTextReady).Msg("model answered directly")
		return text, nil
	}
	if len(resp.ToolCalls) > 1 {
		logger.Warn().Int("tool_calls", len(resp.ToolCalls)).Msg("model requested several calls; only the first is executed")
	}
	logger.Debug().Str("state", stateToolRequested).Str("tool", call.Name).Interface("args", call.Args).Msg("function call detected")

	inv, err := tools.ParseCall(call)
	switch {
	case errors.Is(err, tools.ErrUnsupportedFunction):
		logger.Warn().Str("tool", call.Name).Msg("function not supported")
		return "", errorsx.Wrap(err, errorsx.KindUnsupportedFunction, fmt.Sprintf("Function '%s' not supported.", call.Name))
	case errors.Is(err, tools.ErrInvalidArguments):
		logger.Warn().Err(err).Str("tool", call.Name).Msg("invalid function call arguments")
		return "", errorsx.Wrap(err, errorsx.KindInvalidFunctionArgs, MsgInvalidParameters)
	case err != nil:
		return "", err
	}
	logger.Debug().Str("state", stateArgsValidated).Str("tool", call.Name).Msg("arguments validated")

	out, err := h.tools.Invoke(ctx, inv)
	if err != nil {
		return "", fmt.Errorf("invoking %s: %w", call.Name, err)
	}
	if out.Failed() {
		logger.Warn().Str("tool", call.Name).Str("tool_error", out.Error).Msg("function call failed")
		return "", errorsx.New(errorsx.KindToolExecutionFailed, "Failed to process function call: "+out.Error)
	}
	logger.Debug().Str("state", stateToolExecuted).Str("tool", call.Name).Interface("result", out.Payload).Msg("function executed")

	followUp, err := session.SendToolResult(ctx, call.Name, out.Payload)
	if err != nil {
		return "", err
	}
	logger.Debug().Str("state", stateFollowUpSent).Msg("function response sent to model")

	text, ok := followUp.FinalText()
	if !ok {
		return "", errorsx.New(errorsx.KindModelResponseUnavailable, MsgNoFinalResponse)
	}
	logger.Debug().Str("state", stateTextReady).Msg("final model response ready")
	return text, nil
}

// writeError converts err into the HTTP reply. It is the single place where
// errors of the query flow become status codes.
func (h *Handler) writeError(c *gin.Context, logger zerolog.Logger, err error) {
	kind := errorsx.KindOf(err)
	message := MsgInternalServerError
	var appErr *errorsx.Error
	switch {
	case errors.Is(err, llm.ErrServiceUnavailable):
		kind, message = errorsx.KindProviderUnavailable, MsgServiceUnavailable
	case errors.As(err, &appErr):
		message = appErr.Message
	}
	status := errorsx.StatusFor(kind)

	evt := logger.Warn()
	if status >= http.StatusInternalServerError {
		evt = logger.Error()
	}
	evt.Err(err).Str("kind", string(kind)).Int("status", status).Msg("query failed")

	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: message})
}

func (h *Handler) requestLogger(c *gin.Context) zerolog.Logger {
	if l := zerolog.Ctx(c.Request.Context()); l.GetLevel() != zerolog.Disabled {
		return l.With().Str("component", "query_handler").Logger()
	}
	return h.logger
}
