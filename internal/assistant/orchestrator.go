package assistant

import (
	"context"

	"go.uber.org/zap"

	"github.com/lamnguyen/cvstudio/internal/llm"
	"github.com/lamnguyen/cvstudio/internal/retry"
)

// ToolObserver receives progress notifications while tools execute, so a
// caller can surface them (CLI output, websocket frames). Both callbacks
// are optional.
type ToolObserver struct {
	OnToolCall   func(name string, args string)
	OnToolResult func(name string, result string)
}

// ChatWithTools runs the bounded two-round tool-calling protocol.
//
// Round 1 advertises the tool schemas with automatic tool choice. If the
// model answers directly, that answer is final. If it requests tool calls,
// each is executed through the closed dispatch table and its result (or an
// error description; one failing tool never aborts the round) is appended
// as a tool message, and round 2 produces the final answer without schemas.
// A model requesting tools again in round 2 is not serviced further.
//
// The message list sent on round 2 is always the round-1 list plus exactly
// one assistant message and one tool result per requested call, in request
// order. The caller's slice is never mutated.
func (a *Assistant) ChatWithTools(ctx context.Context, messages []llm.Message, obs *ToolObserver) string {
	resp, err := retry.Do(ctx, a.ChatRetry, llm.ClassifyErr, func() (*llm.Response, error) {
		return a.client.ChatCompletion(ctx, llm.Request{
			Messages:    messages,
			Tools:       a.tools.Defs(),
			ToolChoice:  "auto",
			Temperature: chatTemperature,
			MaxTokens:   chatMaxTokens,
		})
	})
	if err != nil {
		a.log.Warn("tool-calling round 1 failed", zap.Error(err))
		return ErrProcessingMsg
	}

	msg := resp.Message
	if len(msg.ToolCalls) == 0 {
		return msg.Content
	}

	extended := make([]llm.Message, 0, len(messages)+1+len(msg.ToolCalls))
	extended = append(extended, messages...)
	extended = append(extended, msg)

	for _, tc := range msg.ToolCalls {
		if obs != nil && obs.OnToolCall != nil {
			obs.OnToolCall(tc.Name, string(tc.Args))
		}

		result, err := a.tools.Call(tc.Name, tc.Args)
		if err != nil {
			a.log.Warn("tool execution failed",
				zap.String("function", tc.Name), zap.Error(err))
			result = "Error executing function: " + err.Error()
		}

		if obs != nil && obs.OnToolResult != nil {
			obs.OnToolResult(tc.Name, result)
		}

		extended = append(extended, llm.ToolResultMessage(tc.ID, tc.Name, result))
	}

	resp, err = retry.Do(ctx, a.ChatRetry, llm.ClassifyErr, func() (*llm.Response, error) {
		return a.client.ChatCompletion(ctx, llm.Request{
			Messages:    extended,
			Temperature: chatTemperature,
			MaxTokens:   chatMaxTokens,
		})
	})
	if err != nil {
		a.log.Warn("tool-calling round 2 failed", zap.Error(err))
		return ErrResponseMsg
	}

	return resp.Message.Content
}
