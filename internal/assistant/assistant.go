// Package assistant is the LLM request orchestration layer: plain chat and
// CV generation calls routed through the retry executor, the bounded
// two-round tool-calling protocol, and the request coalescer for chat
// traffic.
package assistant

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lamnguyen/cvstudio/internal/cvtools"
	"github.com/lamnguyen/cvstudio/internal/llm"
	"github.com/lamnguyen/cvstudio/internal/profile"
	"github.com/lamnguyen/cvstudio/internal/retry"
)

// Sampling settings per call type. Chat favors responsiveness, CV
// generation favors determinism.
const (
	chatTemperature = 0.7
	chatMaxTokens   = 800

	generateTemperature = 0.2
	generateMaxTokens   = 1000
)

// Assistant coordinates every model call the application makes.
type Assistant struct {
	client llm.Client
	tools  *cvtools.Registry
	log    *zap.Logger

	// ChatRetry bounds chat-path calls; fewer, shorter retries keep the
	// conversation responsive. GenerateRetry is the more patient budget
	// for CV generation.
	ChatRetry     retry.Policy
	GenerateRetry retry.Policy
}

// New creates an Assistant with the default retry budgets.
func New(client llm.Client, tools *cvtools.Registry, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{
		client: client,
		tools:  tools,
		log:    log,
		ChatRetry: retry.Policy{
			MaxRetries: 2,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   10 * time.Second,
		},
		GenerateRetry: retry.Policy{
			MaxRetries: 3,
			BaseDelay:  time.Second,
			MaxDelay:   30 * time.Second,
		},
	}
}

// Chat sends the messages as-is and returns the assistant's answer. A
// failed call returns its descriptive error text in place of the answer;
// callers branch on "content vs. failure text", never on a raised error.
func (a *Assistant) Chat(ctx context.Context, messages []llm.Message) string {
	resp, err := retry.Do(ctx, a.ChatRetry, llm.ClassifyErr, func() (*llm.Response, error) {
		return a.client.ChatCompletion(ctx, llm.Request{
			Messages:    messages,
			Temperature: chatTemperature,
			MaxTokens:   chatMaxTokens,
		})
	})
	if err != nil {
		a.log.Warn("chat call failed", zap.Error(err))
		return err.Error()
	}
	if resp.Message.Content == "" {
		return ErrProcessingMsg
	}
	return resp.Message.Content
}

// GenerateCV asks the model to produce or improve a CV from the profile and
// JD. The failure contract matches Chat: error text or a fixed sentinel,
// never a raised error.
func (a *Assistant) GenerateCV(ctx context.Context, p profile.UserProfile, jd profile.JobDescription) string {
	messages := []llm.Message{
		llm.SystemMessage(CVSystemPrompt),
		llm.UserMessage(FewShotExample),
		llm.UserMessage(profile.Payload(p, jd)),
	}

	resp, err := retry.Do(ctx, a.GenerateRetry, llm.ClassifyErr, func() (*llm.Response, error) {
		return a.client.ChatCompletion(ctx, llm.Request{
			Messages:    messages,
			Temperature: generateTemperature,
			MaxTokens:   generateMaxTokens,
		})
	})
	if err != nil {
		a.log.Warn("cv generation failed", zap.Error(err))
		return err.Error()
	}
	if resp.Message.Content == "" {
		return ErrGenerateMsg
	}
	return resp.Message.Content
}

// RecentWindow returns at most n of the latest messages. Only the tail of
// the conversation is replayed to the model.
func RecentWindow(messages []llm.Message, n int) []llm.Message {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
