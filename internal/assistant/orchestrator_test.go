package assistant

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lamnguyen/cvstudio/internal/llm"
)

func toolCallResponse(calls ...llm.ToolCall) scriptStep {
	return scriptStep{resp: &llm.Response{Message: llm.Message{
		Role:      llm.RoleAssistant,
		ToolCalls: calls,
	}}}
}

func TestChatWithToolsDirectAnswer(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{textResponse("direct answer")}}
	a := newTestAssistant(client)

	got := a.ChatWithTools(context.Background(), []llm.Message{llm.UserMessage("hi")}, nil)
	if got != "direct answer" {
		t.Errorf("ChatWithTools() = %q, want direct answer", got)
	}
	if len(client.requests) != 1 {
		t.Fatalf("calls = %d, want exactly 1 when no tools requested", len(client.requests))
	}

	req := client.requests[0]
	if len(req.Tools) != 4 {
		t.Errorf("round 1 advertised %d tools, want 4", len(req.Tools))
	}
	if req.ToolChoice != "auto" {
		t.Errorf("tool choice = %q, want auto", req.ToolChoice)
	}
}

func TestChatWithToolsTwoRounds(t *testing.T) {
	calls := []llm.ToolCall{
		{ID: "call_1", Name: "analyze_cv", Args: json.RawMessage(`{"cv_text":"my cv"}`)},
		{ID: "call_2", Name: "extract_jd_requirements", Args: json.RawMessage(`{"jd_text":"the jd"}`)},
	}
	client := &scriptedClient{script: []scriptStep{
		toolCallResponse(calls...),
		textResponse("final answer"),
	}}
	a := newTestAssistant(client)

	var observed []string
	obs := &ToolObserver{
		OnToolCall:   func(name, _ string) { observed = append(observed, "call:"+name) },
		OnToolResult: func(name, _ string) { observed = append(observed, "result:"+name) },
	}

	original := []llm.Message{llm.SystemMessage("sys"), llm.UserMessage("analyze my cv")}
	got := a.ChatWithTools(context.Background(), original, obs)

	if got != "final answer" {
		t.Errorf("ChatWithTools() = %q, want round-2 content", got)
	}
	if len(client.requests) != 2 {
		t.Fatalf("calls = %d, want 2 rounds", len(client.requests))
	}

	// Round 2: original list + 1 assistant message + 1 tool result per call,
	// no tool schemas.
	round2 := client.requests[1]
	wantLen := len(original) + 1 + len(calls)
	if len(round2.Messages) != wantLen {
		t.Fatalf("round 2 has %d messages, want %d", len(round2.Messages), wantLen)
	}
	if len(round2.Tools) != 0 || round2.ToolChoice != "" {
		t.Error("round 2 must not advertise tools")
	}
	if round2.Messages[2].Role != llm.RoleAssistant || len(round2.Messages[2].ToolCalls) != 2 {
		t.Error("round 2 missing the assistant tool-call message")
	}
	for i, tc := range calls {
		msg := round2.Messages[3+i]
		if msg.Role != llm.RoleTool || msg.ToolCallID != tc.ID || msg.Name != tc.Name {
			t.Errorf("tool result %d = %+v, want role=tool id=%s name=%s", i, msg, tc.ID, tc.Name)
		}
		if msg.Content == "" {
			t.Errorf("tool result %d has empty content", i)
		}
	}

	// Caller's slice is never mutated.
	if len(original) != 2 {
		t.Errorf("caller slice grew to %d entries", len(original))
	}

	wantObserved := []string{
		"call:analyze_cv", "result:analyze_cv",
		"call:extract_jd_requirements", "result:extract_jd_requirements",
	}
	if len(observed) != len(wantObserved) {
		t.Fatalf("observer saw %v, want %v", observed, wantObserved)
	}
	for i := range wantObserved {
		if observed[i] != wantObserved[i] {
			t.Errorf("observer[%d] = %q, want %q", i, observed[i], wantObserved[i])
		}
	}
}

func TestChatWithToolsUnknownFunction(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		toolCallResponse(llm.ToolCall{ID: "call_1", Name: "no_such_tool", Args: json.RawMessage(`{}`)}),
		textResponse("recovered answer"),
	}}
	a := newTestAssistant(client)

	got := a.ChatWithTools(context.Background(), []llm.Message{llm.UserMessage("hi")}, nil)

	// A failing tool does not abort the round; its error text becomes the
	// tool result and round 2 still runs.
	if got != "recovered answer" {
		t.Errorf("ChatWithTools() = %q, want round-2 content", got)
	}
	if len(client.requests) != 2 {
		t.Fatalf("calls = %d, want 2", len(client.requests))
	}
	result := client.requests[1].Messages[len(client.requests[1].Messages)-1]
	if !strings.Contains(result.Content, "Error executing function") {
		t.Errorf("tool result = %q, want execution error text", result.Content)
	}
}

func TestChatWithToolsRound1Failure(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		{err: apiError(400)},
	}}
	a := newTestAssistant(client)

	got := a.ChatWithTools(context.Background(), []llm.Message{llm.UserMessage("hi")}, nil)
	if got != ErrProcessingMsg {
		t.Errorf("ChatWithTools() = %q, want processing sentinel", got)
	}
}

func TestChatWithToolsRound2Failure(t *testing.T) {
	client := &scriptedClient{script: []scriptStep{
		toolCallResponse(llm.ToolCall{ID: "call_1", Name: "analyze_cv", Args: json.RawMessage(`{"cv_text":"x"}`)}),
		{err: apiError(400)},
	}}
	a := newTestAssistant(client)

	got := a.ChatWithTools(context.Background(), []llm.Message{llm.UserMessage("hi")}, nil)
	if got != ErrResponseMsg {
		t.Errorf("ChatWithTools() = %q, want response sentinel", got)
	}
}
