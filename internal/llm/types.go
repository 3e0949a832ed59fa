// Package llm drives a hosted model through tool-calling conversations.
package llm

import (
	"context"
	"errors"

	"github.com/Pratyush-06/Barista-Agent/internal/tools"
)

// Errors.
var (
	// ErrNoCandidates is returned when the model produced nothing usable.
	ErrNoCandidates = errors.New("model returned no candidates")

	// ErrToolRoundsExceeded is returned when the model keeps calling tools.
	ErrToolRoundsExceeded = errors.New("too many tool rounds in one turn")

	// ErrNoAPIKey is returned when a client is built without credentials.
	ErrNoAPIKey = errors.New("llm api key is required")
)

// Role of a message author.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`

	// Signature is opaque model state that must be echoed back with the call.
	Signature []byte `json:"-"`
}

// ToolOutput answers one ToolCall.
type ToolOutput struct {
	CallID string `json:"call_id,omitempty"`
	Name   string `json:"name"`
	Output string `json:"output"`
}

// Message is one entry of the conversation history.
type Message struct {
	Role        Role         `json:"role"`
	Text        string       `json:"text,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolOutputs []ToolOutput `json:"tool_outputs,omitempty"`
}

// Request is a single model call.
type Request struct {
	System  string
	History []Message
	Tools   []*tools.Tool
}

// Response contains both text and tool calls from the model.
type Response struct {
	Text       string
	ToolCalls  []ToolCall
	StopReason string
	Usage      TokenUsage
}

// TokenUsage is what one request cost, as reported by the provider.
type TokenUsage struct {
	Input  int
	Output int
}

// Model is a hosted chat model with function calling.
type Model interface {
	Name() string
	Generate(ctx context.Context, req *Request) (*Response, error)
}
