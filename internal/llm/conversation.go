package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/metrics"
	"github.com/Pratyush-06/Barista-Agent/internal/tools"
	"github.com/Pratyush-06/Barista-Agent/internal/usage"
)

const defaultMaxToolRounds = 8

// Conversation is the history of one session with one agent. Tool calls
// are resolved through the registry in the order the model issues them.
type Conversation struct {
	mu        sync.Mutex
	model     Model
	registry  *tools.Registry
	system    string
	history   []Message
	maxRounds int
}

// NewConversation starts an empty conversation. maxRounds <= 0 uses 8.
func NewConversation(model Model, registry *tools.Registry, system string, maxRounds int) *Conversation {
	if maxRounds <= 0 {
		maxRounds = defaultMaxToolRounds
	}
	return &Conversation{
		model:     model,
		registry:  registry,
		system:    system,
		maxRounds: maxRounds,
	}
}

// History returns a copy of the messages so far.
func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}

// Turn sends one user utterance and returns the model's final reply after
// all requested tool calls have been answered.
func (c *Conversation) Turn(ctx context.Context, userText string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := logging.StartTimer(logging.CategoryLLM, "Turn")
	defer timer.Stop()

	c.history = append(c.history, Message{Role: RoleUser, Text: userText})

	var said []string
	for round := 0; round < c.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := c.model.Generate(ctx, &Request{
			System:  c.system,
			History: c.history,
			Tools:   c.registry.All(),
		})
		metrics.RecordLLMRequest(c.model.Name(), err)
		if err != nil {
			logging.LLMError("Model request failed: %v", err)
			return "", fmt.Errorf("model request failed: %w", err)
		}

		if tracker := usage.FromContext(ctx); tracker != nil {
			tracker.Track(c.model.Name(), c.registry.Persona(), resp.Usage.Input, resp.Usage.Output)
		}

		c.history = append(c.history, Message{Role: RoleModel, Text: resp.Text, ToolCalls: resp.ToolCalls})
		if text := strings.TrimSpace(resp.Text); text != "" {
			said = append(said, text)
		}

		if len(resp.ToolCalls) == 0 {
			logging.LLMDebug("Turn complete after %d rounds (stop=%s)", round+1, resp.StopReason)
			return strings.Join(said, "\n"), nil
		}

		outputs := make([]ToolOutput, 0, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			out := c.registry.Invoke(ctx, call.Name, call.Args)
			logging.LLMDebug("Tool %s -> %q", call.Name, out)
			outputs = append(outputs, ToolOutput{CallID: call.ID, Name: call.Name, Output: out})
		}
		c.history = append(c.history, Message{Role: RoleUser, ToolOutputs: outputs})
	}

	logging.LLMWarn("Turn stopped after %d tool rounds", c.maxRounds)
	return strings.Join(said, "\n"), ErrToolRoundsExceeded
}
