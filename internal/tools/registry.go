package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/metrics"
)

// Registry holds the tools of one agent and provides lookup functionality.
// It is thread-safe and supports registration at runtime.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]*Tool
	persona string
}

// NewRegistry creates a new empty tool registry for the named persona.
// The persona name only labels logs and metrics.
func NewRegistry(persona string) *Registry {
	return &Registry{
		tools:   make(map[string]*Tool),
		persona: persona,
	}
}

// Persona returns the persona label of the registry.
func (r *Registry) Persona() string {
	return r.persona
}

// Register adds a tool to the registry.
// Returns an error if a tool with the same name already exists.
func (r *Registry) Register(tool *Tool) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, tool.Name)
	}

	r.tools[tool.Name] = tool
	logging.ToolsDebug("Registered tool: %s (persona=%s)", tool.Name, r.persona)
	return nil
}

// MustRegister registers a tool and panics on error.
// Use this for static tool registration in agent constructors.
func (r *Registry) MustRegister(tool *Tool) {
	if err := r.Register(tool); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", tool.Name, err))
	}
}

// Get returns a tool by name, or nil if not found.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Has returns true if a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// All returns all registered tools sorted by name.
func (r *Registry) All() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Names returns all registered tool names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs a tool by name with the given arguments.
// Returns ErrToolNotFound if the tool doesn't exist.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	tool := r.Get(name)
	if tool == nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	return r.ExecuteTool(ctx, tool, args)
}

// ExecuteTool runs a specific tool with the given arguments.
func (r *Registry) ExecuteTool(ctx context.Context, tool *Tool, args map[string]any) (*ToolResult, error) {
	start := time.Now()
	if args == nil {
		args = map[string]any{}
	}

	if err := r.validateArgs(tool, args); err != nil {
		return &ToolResult{
			ToolName:   tool.Name,
			Error:      err,
			DurationMs: time.Since(start).Milliseconds(),
		}, err
	}

	logging.ToolsDebug("Executing tool: %s args=%v", tool.Name, args)
	result, err := tool.Execute(ctx, args)

	duration := time.Since(start)
	logging.ToolsDebug("Tool %s completed in %v (success=%v)", tool.Name, duration, err == nil)

	return &ToolResult{
		ToolName:   tool.Name,
		Result:     result,
		Error:      err,
		DurationMs: duration.Milliseconds(),
	}, err
}

// Invoke runs a tool and always answers with text for the model.
// Unknown tools, missing arguments, rejections and faults are turned into
// short apologetic sentences.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) string {
	start := time.Now()

	tool := r.Get(name)
	if tool == nil {
		logging.ToolsWarn("Model called unknown tool %q (persona=%s)", name, r.persona)
		metrics.RecordTool(r.persona, name, metrics.OutcomeUnknown, time.Since(start))
		return fmt.Sprintf("Sorry, there is no tool called %q. Available tools: %s.", name, strings.Join(r.Names(), ", "))
	}

	result, err := r.ExecuteTool(ctx, tool, args)
	d := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordTool(r.persona, name, metrics.OutcomeOK, d)
		return result.Result
	case IsRejection(err):
		logging.ToolsDebug("Tool %s rejected call: %v", name, err)
		metrics.RecordTool(r.persona, name, metrics.OutcomeRejected, d)
		return err.Error()
	case errors.Is(err, ErrMissingRequiredArg), errors.Is(err, ErrInvalidArgType):
		logging.ToolsDebug("Tool %s bad arguments: %v", name, err)
		metrics.RecordTool(r.persona, name, metrics.OutcomeRejected, d)
		return fmt.Sprintf("Sorry, I couldn't run %s: %v.", name, err)
	default:
		logging.ToolsError("Tool %s failed: %v", name, err)
		metrics.RecordTool(r.persona, name, metrics.OutcomeError, d)
		return fmt.Sprintf("Sorry, something went wrong while running %s. Please try again.", name)
	}
}

// validateArgs checks that all required arguments are present.
func (r *Registry) validateArgs(tool *Tool, args map[string]any) error {
	for _, required := range tool.Schema.Required {
		v, ok := args[required]
		if !ok || v == nil {
			return fmt.Errorf("%w: %s", ErrMissingRequiredArg, required)
		}
	}
	return nil
}
