package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Pratyush-06/Barista-Agent/internal/config"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/tools"
)

// GeminiModel implements Model with Google's Gemini API.
type GeminiModel struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewGeminiModel creates a Gemini client from cfg.
func NewGeminiModel(ctx context.Context, cfg config.LLMConfig, timeout time.Duration) (*GeminiModel, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	logging.LLM("Gemini model ready: %s", model)
	return &GeminiModel{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}, nil
}

// Name implements Model.
func (g *GeminiModel) Name() string { return g.model }

// Generate implements Model.
func (g *GeminiModel) Generate(ctx context.Context, req *Request) (*Response, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, toGeminiContents(req.History), g.buildConfig(req))
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}
	return fromGeminiResponse(resp)
}

func (g *GeminiModel) buildConfig(req *Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if g.temperature > 0 {
		t := g.temperature
		cfg.Temperature = &t
	}
	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, toFunctionDeclaration(t))
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return cfg
}

func toFunctionDeclaration(t *tools.Tool) *genai.FunctionDeclaration {
	decl := &genai.FunctionDeclaration{
		Name:        t.Name,
		Description: t.Description,
	}
	if len(t.Schema.Properties) == 0 {
		return decl
	}

	props := make(map[string]*genai.Schema, len(t.Schema.Properties))
	for name, p := range t.Schema.Properties {
		props[name] = toSchema(p)
	}
	decl.Parameters = &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   t.Schema.Required,
	}
	return decl
}

func toSchema(p tools.Property) *genai.Schema {
	s := &genai.Schema{
		Type:        schemaType(p.Type),
		Description: p.Description,
	}
	for _, e := range p.Enum {
		s.Enum = append(s.Enum, fmt.Sprint(e))
	}
	if p.Items != nil {
		s.Items = &genai.Schema{Type: schemaType(p.Items.Type)}
	}
	return s
}

func schemaType(t string) genai.Type {
	switch strings.ToLower(t) {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func toGeminiContents(history []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		var parts []*genai.Part
		if m.Text != "" {
			parts = append(parts, &genai.Part{Text: m.Text})
		}
		for _, call := range m.ToolCalls {
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   call.ID,
					Name: call.Name,
					Args: call.Args,
				},
				ThoughtSignature: call.Signature,
			})
		}
		for _, out := range m.ToolOutputs {
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       out.CallID,
					Name:     out.Name,
					Response: map[string]any{"output": out.Output},
				},
			})
		}
		if len(parts) == 0 {
			continue
		}
		role := genai.RoleUser
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{Role: string(role), Parts: parts})
	}
	return contents
}

func fromGeminiResponse(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoCandidates
	}
	cand := resp.Candidates[0]

	out := &Response{StopReason: string(cand.FinishReason)}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = TokenUsage{Input: int(u.PromptTokenCount), Output: int(u.CandidatesTokenCount)}
	}
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if part.FunctionCall != nil {
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        part.FunctionCall.ID,
				Name:      part.FunctionCall.Name,
				Args:      part.FunctionCall.Args,
				Signature: part.ThoughtSignature,
			})
			continue
		}
		text.WriteString(part.Text)
	}
	out.Text = text.String()
	return out, nil
}
