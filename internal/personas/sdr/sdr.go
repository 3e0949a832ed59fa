// Package sdr is an inbound sales-development rep: it answers questions from
// a fixed FAQ and qualifies the caller as a lead.
package sdr

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
	"github.com/Pratyush-06/Barista-Agent/internal/tools"
	"github.com/Pratyush-06/Barista-Agent/internal/voice"
)

// Name is the persona key.
const Name = "sdr"

// LeadsFile holds saved leads.
const LeadsFile = "leads.json"

// LeadFields are the fields update_lead accepts.
var LeadFields = []string{"name", "company", "email", "role", "use_case", "team_size", "timeline"}

// Lead is the prospect being qualified.
type Lead struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	UseCase  string `json:"use_case"`
	TeamSize string `json:"team_size"`
	Timeline string `json:"timeline"`
}

func (l *Lead) field(name string) *string {
	switch name {
	case "name":
		return &l.Name
	case "company":
		return &l.Company
	case "email":
		return &l.Email
	case "role":
		return &l.Role
	case "use_case":
		return &l.UseCase
	case "team_size":
		return &l.TeamSize
	case "timeline":
		return &l.Timeline
	}
	return nil
}

// State is the qualification in progress.
type State struct {
	Lead           Lead     `json:"lead"`
	QuestionsAsked []string `json:"questions_asked"`
}

// LeadRecord is a saved lead.
type LeadRecord struct {
	ID             string    `json:"id"`
	SavedAt        time.Time `json:"saved_at"`
	Summary        string    `json:"summary"`
	QuestionsAsked []string  `json:"questions_asked"`
	Lead
}

type session struct {
	state   State
	company Company
	leads   *store.JSONFile[LeadRecord]
	now     func() time.Time
	newID   func() string
}

// New builds an SDR agent.
func New(deps agent.Deps) (*agent.Agent, error) {
	deps = deps.WithDefaults()
	company, err := LoadCompany(deps.DataPath(CompanyFile), deps.Company)
	if err != nil {
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}
	s := &session{
		company: company,
		leads:   store.NewJSONFile[LeadRecord](deps.DataPath(LeadsFile)),
		now:     deps.Now,
		newID:   deps.NewID,
	}
	return &agent.Agent{
		Name:         Name,
		Title:        "Sales Development Rep",
		Company:      company.Name,
		Instructions: Instructions(company),
		Greeting:     fmt.Sprintf("Hi, thanks for reaching out to %s! What brings you here today?", company.Name),
		Tools:        s.registry(),
		Voice:        voice.Options{Voice: "en-US-terrell", Style: "Conversational", TextPacing: true},
		Snapshot:     func() any { return s.state },
	}, nil
}

func (s *session) registry() *tools.Registry {
	fields := make([]any, len(LeadFields))
	for i, f := range LeadFields {
		fields[i] = f
	}

	reg := tools.NewRegistry(Name)
	reg.MustRegister(&tools.Tool{
		Name:        "answer_faq",
		Description: "Look up the answer to a product, pricing or company question.",
		Execute:     s.answerFAQ,
		Schema: tools.ToolSchema{
			Required:   []string{"question"},
			Properties: map[string]tools.Property{"question": {Type: "string"}},
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "get_pricing",
		Description: "List the pricing plans.",
		Execute:     s.getPricing,
	})
	reg.MustRegister(&tools.Tool{
		Name:        "update_lead",
		Description: "Store one detail about the prospect.",
		Execute:     s.updateLead,
		Schema: tools.ToolSchema{
			Required: []string{"field", "value"},
			Properties: map[string]tools.Property{
				"field": {Type: "string", Enum: fields},
				"value": {Type: "string"},
			},
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "get_lead_status",
		Description: "Show what is known about the prospect and what is missing.",
		Execute:     s.getLeadStatus,
	})
	reg.MustRegister(&tools.Tool{
		Name:        "save_lead",
		Description: "Save the lead with a short call summary. Needs at least name and email.",
		Execute:     s.saveLead,
		Schema: tools.ToolSchema{
			Required:   []string{"summary"},
			Properties: map[string]tools.Property{"summary": {Type: "string"}},
		},
	})
	return reg
}

func (s *session) answerFAQ(_ context.Context, args map[string]any) (string, error) {
	q := tools.String(args, "question")
	if q == "" {
		return "", tools.Rejectf("What would you like to know?")
	}
	s.state.QuestionsAsked = append(s.state.QuestionsAsked, q)

	faq, score, ok := s.company.MatchFAQ(q)
	if !ok {
		logging.PersonaDebug("No FAQ match for %q (best %.2f)", q, score)
		return "I don't have that information. Offer to have a specialist follow up by email.", nil
	}
	return faq.Answer, nil
}

func (s *session) getPricing(_ context.Context, _ map[string]any) (string, error) {
	if len(s.company.Pricing) == 0 {
		return "Pricing is shared by the sales team on request.", nil
	}
	parts := make([]string, len(s.company.Pricing))
	for i, p := range s.company.Pricing {
		parts[i] = fmt.Sprintf("%s: %s (%s)", p.Name, p.Price, p.Details)
	}
	return strings.Join(parts, " "), nil
}

// ValidEmail reports whether s is a bare address with a dotted domain.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	domain := s[at+1:]
	return at > 0 && strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

func (s *session) updateLead(_ context.Context, args map[string]any) (string, error) {
	name := strings.ToLower(tools.String(args, "field"))
	value := tools.String(args, "value")

	field := s.state.Lead.field(name)
	if field == nil {
		return "", tools.Rejectf("Unknown field %q. Fields: %s.", name, strings.Join(LeadFields, ", "))
	}
	if value == "" {
		return "", tools.Rejectf("The value for %s is empty.", name)
	}
	if name == "email" {
		value = strings.ToLower(strings.ReplaceAll(value, " ", ""))
		if !ValidEmail(value) {
			return "", tools.Rejectf("%q doesn't look like a valid email address. Please ask the prospect to spell it out.", value)
		}
	}
	*field = value
	return fmt.Sprintf("Saved %s: %s.", name, value), nil
}

func (s *session) missing() []string {
	var out []string
	for _, f := range LeadFields {
		if *s.state.Lead.field(f) == "" {
			out = append(out, f)
		}
	}
	return out
}

func (s *session) getLeadStatus(_ context.Context, _ map[string]any) (string, error) {
	var known []string
	for _, f := range LeadFields {
		if v := *s.state.Lead.field(f); v != "" {
			known = append(known, fmt.Sprintf("%s=%s", f, v))
		}
	}
	msg := "Known: none yet."
	if len(known) > 0 {
		msg = "Known: " + strings.Join(known, ", ") + "."
	}
	if missing := s.missing(); len(missing) > 0 {
		msg += " Missing: " + strings.Join(missing, ", ") + "."
	}
	return msg, nil
}

func (s *session) saveLead(_ context.Context, args map[string]any) (string, error) {
	lead := s.state.Lead
	if lead.Name == "" || lead.Email == "" {
		return "", tools.Rejectf("I need at least the prospect's name and email before saving.")
	}
	record := LeadRecord{
		ID:             s.newID(),
		SavedAt:        s.now().UTC(),
		Summary:        tools.String(args, "summary"),
		QuestionsAsked: s.state.QuestionsAsked,
		Lead:           lead,
	}
	if err := s.leads.Append(record); err != nil {
		return "", fmt.Errorf("failed to save lead: %w", err)
	}
	logging.Persona("Lead %s saved (%s)", record.ID, record.Email)

	s.state = State{}
	return fmt.Sprintf("Lead saved for %s. Let them know someone will follow up at %s.", lead.Name, lead.Email), nil
}
