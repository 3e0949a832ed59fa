// Package wellness runs a short daily check-in: mood, energy, stress and up
// to three small objectives for the day.
package wellness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
	"github.com/Pratyush-06/Barista-Agent/internal/tools"
	"github.com/Pratyush-06/Barista-Agent/internal/voice"
)

// Name is the persona key.
const Name = "wellness"

// LogFile holds completed check-ins.
const LogFile = "wellness_log.json"

// Limits.
const (
	MinEnergy     = 1
	MaxEnergy     = 10
	MaxObjectives = 3
)

// State is the check-in in progress. Energy 0 means not recorded.
type State struct {
	Mood       string   `json:"mood"`
	Energy     int      `json:"energy"`
	Stress     string   `json:"stress"`
	Objectives []string `json:"objectives"`
}

// Entry is a completed check-in.
type Entry struct {
	ID          string    `json:"id"`
	CompletedAt time.Time `json:"completed_at"`
	Summary     string    `json:"summary"`
	State
}

type session struct {
	state State
	log   *store.JSONFile[Entry]
	now   func() time.Time
	newID func() string
}

// New builds a wellness agent.
func New(deps agent.Deps) (*agent.Agent, error) {
	deps = deps.WithDefaults()
	s := &session{
		log:   store.NewJSONFile[Entry](deps.DataPath(LogFile)),
		now:   deps.Now,
		newID: deps.NewID,
	}
	return &agent.Agent{
		Name:         Name,
		Title:        "Wellness Companion",
		Company:      deps.Company,
		Instructions: Instructions(deps.Company),
		Greeting:     "Hi, it's good to hear from you. How are you feeling today?",
		Tools:        s.registry(),
		Voice:        voice.Options{Voice: "en-US-natalie", Style: "Calm", TextPacing: true},
		Snapshot:     func() any { return s.state },
	}, nil
}

func (s *session) registry() *tools.Registry {
	reg := tools.NewRegistry(Name)
	reg.MustRegister(&tools.Tool{
		Name:        "get_last_checkin",
		Description: "Read the previous check-in so you can refer back to it.",
		Execute:     s.getLastCheckin,
	})
	reg.MustRegister(&tools.Tool{
		Name:        "record_mood",
		Description: "Record today's mood in a few words and energy on a 1-10 scale.",
		Execute:     s.recordMood,
		Schema: tools.ToolSchema{
			Required: []string{"mood", "energy"},
			Properties: map[string]tools.Property{
				"mood":   {Type: "string", Description: "mood in the user's words"},
				"energy": {Type: "integer", Description: "energy from 1 (drained) to 10 (great)"},
			},
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "record_stress",
		Description: "Record anything that is stressing the user.",
		Execute:     s.recordStress,
		Schema: tools.ToolSchema{
			Required:   []string{"note"},
			Properties: map[string]tools.Property{"note": {Type: "string"}},
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "add_objective",
		Description: "Add one small, concrete objective for today (max 3).",
		Execute:     s.addObjective,
		Schema: tools.ToolSchema{
			Required:   []string{"objective"},
			Properties: map[string]tools.Property{"objective": {Type: "string"}},
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "remove_objective",
		Description: "Remove an objective by its 1-based position.",
		Execute:     s.removeObjective,
		Schema: tools.ToolSchema{
			Required:   []string{"index"},
			Properties: map[string]tools.Property{"index": {Type: "integer"}},
		},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "complete_checkin",
		Description: "Save the check-in with a one-sentence summary. Needs a mood and at least one objective.",
		Execute:     s.completeCheckin,
		Schema: tools.ToolSchema{
			Required:   []string{"summary"},
			Properties: map[string]tools.Property{"summary": {Type: "string"}},
		},
	})
	return reg
}

func (s *session) getLastCheckin(_ context.Context, _ map[string]any) (string, error) {
	last, ok, err := s.log.Last()
	if err != nil {
		return "", err
	}
	if !ok {
		return "No previous check-ins. This is the first one.", nil
	}
	msg := fmt.Sprintf("Last check-in on %s: mood %q, energy %d/10.", last.CompletedAt.Format("Monday, Jan 2"), last.Mood, last.Energy)
	if last.Stress != "" {
		msg += fmt.Sprintf(" Stress: %s.", last.Stress)
	}
	if len(last.Objectives) > 0 {
		msg += " Objectives were: " + strings.Join(last.Objectives, "; ") + "."
	}
	return msg, nil
}

// ClampEnergy bounds an energy rating to 1..10.
func ClampEnergy(v int) int {
	if v < MinEnergy {
		return MinEnergy
	}
	if v > MaxEnergy {
		return MaxEnergy
	}
	return v
}

func (s *session) recordMood(_ context.Context, args map[string]any) (string, error) {
	mood := tools.String(args, "mood")
	if mood == "" {
		return "", tools.Rejectf("Please describe the mood in a word or two.")
	}
	raw, err := tools.Int(args, "energy")
	if err != nil {
		return "", err
	}
	energy := ClampEnergy(raw)

	s.state.Mood = mood
	s.state.Energy = energy
	if energy != raw {
		return fmt.Sprintf("Noted: feeling %s, energy %d/10 (adjusted from %d to fit the 1-10 scale).", mood, energy, raw), nil
	}
	return fmt.Sprintf("Noted: feeling %s, energy %d/10.", mood, energy), nil
}

func (s *session) recordStress(_ context.Context, args map[string]any) (string, error) {
	note := tools.String(args, "note")
	if note == "" {
		return "", tools.Rejectf("Nothing to record.")
	}
	s.state.Stress = note
	return "Thanks for sharing. I've noted that.", nil
}

func (s *session) addObjective(_ context.Context, args map[string]any) (string, error) {
	obj := tools.String(args, "objective")
	if obj == "" {
		return "", tools.Rejectf("The objective is empty.")
	}
	if len(s.state.Objectives) >= MaxObjectives {
		return "", tools.Rejectf("We already have %d objectives. Let's keep today manageable, or remove one first.", MaxObjectives)
	}
	s.state.Objectives = append(s.state.Objectives, obj)
	return fmt.Sprintf("Objective %d added: %s.", len(s.state.Objectives), obj), nil
}

func (s *session) removeObjective(_ context.Context, args map[string]any) (string, error) {
	idx, err := tools.Int(args, "index")
	if err != nil {
		return "", err
	}
	n := len(s.state.Objectives)
	if n == 0 {
		return "", tools.Rejectf("There are no objectives yet.")
	}
	if idx < 1 || idx > n {
		return "", tools.Rejectf("Objective %d does not exist. Choose between 1 and %d.", idx, n)
	}
	removed := s.state.Objectives[idx-1]
	s.state.Objectives = append(s.state.Objectives[:idx-1:idx-1], s.state.Objectives[idx:]...)
	return fmt.Sprintf("Removed objective: %s.", removed), nil
}

func (s *session) completeCheckin(_ context.Context, args map[string]any) (string, error) {
	if s.state.Mood == "" {
		return "", tools.Rejectf("I still need today's mood and energy before saving.")
	}
	if len(s.state.Objectives) == 0 {
		return "", tools.Rejectf("Let's set at least one objective before saving.")
	}
	entry := Entry{
		ID:          s.newID(),
		CompletedAt: s.now().UTC(),
		Summary:     tools.String(args, "summary"),
		State:       s.state,
	}
	if err := s.log.Append(entry); err != nil {
		return "", fmt.Errorf("failed to save check-in: %w", err)
	}
	logging.Persona("Wellness check-in %s saved", entry.ID)

	s.state = State{}
	return fmt.Sprintf("Check-in saved with %d objective(s). Take care, and I'll ask about them next time.", len(entry.Objectives)), nil
}
