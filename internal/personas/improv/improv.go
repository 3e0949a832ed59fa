// Package improv hosts "Improv Battle", a short improvisation game show.
package improv

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/tools"
	"github.com/Pratyush-06/Barista-Agent/internal/voice"
)

// Name is the persona key.
const Name = "improv"

// MaxRounds is the length of a show.
const MaxRounds = 3

// Phase is where the show is.
type Phase string

const (
	PhaseIntro          Phase = "intro"
	PhaseAwaitingImprov Phase = "awaiting_improv"
	PhaseReacting       Phase = "reacting"
	PhaseDone           Phase = "done"
)

// Scenarios are the prompts a round can draw.
var Scenarios = []string{
	"You are a barista who has to tell a customer their latte is actually a portal to another dimension.",
	"You are a time-travelling tour guide showing a group around the year 3025, but you forgot the history.",
	"You are a cat trying to convince its owner that the broken vase was an act of modern art.",
	"You are a customer returning a haunted umbrella to a very sceptical shop clerk.",
	"You are a weather reporter whose forecast keeps coming true the moment you say it.",
	"You are a chef on a cooking show and every ingredient you pick up starts talking back.",
	"You are an astronaut calling mission control because you locked yourself out of the spaceship.",
}

// Round is one scenario and how it went.
type Round struct {
	Scenario    string `json:"scenario"`
	Performance string `json:"performance"`
	Reaction    string `json:"reaction"`
}

// State is the show so far.
type State struct {
	PlayerName string  `json:"player_name"`
	Phase      Phase   `json:"phase"`
	Round      int     `json:"round"`
	MaxRounds  int     `json:"max_rounds"`
	History    []Round `json:"history"`
}

type session struct {
	state State
	rng   *rand.Rand
}

// New builds an improv host agent.
func New(deps agent.Deps) (*agent.Agent, error) {
	deps = deps.WithDefaults()
	s := &session{
		state: State{Phase: PhaseIntro, MaxRounds: MaxRounds},
		rng:   deps.Rand,
	}
	return &agent.Agent{
		Name:         Name,
		Title:        "Improv Battle Host",
		Company:      deps.Company,
		Instructions: Instructions(deps.Company),
		Greeting:     "Welcome to Improv Battle! I'm your host. Who do we have on stage tonight?",
		Tools:        s.registry(),
		Voice:        voice.Options{Voice: "en-US-miles", Style: "Promo", TextPacing: true},
		Snapshot:     func() any { return s.state },
	}, nil
}

func (s *session) registry() *tools.Registry {
	str := func(name, desc string) tools.ToolSchema {
		return tools.ToolSchema{Required: []string{name}, Properties: map[string]tools.Property{name: {Type: "string", Description: desc}}}
	}
	reg := tools.NewRegistry(Name)
	reg.MustRegister(&tools.Tool{Name: "set_player_name", Description: "Record the contestant's name.", Execute: s.setPlayerName, Schema: str("name", "contestant name")})
	reg.MustRegister(&tools.Tool{Name: "start_next_round", Description: "Start the next round and get its scenario.", Execute: s.startNextRound})
	reg.MustRegister(&tools.Tool{Name: "record_performance", Description: "Record what the contestant performed for the current scenario.", Execute: s.recordPerformance, Schema: str("performance", "short summary of the performance")})
	reg.MustRegister(&tools.Tool{Name: "record_reaction", Description: "Record the host's reaction to the performance.", Execute: s.recordReaction, Schema: str("reaction", "the host's reaction")})
	reg.MustRegister(&tools.Tool{Name: "end_show", Description: "End the show at any point.", Execute: s.endShow})
	reg.MustRegister(&tools.Tool{Name: "get_show_status", Description: "Report the phase, round and history.", Execute: s.getShowStatus})
	return reg
}

func (s *session) current() *Round {
	return &s.state.History[len(s.state.History)-1]
}

func (s *session) setPlayerName(_ context.Context, args map[string]any) (string, error) {
	name := tools.String(args, "name")
	if name == "" {
		return "", tools.Rejectf("I didn't catch the contestant's name.")
	}
	s.state.PlayerName = name
	return fmt.Sprintf("Contestant is %s.", name), nil
}

// pickScenario draws a scenario not used earlier in the show.
func (s *session) pickScenario() string {
	used := make(map[string]bool, len(s.state.History))
	for _, r := range s.state.History {
		used[r.Scenario] = true
	}
	var fresh []string
	for _, sc := range Scenarios {
		if !used[sc] {
			fresh = append(fresh, sc)
		}
	}
	if len(fresh) == 0 {
		fresh = Scenarios
	}
	return fresh[s.rng.IntN(len(fresh))]
}

func (s *session) startNextRound(_ context.Context, _ map[string]any) (string, error) {
	switch s.state.Phase {
	case PhaseDone:
		return "", tools.Rejectf("The show is over.")
	case PhaseAwaitingImprov:
		return "", tools.Rejectf("Round %d is still waiting for a performance.", s.state.Round)
	case PhaseReacting:
		if s.current().Reaction == "" {
			return "", tools.Rejectf("React to round %d before moving on.", s.state.Round)
		}
	}
	if s.state.Round >= s.state.MaxRounds {
		return "", tools.Rejectf("All %d rounds are done. End the show.", s.state.MaxRounds)
	}

	s.state.Round++
	s.state.Phase = PhaseAwaitingImprov
	s.state.History = append(s.state.History, Round{Scenario: s.pickScenario()})
	return fmt.Sprintf("Round %d of %d. Scenario: %s", s.state.Round, s.state.MaxRounds, s.current().Scenario), nil
}

func (s *session) recordPerformance(_ context.Context, args map[string]any) (string, error) {
	if s.state.Phase != PhaseAwaitingImprov {
		return "", tools.Rejectf("There's no scenario waiting for a performance. Start the next round first.")
	}
	perf := tools.String(args, "performance")
	if perf == "" {
		return "", tools.Rejectf("The performance is empty.")
	}
	s.current().Performance = perf
	s.state.Phase = PhaseReacting
	return fmt.Sprintf("Performance for round %d recorded. Time to react.", s.state.Round), nil
}

func (s *session) recordReaction(_ context.Context, args map[string]any) (string, error) {
	if s.state.Phase != PhaseReacting {
		return "", tools.Rejectf("There's no performance to react to yet.")
	}
	if s.current().Reaction != "" {
		return "", tools.Rejectf("Round %d already has a reaction.", s.state.Round)
	}
	reaction := tools.String(args, "reaction")
	if reaction == "" {
		return "", tools.Rejectf("The reaction is empty.")
	}
	s.current().Reaction = reaction
	if s.state.Round >= s.state.MaxRounds {
		return "Reaction recorded. That was the final round, so wrap up the show.", nil
	}
	return fmt.Sprintf("Reaction recorded. %d rounds to go.", s.state.MaxRounds-s.state.Round), nil
}

func (s *session) endShow(_ context.Context, _ map[string]any) (string, error) {
	s.state.Phase = PhaseDone
	played := 0
	for _, r := range s.state.History {
		if r.Performance != "" {
			played++
		}
	}
	logging.Persona("Improv show ended after %d performed rounds", played)

	who := s.state.PlayerName
	if who == "" {
		who = "our contestant"
	}
	if played == 0 {
		return fmt.Sprintf("The show is over before it began. Thanks for stopping by, %s.", who), nil
	}
	return fmt.Sprintf("That's the show! %s performed %d of %d rounds.", who, played, s.state.MaxRounds), nil
}

func (s *session) getShowStatus(_ context.Context, _ map[string]any) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Phase %s, round %d of %d.", s.state.Phase, s.state.Round, s.state.MaxRounds)
	if s.state.PlayerName != "" {
		fmt.Fprintf(&b, " Contestant: %s.", s.state.PlayerName)
	}
	for i, r := range s.state.History {
		fmt.Fprintf(&b, " Round %d: %s", i+1, r.Scenario)
		if r.Performance != "" {
			fmt.Fprintf(&b, " Performance: %s.", r.Performance)
		}
		if r.Reaction != "" {
			fmt.Fprintf(&b, " Reaction: %s.", r.Reaction)
		}
	}
	return b.String(), nil
}
