// Package gamemaster runs a short fantasy adventure, keeping the player's
// health, inventory and location honest while the model tells the story.
package gamemaster

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/tools"
	"github.com/Pratyush-06/Barista-Agent/internal/voice"
)

// Name is the persona key.
const Name = "gamemaster"

// Rules.
const (
	MaxHP        = 20
	MaxInventory = 8
	maxHistory   = 20

	startLocation = "the gates of Emberfall"
)

// DiceSides are the dice a player may roll.
var DiceSides = []int{4, 6, 8, 10, 12, 20}

// State is the adventure so far.
type State struct {
	PlayerName string   `json:"player_name"`
	HP         int      `json:"hp"`
	Inventory  []string `json:"inventory"`
	Location   string   `json:"location"`
	Turn       int      `json:"turn"`
	History    []string `json:"history"`
}

// Fallen reports whether the player has run out of health.
func (s State) Fallen() bool { return s.HP <= 0 }

func newState() State {
	return State{
		HP:        MaxHP,
		Inventory: []string{"torch", "worn map"},
		Location:  startLocation,
	}
}

type session struct {
	state State
	rng   *rand.Rand
}

// New builds a game master agent.
func New(deps agent.Deps) (*agent.Agent, error) {
	deps = deps.WithDefaults()
	s := &session{state: newState(), rng: deps.Rand}
	return &agent.Agent{
		Name:         Name,
		Title:        "Game Master",
		Company:      deps.Company,
		Instructions: Instructions(deps.Company),
		Greeting:     "Welcome, traveller, to the realm of Emberfall. Before our tale begins, what is your name?",
		Tools:        s.registry(),
		Voice:        voice.Options{Voice: "en-US-terrell", Style: "Narration", TextPacing: true},
		Snapshot:     func() any { return s.state },
	}, nil
}

func (s *session) registry() *tools.Registry {
	sides := make([]any, len(DiceSides))
	for i, d := range DiceSides {
		sides[i] = d
	}
	str := func(name string) tools.ToolSchema {
		return tools.ToolSchema{Required: []string{name}, Properties: map[string]tools.Property{name: {Type: "string"}}}
	}

	reg := tools.NewRegistry(Name)
	reg.MustRegister(&tools.Tool{Name: "set_player_name", Description: "Set the hero's name.", Execute: s.setPlayerName, Schema: str("name")})
	reg.MustRegister(&tools.Tool{
		Name:        "adjust_hp",
		Description: "Apply damage (negative) or healing (positive) to the player. HP stays within 0-20.",
		Execute:     s.adjustHP,
		Schema: tools.ToolSchema{
			Required: []string{"delta", "reason"},
			Properties: map[string]tools.Property{
				"delta":  {Type: "integer"},
				"reason": {Type: "string"},
			},
		},
	})
	reg.MustRegister(&tools.Tool{Name: "add_item", Description: "Put an item in the player's pack.", Execute: s.addItem, Schema: str("item")})
	reg.MustRegister(&tools.Tool{
		Name:        "remove_item",
		Description: "Remove an item by its 1-based position in the inventory.",
		Execute:     s.removeItem,
		Schema:      tools.ToolSchema{Required: []string{"index"}, Properties: map[string]tools.Property{"index": {Type: "integer"}}},
	})
	reg.MustRegister(&tools.Tool{Name: "move_to", Description: "Move the player to a new location.", Execute: s.moveTo, Schema: str("location")})
	reg.MustRegister(&tools.Tool{
		Name:        "roll_dice",
		Description: "Roll one die to decide an uncertain outcome.",
		Execute:     s.rollDice,
		Schema:      tools.ToolSchema{Required: []string{"sides"}, Properties: map[string]tools.Property{"sides": {Type: "integer", Enum: sides}}},
	})
	reg.MustRegister(&tools.Tool{Name: "get_status", Description: "Report the player's health, inventory and location.", Execute: s.getStatus})
	reg.MustRegister(&tools.Tool{Name: "restart_adventure", Description: "Start a new adventure from the beginning.", Execute: s.restart})
	return reg
}

func (s *session) record(event string) {
	s.state.Turn++
	s.state.History = append(s.state.History, event)
	if len(s.state.History) > maxHistory {
		s.state.History = s.state.History[len(s.state.History)-maxHistory:]
	}
}

func (s *session) alive() error {
	if s.state.Fallen() {
		return tools.Rejectf("%s has fallen. Offer to restart the adventure.", s.hero())
	}
	return nil
}

func (s *session) hero() string {
	if s.state.PlayerName == "" {
		return "The hero"
	}
	return s.state.PlayerName
}

func (s *session) setPlayerName(_ context.Context, args map[string]any) (string, error) {
	name := tools.String(args, "name")
	if name == "" {
		return "", tools.Rejectf("The hero needs a name.")
	}
	s.state.PlayerName = name
	return fmt.Sprintf("The hero is now known as %s.", name), nil
}

// ClampHP bounds health to 0..MaxHP.
func ClampHP(hp int) int {
	if hp < 0 {
		return 0
	}
	if hp > MaxHP {
		return MaxHP
	}
	return hp
}

func (s *session) adjustHP(_ context.Context, args map[string]any) (string, error) {
	if err := s.alive(); err != nil {
		return "", err
	}
	delta, err := tools.Int(args, "delta")
	if err != nil {
		return "", err
	}
	reason := tools.String(args, "reason")
	delta = max(-MaxHP, min(MaxHP, delta))

	before := s.state.HP
	s.state.HP = ClampHP(before + delta)
	change := s.state.HP - before
	s.record(fmt.Sprintf("HP %+d (%s)", change, reason))

	if s.state.Fallen() {
		return fmt.Sprintf("%s takes %d damage from %s and falls. HP 0/%d. The adventure is over unless they restart.", s.hero(), -change, reason, MaxHP), nil
	}
	if change >= 0 {
		return fmt.Sprintf("%s recovers %d HP (%s). HP %d/%d.", s.hero(), change, reason, s.state.HP, MaxHP), nil
	}
	return fmt.Sprintf("%s takes %d damage (%s). HP %d/%d.", s.hero(), -change, reason, s.state.HP, MaxHP), nil
}

func (s *session) addItem(_ context.Context, args map[string]any) (string, error) {
	if err := s.alive(); err != nil {
		return "", err
	}
	item := tools.String(args, "item")
	if item == "" {
		return "", tools.Rejectf("What item?")
	}
	if len(s.state.Inventory) >= MaxInventory {
		return "", tools.Rejectf("The pack is full (%d items). Something must be dropped first.", MaxInventory)
	}
	s.state.Inventory = append(s.state.Inventory, item)
	s.record("found " + item)
	return fmt.Sprintf("Added %s to the pack.", item), nil
}

func (s *session) removeItem(_ context.Context, args map[string]any) (string, error) {
	if err := s.alive(); err != nil {
		return "", err
	}
	idx, err := tools.Int(args, "index")
	if err != nil {
		return "", err
	}
	n := len(s.state.Inventory)
	if n == 0 {
		return "", tools.Rejectf("The pack is empty.")
	}
	if idx < 1 || idx > n {
		return "", tools.Rejectf("Item %d does not exist. Choose between 1 and %d.", idx, n)
	}
	item := s.state.Inventory[idx-1]
	s.state.Inventory = append(s.state.Inventory[:idx-1:idx-1], s.state.Inventory[idx:]...)
	s.record("lost " + item)
	return fmt.Sprintf("Removed %s from the pack.", item), nil
}

func (s *session) moveTo(_ context.Context, args map[string]any) (string, error) {
	if err := s.alive(); err != nil {
		return "", err
	}
	loc := tools.String(args, "location")
	if loc == "" {
		return "", tools.Rejectf("Where to?")
	}
	s.state.Location = loc
	s.record("moved to " + loc)
	return fmt.Sprintf("%s arrives at %s.", s.hero(), loc), nil
}

func (s *session) rollDice(_ context.Context, args map[string]any) (string, error) {
	if err := s.alive(); err != nil {
		return "", err
	}
	sides, err := tools.Int(args, "sides")
	if err != nil {
		return "", err
	}
	allowed := false
	for _, d := range DiceSides {
		allowed = allowed || d == sides
	}
	if !allowed {
		return "", tools.Rejectf("There is no d%d. Roll one of d4, d6, d8, d10, d12 or d20.", sides)
	}
	roll := s.rng.IntN(sides) + 1
	s.record(fmt.Sprintf("rolled d%d: %d", sides, roll))
	switch {
	case roll == sides:
		return fmt.Sprintf("Rolled a d%d: %d. A critical success!", sides, roll), nil
	case roll == 1:
		return fmt.Sprintf("Rolled a d%d: 1. A critical failure!", sides), nil
	default:
		return fmt.Sprintf("Rolled a d%d: %d.", sides, roll), nil
	}
}

func (s *session) getStatus(_ context.Context, _ map[string]any) (string, error) {
	inv := "nothing"
	if len(s.state.Inventory) > 0 {
		parts := make([]string, len(s.state.Inventory))
		for i, item := range s.state.Inventory {
			parts[i] = fmt.Sprintf("%d. %s", i+1, item)
		}
		inv = strings.Join(parts, ", ")
	}
	status := fmt.Sprintf("%s is at %s with %d/%d HP, carrying %s. Turn %d.", s.hero(), s.state.Location, s.state.HP, MaxHP, inv, s.state.Turn)
	if s.state.Fallen() {
		status += " They have fallen."
	}
	return status, nil
}

func (s *session) restart(_ context.Context, _ map[string]any) (string, error) {
	name := s.state.PlayerName
	s.state = newState()
	s.state.PlayerName = name
	return fmt.Sprintf("A new adventure begins at %s with full health.", startLocation), nil
}
