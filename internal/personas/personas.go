// Package personas maps persona names to agent factories.
package personas

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/barista"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/fraud"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/gamemaster"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/improv"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/sdr"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/shop"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/tutor"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/wellness"
)

// ErrUnknownPersona is returned for names not in the catalog.
var ErrUnknownPersona = errors.New("unknown persona")

// Info describes a persona for listings.
type Info struct {
	Name    string
	Summary string
	// NeedsCases is set when the persona requires a fraud case store.
	NeedsCases bool
}

type entry struct {
	info    Info
	factory agent.Factory
}

var catalog = map[string]entry{
	tutor.Name:      {Info{Name: tutor.Name, Summary: "Coding tutor with learn, quiz and teach-back modes"}, tutor.New},
	barista.Name:    {Info{Name: barista.Name, Summary: "Coffee shop order taker"}, barista.New},
	wellness.Name:   {Info{Name: wellness.Name, Summary: "Daily wellness check-in companion"}, wellness.New},
	sdr.Name:        {Info{Name: sdr.Name, Summary: "Sales development rep that answers FAQs and captures leads"}, sdr.New},
	fraud.Name:      {Info{Name: fraud.Name, Summary: "Bank fraud alert agent that verifies customers and resolves cases", NeedsCases: true}, fraud.New},
	gamemaster.Name: {Info{Name: gamemaster.Name, Summary: "Fantasy adventure game master"}, gamemaster.New},
	shop.Name:       {Info{Name: shop.Name, Summary: "Voice commerce assistant with cart and checkout"}, shop.New},
	improv.Name:     {Info{Name: improv.Name, Summary: "Improv Battle game show host"}, improv.New},
}

// Names returns the persona names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the factory for a persona, ignoring case.
func Lookup(name string) (agent.Factory, error) {
	e, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownPersona, name, strings.Join(Names(), ", "))
	}
	return e.factory, nil
}

// Describe returns every persona's info sorted by name.
func Describe() []Info {
	out := make([]Info, 0, len(catalog))
	for _, name := range Names() {
		out = append(out, catalog[name].info)
	}
	return out
}

// Build looks a persona up and constructs a fresh agent for one session.
func Build(name string, deps agent.Deps) (*agent.Agent, error) {
	factory, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	a, err := factory(deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", name, err)
	}
	return a, nil
}
