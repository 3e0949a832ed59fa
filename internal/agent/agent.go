// Package agent defines what a persona hands to the session runtime: its
// instructions, its greeting and the tools bound to its private state.
package agent

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Pratyush-06/Barista-Agent/internal/store"
	"github.com/Pratyush-06/Barista-Agent/internal/tools"
	"github.com/Pratyush-06/Barista-Agent/internal/voice"
)

// ErrMissingDependency is returned when a persona needs a service Deps lacks.
var ErrMissingDependency = errors.New("missing dependency")

// Agent is one persona instance. Its state lives for a single session and
// is reachable only through Tools.
type Agent struct {
	Name         string
	Title        string
	Company      string
	Instructions string
	Greeting     string
	Tools        *tools.Registry

	// Voice is the TTS voice the persona starts with.
	Voice voice.Options

	// Snapshot returns a copy of the session state for display.
	Snapshot func() any

	closers []func()
}

// OnClose registers fn to run when the session ends.
func (a *Agent) OnClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close runs the registered cleanup functions in reverse order.
func (a *Agent) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Deps are the process-wide services a persona may use.
type Deps struct {
	DataDir string
	Company string

	// TTS is nil when speech synthesis is unavailable.
	TTS voice.Synthesizer

	// Cases is required by personas that review fraud cases.
	Cases store.CaseStore

	// Now defaults to time.Now.
	Now func() time.Time

	// Rand defaults to a time-seeded source.
	Rand *rand.Rand

	// NewID defaults to uuid.NewString.
	NewID func() string
}

// WithDefaults fills unset clock, random source and id generator.
func (d Deps) WithDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		d.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

// DataPath resolves a data file name under DataDir.
func (d Deps) DataPath(name string) string {
	return filepath.Join(d.DataDir, name)
}

// Require returns ErrMissingDependency naming what is absent.
func (d Deps) Require(what string, ok bool) error {
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingDependency, what)
	}
	return nil
}

// Factory builds a fresh agent with fresh state.
type Factory func(deps Deps) (*Agent, error)

// ToolNames lists the agent's tools.
func (a *Agent) ToolNames() []string {
	return a.Tools.Names()
}
