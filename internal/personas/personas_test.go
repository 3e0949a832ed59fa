package personas

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
)

func TestNames(t *testing.T) {
	assert.Equal(t,
		[]string{"barista", "fraud", "gamemaster", "improv", "sdr", "shop", "tutor", "wellness"},
		Names())
}

func TestLookup(t *testing.T) {
	f, err := Lookup("  Barista ")
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = Lookup("pirate")
	assert.ErrorIs(t, err, ErrUnknownPersona)
	assert.Contains(t, err.Error(), "available: barista, fraud")
}

func TestDescribe(t *testing.T) {
	infos := Describe()
	require.Len(t, infos, len(Names()))
	for i, info := range infos {
		assert.Equal(t, Names()[i], info.Name)
		assert.NotEmpty(t, info.Summary)
		assert.Equal(t, info.Name == "fraud", info.NeedsCases, info.Name)
	}
}

func TestBuildEveryPersona(t *testing.T) {
	cases := store.NewMemoryCaseStore()
	defer cases.Close()

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			a, err := Build(name, agent.Deps{
				DataDir: t.TempDir(),
				Company: "Acme",
				Cases:   cases,
				Now:     func() time.Time { return time.Date(2025, 11, 24, 9, 0, 0, 0, time.UTC) },
			})
			require.NoError(t, err)
			t.Cleanup(a.Close)

			assert.Equal(t, name, a.Name)
			assert.NotEmpty(t, a.Title)
			assert.NotEmpty(t, a.Instructions)
			assert.NotEmpty(t, a.Greeting)
			assert.NotNil(t, a.Snapshot())
			assert.Equal(t, name, a.Tools.Persona())
			assert.Positive(t, a.Tools.Count())

			for _, tool := range a.Tools.All() {
				assert.NoError(t, tool.Validate(), tool.Name)
				assert.NotEmpty(t, tool.Description, tool.Name)
			}
		})
	}
}

func TestBuildFraudWithoutCases(t *testing.T) {
	_, err := Build("fraud", agent.Deps{DataDir: t.TempDir()})
	assert.ErrorIs(t, err, agent.ErrMissingDependency)
}

func TestBuildGivesFreshState(t *testing.T) {
	deps := agent.Deps{DataDir: t.TempDir(), Company: "Brew"}
	first, err := Build("barista", deps)
	require.NoError(t, err)
	second, err := Build("barista", deps)
	require.NoError(t, err)

	first.Tools.Invoke(context.Background(), "set_drink", map[string]any{"drink": "latte"})
	assert.NotEqual(t, first.Snapshot(), second.Snapshot())
}
