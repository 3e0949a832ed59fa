package wellness

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
)

func newWellness(t *testing.T, dir string) *agent.Agent {
	t.Helper()
	a, err := New(agent.Deps{
		DataDir: dir,
		Company: "Mindful Days",
		Now:     func() time.Time { return time.Date(2025, 11, 24, 8, 0, 0, 0, time.UTC) },
		NewID:   func() string { return "checkin-1" },
	})
	require.NoError(t, err)
	return a
}

func call(a *agent.Agent, tool string, args map[string]any) string {
	return a.Tools.Invoke(context.Background(), tool, args)
}

func state(a *agent.Agent) State { return a.Snapshot().(State) }

func TestClampEnergy(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, 1}, {0, 1}, {1, 1}, {6, 6}, {10, 10}, {11, 10}, {1000, 10},
	}
	for _, tt := range tests {
		got := ClampEnergy(tt.in)
		assert.Equal(t, tt.want, got, "ClampEnergy(%d)", tt.in)
		assert.True(t, got >= MinEnergy && got <= MaxEnergy)
	}
}

func TestRecordMood(t *testing.T) {
	a := newWellness(t, t.TempDir())

	assert.Equal(t, "Noted: feeling calm, energy 7/10.", call(a, "record_mood", map[string]any{"mood": "calm", "energy": float64(7)}))
	assert.Equal(t, "Noted: feeling wired, energy 10/10 (adjusted from 14 to fit the 1-10 scale).",
		call(a, "record_mood", map[string]any{"mood": "wired", "energy": "14"}))
	assert.Equal(t, 10, state(a).Energy)

	call(a, "record_mood", map[string]any{"mood": "drained", "energy": -2})
	assert.Equal(t, 1, state(a).Energy)

	assert.Contains(t, call(a, "record_mood", map[string]any{"mood": "", "energy": 3}), "describe the mood")
	assert.Contains(t, call(a, "record_mood", map[string]any{"mood": "ok"}), "missing required argument: energy")
}

func TestObjectives(t *testing.T) {
	a := newWellness(t, t.TempDir())

	for i, obj := range []string{"walk 20 minutes", "drink water", "call mom"} {
		assert.Contains(t, call(a, "add_objective", map[string]any{"objective": obj}), "Objective")
		assert.Len(t, state(a).Objectives, i+1)
	}
	assert.Contains(t, call(a, "add_objective", map[string]any{"objective": "learn piano"}), "already have 3 objectives")
	assert.Len(t, state(a).Objectives, MaxObjectives)

	assert.Equal(t, "Objective 4 does not exist. Choose between 1 and 3.", call(a, "remove_objective", map[string]any{"index": 4}))
	assert.Equal(t, "Objective 0 does not exist. Choose between 1 and 3.", call(a, "remove_objective", map[string]any{"index": 0}))
	assert.Equal(t, "Removed objective: drink water.", call(a, "remove_objective", map[string]any{"index": 2}))
	assert.Equal(t, []string{"walk 20 minutes", "call mom"}, state(a).Objectives)
}

func TestCompleteCheckinAndRecall(t *testing.T) {
	dir := t.TempDir()
	a := newWellness(t, dir)

	assert.Equal(t, "No previous check-ins. This is the first one.", call(a, "get_last_checkin", nil))
	assert.Contains(t, call(a, "complete_checkin", map[string]any{"summary": "x"}), "mood and energy")

	call(a, "record_mood", map[string]any{"mood": "hopeful", "energy": 6})
	assert.Contains(t, call(a, "complete_checkin", map[string]any{"summary": "x"}), "at least one objective")

	call(a, "record_stress", map[string]any{"note": "deadline on Friday"})
	call(a, "add_objective", map[string]any{"objective": "take a lunch break"})
	assert.Contains(t, call(a, "complete_checkin", map[string]any{"summary": "Hopeful but busy."}), "Check-in saved with 1 objective(s)")
	assert.Equal(t, State{}, state(a))

	// A new session reads the saved entry.
	b := newWellness(t, dir)
	got := call(b, "get_last_checkin", nil)
	assert.Equal(t, `Last check-in on Monday, Nov 24: mood "hopeful", energy 6/10. Stress: deadline on Friday. Objectives were: take a lunch break.`, got)
}
