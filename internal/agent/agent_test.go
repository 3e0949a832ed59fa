package agent

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepsWithDefaults(t *testing.T) {
	d := Deps{DataDir: "shared-data"}.WithDefaults()

	assert.NotNil(t, d.Now)
	assert.NotNil(t, d.Rand)
	assert.Len(t, d.NewID(), 36)
	assert.NotEqual(t, d.NewID(), d.NewID())
	assert.Equal(t, filepath.Join("shared-data", "orders.json"), d.DataPath("orders.json"))
}

func TestDepsRequire(t *testing.T) {
	d := Deps{}
	assert.NoError(t, d.Require("case store", true))
	assert.ErrorIs(t, d.Require("case store", d.Cases != nil), ErrMissingDependency)
}

func TestAgentCloseRunsInReverse(t *testing.T) {
	var order []int
	a := &Agent{}
	a.OnClose(func() { order = append(order, 1) })
	a.OnClose(func() { order = append(order, 2) })

	a.Close()
	a.Close()
	assert.Equal(t, []int{2, 1}, order)
}
