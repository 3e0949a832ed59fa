package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Pratyush-06/Barista-Agent/internal/config"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/shop"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
	"github.com/Pratyush-06/Barista-Agent/internal/usage"
)

// setup points the global config at a temp data dir and returns a command
// whose output is captured.
func setup(t *testing.T, input string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	metricsAddr = ""
	plainMarkdown = false
	t.Cleanup(func() { cfg = nil })

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(input))
	return cmd, &out
}

func TestListPersonas(t *testing.T) {
	cmd, out := setup(t, "")
	require.NoError(t, listPersonas(cmd, nil))

	got := out.String()
	for _, name := range []string{"barista", "fraud", "gamemaster", "improv", "sdr", "shop", "tutor", "wellness"} {
		assert.Contains(t, got, name)
	}
	assert.Contains(t, got, "Coffee shop order taker (Brewtopia Coffee)")
}

func TestShowPersona(t *testing.T) {
	t.Run("plain markdown", func(t *testing.T) {
		cmd, out := setup(t, "")
		plainMarkdown = true
		require.NoError(t, showPersona(cmd, []string{"Barista"}))

		got := out.String()
		assert.True(t, strings.HasPrefix(got, "# Barista (barista)\n"), got)
		assert.Contains(t, got, "**Company:** Brewtopia Coffee")
		assert.Contains(t, got, "- `place_order`: ")
	})

	t.Run("rendered", func(t *testing.T) {
		cmd, out := setup(t, "")
		require.NoError(t, showPersona(cmd, []string{"fraud"}))
		assert.NotEmpty(t, out.String())
	})

	t.Run("unknown", func(t *testing.T) {
		cmd, _ := setup(t, "")
		assert.Error(t, showPersona(cmd, []string{"pirate"}))
	})
}

func TestSeedThenCases(t *testing.T) {
	cmd, out := setup(t, "")

	require.NoError(t, listCases(cmd, nil))
	assert.Contains(t, out.String(), "No fraud cases.")

	out.Reset()
	require.NoError(t, runSeed(cmd, nil))
	got := out.String()
	assert.Contains(t, got, "tutor content: 4 topics")
	assert.Contains(t, got, "shop catalog: 14 products")
	assert.Contains(t, got, "fraud cases: 3 added (sqlite backend)")
	assert.FileExists(t, cfg.DataPath("coding_tutor_content.json"))
	assert.FileExists(t, cfg.DataPath("fraud_cases.db"))

	out.Reset()
	require.NoError(t, runSeed(cmd, nil))
	assert.Contains(t, out.String(), "fraud cases: 0 added")

	out.Reset()
	require.NoError(t, listCases(cmd, nil))
	got = out.String()
	assert.Contains(t, got, "case-1001")
	assert.Contains(t, got, "Aarav Sharma")
	assert.Contains(t, got, "**** 4242")
	assert.Contains(t, got, "4,999.00 INR")
	assert.Contains(t, got, store.StatusPending)
}

func TestShowRecords(t *testing.T) {
	cmd, out := setup(t, "")

	require.NoError(t, showRecords(cmd, []string{"shop-orders"}))
	assert.Contains(t, out.String(), "No shop-orders recorded in "+filepath.Join(cfg.DataDir, shop.OrdersFile))

	order := shop.Order{
		ID:        "zp-1",
		PlacedAt:  time.Date(2025, 11, 24, 18, 0, 0, 0, time.UTC),
		BuyerName: "Meera",
		Total:     2900,
		Currency:  "INR",
	}
	require.NoError(t, store.NewJSONFile[shop.Order](cfg.DataPath(shop.OrdersFile)).Append(order))

	out.Reset()
	require.NoError(t, showRecords(cmd, []string{"SHOP-ORDERS"}))
	assert.Contains(t, out.String(), `"buyer_name": "Meera"`)

	err := showRecords(cmd, []string{"invoices"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "choose from leads, orders, shop-orders, wellness")
}

func TestRunPersonaConsole(t *testing.T) {
	t.Run("barista without a model", func(t *testing.T) {
		cmd, out := setup(t, "/call set_drink drink=mocha\n/quit\n")
		require.NoError(t, runPersona(cmd, []string{"barista"}))
		assert.Contains(t, out.String(), "set_drink → Drink set to mocha.")
	})

	t.Run("fraud seeds an empty store", func(t *testing.T) {
		cmd, out := setup(t, "/call load_case user_name=\"Aarav Sharma\"\n")
		cfg.Store.FraudBackend = "memory"
		require.NoError(t, runPersona(cmd, []string{"fraud"}))
		assert.Contains(t, out.String(), "Case found for Aarav Sharma.")
	})

	t.Run("unknown persona", func(t *testing.T) {
		cmd, _ := setup(t, "")
		assert.Error(t, runPersona(cmd, []string{"pirate"}))
	})
}

func TestShowUsage(t *testing.T) {
	cmd, out := setup(t, "")
	require.NoError(t, showUsage(cmd, nil))
	assert.Contains(t, out.String(), "No model requests recorded yet.")

	tracker, err := usage.Open(cfg.DataPath(usage.UsageFile))
	require.NoError(t, err)
	tracker.Track("gemini-2.5-flash", "shop", 300, 40)
	require.NoError(t, tracker.Save())

	out.Reset()
	require.NoError(t, showUsage(cmd, nil))
	got := out.String()
	assert.Contains(t, got, "gemini-2.5-flash")
	assert.Contains(t, got, "shop")
	assert.Contains(t, got, "340")
	assert.Contains(t, got, "1 requests")
}
