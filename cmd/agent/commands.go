package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/console"
	"github.com/Pratyush-06/Barista-Agent/internal/llm"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/metrics"
	"github.com/Pratyush-06/Barista-Agent/internal/personas"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/barista"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/sdr"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/shop"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/tutor"
	"github.com/Pratyush-06/Barista-Agent/internal/personas/wellness"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
	"github.com/Pratyush-06/Barista-Agent/internal/usage"
	"github.com/Pratyush-06/Barista-Agent/internal/voice"
)

var (
	metricsAddr   string
	plainMarkdown bool
)

// personasCmd lists the available personas
var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the available personas",
	Args:  cobra.NoArgs,
	RunE:  listPersonas,
}

// showCmd renders a persona's prompt and tools
var showCmd = &cobra.Command{
	Use:   "show [persona]",
	Short: "Show a persona's instructions and tools",
	Args:  cobra.ExactArgs(1),
	RunE:  showPersona,
}

// runCmd starts a console session
var runCmd = &cobra.Command{
	Use:   "run [persona]",
	Short: "Start a console session with a persona",
	Long: `Starts an interactive text session. With a Gemini API key configured every
line you type is one conversation turn; tool calls are resolved locally.
Slash commands (/help, /tools, /call, /state, /quit) work either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runPersona,
}

// seedCmd writes default content and sample fraud cases
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write default content files and seed sample fraud cases",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

// recordsCmd prints persisted records
var recordsCmd = &cobra.Command{
	Use:       "records [kind]",
	Short:     "Print persisted records (orders, leads, wellness, shop-orders)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: recordKinds(),
	RunE:      showRecords,
}

// usageCmd shows token usage
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show model token usage by model and persona",
	Args:  cobra.NoArgs,
	RunE:  showUsage,
}

// casesCmd lists fraud cases
var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List fraud cases and their status",
	Args:  cobra.NoArgs,
	RunE:  listCases,
}

func listPersonas(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	name := lipgloss.NewRenderer(out).NewStyle().Bold(true).Width(12)
	for _, info := range personas.Describe() {
		fmt.Fprintf(out, "%s %s (%s)\n", name.Render(info.Name), info.Summary, cfg.Company(info.Name))
	}
	return nil
}

func showPersona(cmd *cobra.Command, args []string) error {
	cases := store.NewMemoryCaseStore()
	defer cases.Close()

	a, err := personas.Build(args[0], agent.Deps{
		DataDir: cfg.DataDir,
		Company: cfg.Company(strings.ToLower(args[0])),
		Cases:   cases,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	md := personaMarkdown(a)
	if plainMarkdown {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

func personaMarkdown(a *agent.Agent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", a.Title, a.Name)
	fmt.Fprintf(&b, "**Company:** %s  \n**Voice:** %s\n\n", a.Company, a.Voice)
	fmt.Fprintf(&b, "> %s\n\n", a.Greeting)
	b.WriteString("## Instructions\n\n```text\n" + a.Instructions + "\n```\n\n## Tools\n\n")
	for _, t := range a.Tools.All() {
		fmt.Fprintf(&b, "- `%s`: %s\n", t.Name, t.Description)
	}
	return b.String()
}

// cmdContext tolerates commands invoked without Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func caseStoreOptions() store.CaseStoreOptions {
	return store.CaseStoreOptions{
		Backend:     cfg.Store.FraudBackend,
		SQLitePath:  cfg.DataPath(cfg.Store.SQLitePath),
		RedisAddr:   cfg.Store.RedisAddr,
		RedisDB:     cfg.Store.RedisDB,
		RedisPrefix: cfg.Store.RedisPrefix,
	}
}

func needsCases(name string) bool {
	for _, info := range personas.Describe() {
		if info.Name == strings.ToLower(strings.TrimSpace(name)) {
			return info.NeedsCases
		}
	}
	return false
}

// openModel returns nil when no model can be used.
func openModel(ctx context.Context) llm.Model {
	if !cfg.LLM.Enabled() {
		logging.BootWarn("No LLM API key configured; console runs with slash commands only")
		return nil
	}
	model, err := llm.NewGeminiModel(ctx, cfg.LLM, cfg.GetLLMTimeout())
	if err != nil {
		logger.Warn("LLM disabled", zap.Error(err))
		return nil
	}
	return model
}

func runPersona(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name := strings.ToLower(args[0])
	if _, err := personas.Lookup(name); err != nil {
		return err
	}

	caps := voice.LoadCapabilities(cfg.Voice)
	deps := agent.Deps{DataDir: cfg.DataDir, Company: cfg.Company(name), TTS: caps.TTS}
	if needsCases(name) {
		cases, err := store.OpenCaseStore(ctx, caseStoreOptions())
		if err != nil {
			logging.BootError("Fraud case store (%s) unavailable: %v", cfg.Store.FraudBackend, err)
			return err
		}
		defer cases.Close()
		if err := seedIfEmpty(ctx, cases); err != nil {
			return err
		}
		deps.Cases = cases
	}

	a, err := personas.Build(name, deps)
	if err != nil {
		return err
	}
	defer a.Close()
	if caps.TTS != nil {
		caps.TTS.UpdateOptions(a.Voice)
	}

	tracker, err := usage.Open(cfg.DataPath(usage.UsageFile))
	if err != nil {
		return err
	}
	defer func() {
		if err := tracker.Save(); err != nil {
			logger.Warn("Failed to save token usage", zap.Error(err))
		}
	}()
	ctx = usage.NewContext(ctx, tracker)

	logger.Info("Starting session", zap.String("persona", name), zap.String("company", a.Company))
	con := console.New(a, openModel(ctx), cfg.LLM.MaxToolRounds, cmd.OutOrStdout())

	addr := metricsAddr
	if addr == "" && cfg.Metrics.Enabled {
		addr = cfg.Metrics.Addr
	}

	g, gctx := errgroup.WithContext(ctx)
	var exporter *metrics.Exporter
	if addr != "" {
		exporter = metrics.NewExporter(addr)
		g.Go(func() error {
			logger.Info("Serving metrics", zap.String("addr", addr))
			if err := exporter.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics exporter: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer func() {
			if exporter == nil {
				return
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = exporter.Shutdown(shutdownCtx)
		}()
		return con.Run(gctx, cmd.InOrStdin())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func seedIfEmpty(ctx context.Context, cases store.CaseStore) error {
	existing, err := cases.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	added, err := store.SeedCases(ctx, cases, store.SampleCases())
	if err != nil {
		return err
	}
	logger.Info("Seeded empty case store", zap.Int("cases", added))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	out := cmd.OutOrStdout()

	lib, err := tutor.LoadLibrary(cfg.DataPath(tutor.ContentFile))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "tutor content: %d topics in %s\n", len(lib.Topics()), cfg.DataPath(tutor.ContentFile))

	company, err := sdr.LoadCompany(cfg.DataPath(sdr.CompanyFile), cfg.Company(sdr.Name))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "sdr company: %d FAQs, %d plans in %s\n", len(company.FAQs), len(company.Pricing), cfg.DataPath(sdr.CompanyFile))

	catalog, err := shop.LoadCatalog(cfg.DataPath(shop.CatalogFile))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "shop catalog: %d products in %s\n", len(catalog.Products), cfg.DataPath(shop.CatalogFile))

	cases, err := store.OpenCaseStore(ctx, caseStoreOptions())
	if err != nil {
		return err
	}
	defer cases.Close()
	added, err := store.SeedCases(ctx, cases, store.SampleCases())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "fraud cases: %d added (%s backend)\n", added, cfg.Store.FraudBackend)
	return nil
}

// recordFiles maps record kinds to their loader.
var recordFiles = map[string]func(path string) (any, int, error){
	"orders":      loadRecords[barista.PlacedOrder],
	"leads":       loadRecords[sdr.LeadRecord],
	"wellness":    loadRecords[wellness.Entry],
	"shop-orders": loadRecords[shop.Order],
}

var recordFileNames = map[string]string{
	"orders":      barista.OrdersFile,
	"leads":       sdr.LeadsFile,
	"wellness":    wellness.LogFile,
	"shop-orders": shop.OrdersFile,
}

func recordKinds() []string {
	kinds := make([]string, 0, len(recordFiles))
	for k := range recordFiles {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func loadRecords[T any](path string) (any, int, error) {
	records, err := store.NewJSONFile[T](path).Load()
	return records, len(records), err
}

func showRecords(cmd *cobra.Command, args []string) error {
	kind := strings.ToLower(args[0])
	load, ok := recordFiles[kind]
	if !ok {
		return fmt.Errorf("unknown record kind %q (choose from %s)", args[0], strings.Join(recordKinds(), ", "))
	}
	path := cfg.DataPath(recordFileNames[kind])
	records, n, err := load(path)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s recorded in %s.\n", kind, path)
		return nil
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func listCases(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	cases, err := store.OpenCaseStore(ctx, caseStoreOptions())
	if err != nil {
		return err
	}
	defer cases.Close()

	all, err := cases.List(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No fraud cases. Run \"agent seed\" to add the samples.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "CUSTOMER", "CARD", "MERCHANT", "AMOUNT", "STATUS")
	for _, c := range all {
		t.Row(c.ID, c.UserName, "**** "+c.CardEnding, c.Merchant, c.FormatAmount(), c.Status)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}

func showUsage(cmd *cobra.Command, args []string) error {
	tracker, err := usage.Open(cfg.DataPath(usage.UsageFile))
	if err != nil {
		return err
	}
	stats := tracker.Stats()
	if stats.Requests == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No model requests recorded yet.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SCOPE", "NAME", "INPUT", "OUTPUT", "TOTAL")
	addRows := func(scope string, m map[string]usage.TokenCounts) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c := m[k]
			t.Row(scope, k, fmt.Sprint(c.Input), fmt.Sprint(c.Output), fmt.Sprint(c.Total))
		}
	}
	addRows("model", stats.ByModel)
	addRows("persona", stats.ByPersona)
	t.Row("all", fmt.Sprintf("%d requests", stats.Requests), fmt.Sprint(stats.Total.Input), fmt.Sprint(stats.Total.Output), fmt.Sprint(stats.Total.Total))
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}
