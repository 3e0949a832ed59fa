package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, o Options) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core), o)
	t.Cleanup(func() { Use(nil, Options{}) })
	return logs
}

func TestCategoryLoggersAreNamed(t *testing.T) {
	logs := observe(t, Options{})

	Tools("Executing tool: %s", "select_topic")
	StoreWarn("slow write to %s", "orders.json")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].LoggerName != "tools" || entries[0].Message != "Executing tool: select_topic" {
		t.Errorf("unexpected first entry: %+v", entries[0].Entry)
	}
	if entries[1].LoggerName != "store" || entries[1].Level != zapcore.WarnLevel {
		t.Errorf("unexpected second entry: %+v", entries[1].Entry)
	}
}

func TestDisabledCategoryIsSilent(t *testing.T) {
	logs := observe(t, Options{Categories: map[string]bool{"llm": false, "tools": true}})

	if IsCategoryEnabled(CategoryLLM) {
		t.Error("llm category should be disabled")
	}
	if !IsCategoryEnabled(CategoryPersona) {
		t.Error("unlisted categories should be enabled")
	}

	LLM("should not appear")
	Tools("should appear")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	if logs.All()[0].Message != "should appear" {
		t.Errorf("unexpected message %q", logs.All()[0].Message)
	}
}

func TestGetCachesLoggers(t *testing.T) {
	observe(t, Options{})
	if Get(CategorySession) != Get(CategorySession) {
		t.Error("expected the same logger instance for a category")
	}
}

func TestTimerThreshold(t *testing.T) {
	logs := observe(t, Options{})

	timer := StartTimer(CategoryLLM, "generate")
	time.Sleep(2 * time.Millisecond)
	timer.StopWithThreshold(time.Nanosecond)

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warns) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warns))
	}
}

func TestInitializeWritesDebugFile(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { Use(nil, Options{}) })

	if err := Initialize(Options{Level: "debug", Format: "json", DebugMode: true, Dir: dir}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	Session("hello from %s", "test")
	_ = Sync()

	matches, err := filepath.Glob(filepath.Join(dir, "*_agent.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one log file, got %v (err=%v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log file to have content")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
