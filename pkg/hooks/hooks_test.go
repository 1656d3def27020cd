package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeHooksFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write hooks.yaml: %v", err)
	}
}

func testExport() ExportContext {
	return ExportContext{
		ExportPath:      "/tmp/radar.svg",
		ExportFormat:    "svg",
		View:            "radar",
		TechnologyCount: 12,
		Timestamp:       time.Date(2025, 11, 30, 10, 30, 0, 0, time.UTC),
	}
}

func TestExportContextToEnv(t *testing.T) {
	env := testExport().ToEnv()

	expected := map[string]string{
		"TRENDRADAR_EXPORT_PATH":      "/tmp/radar.svg",
		"TRENDRADAR_EXPORT_FORMAT":    "svg",
		"TRENDRADAR_VIEW":             "radar",
		"TRENDRADAR_TECHNOLOGY_COUNT": "12",
		"TRENDRADAR_TIMESTAMP":        "2025-11-30T10:30:00Z",
	}
	if len(env) != len(expected) {
		t.Fatalf("expected %d env vars, got %d", len(expected), len(env))
	}
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		if expected[k] != v {
			t.Errorf("%s = %q, want %q", k, v, expected[k])
		}
	}
}

func TestLoaderNoConfig(t *testing.T) {
	loader := NewLoader(WithDir(t.TempDir()))
	if err := loader.Load(); err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if loader.HasHooks() {
		t.Error("expected no hooks")
	}
}

func TestLoaderDefaultsAndWarnings(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, `
hooks:
  pre-export:
    - name: lint
      command: echo pre
      timeout: 5s
    - command: "   "
  post-export:
    - command: echo post
      timeout: 2
      env:
        DEST: ${TRENDRADAR_EXPORT_PATH}.bak
`)
	loader := NewLoader(WithDir(dir))
	if err := loader.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	pre := loader.GetHooks(PreExport)
	if len(pre) != 1 {
		t.Fatalf("expected empty command to be skipped, got %d pre hooks", len(pre))
	}
	if pre[0].Timeout != 5*time.Second || pre[0].OnError != OnErrorFail {
		t.Errorf("pre hook defaults wrong: %+v", pre[0])
	}

	post := loader.GetHooks(PostExport)
	if len(post) != 1 {
		t.Fatalf("expected 1 post hook, got %d", len(post))
	}
	if post[0].Name != "post-export-1" {
		t.Errorf("default name = %q", post[0].Name)
	}
	if post[0].Timeout != 2*time.Second {
		t.Errorf("bare seconds timeout = %v", post[0].Timeout)
	}
	if post[0].OnError != OnErrorContinue {
		t.Errorf("post default on_error = %q", post[0].OnError)
	}
	if len(loader.Warnings()) != 1 {
		t.Errorf("expected 1 warning, got %v", loader.Warnings())
	}
	if loader.GetHooks(HookPhase("unknown")) != nil {
		t.Error("unknown phase should have no hooks")
	}
}

func TestLoaderInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeHooksFile(t, dir, "hooks: [oops")
	if err := NewLoader(WithDir(dir)).Load(); err == nil {
		t.Fatal("expected parse error")
	}

	writeHooksFile(t, dir, "hooks:\n  pre-export:\n    - command: echo\n      timeout: soon\n")
	if err := NewLoader(WithDir(dir)).Load(); err == nil {
		t.Fatal("expected invalid timeout error")
	}
}

func TestExecutorEnvironment(t *testing.T) {
	t.Setenv("HOOK_TEST_VAR", "outer")
	cfg := &Config{Hooks: HooksByPhase{PreExport: []Hook{{
		Name:    "env",
		Command: `echo "$TRENDRADAR_EXPORT_PATH $TRENDRADAR_TECHNOLOGY_COUNT $DEST"`,
		Timeout: 5 * time.Second,
		Env:     map[string]string{"DEST": "${TRENDRADAR_VIEW}-${HOOK_TEST_VAR}"},
		OnError: OnErrorFail,
	}}}}

	exec := NewExecutor(cfg, testExport())
	if err := exec.RunPreExport(context.Background()); err != nil {
		t.Fatalf("RunPreExport: %v", err)
	}
	res := exec.Results()
	if len(res) != 1 {
		t.Fatalf("expected 1 result, got %d", len(res))
	}
	if res[0].Stdout != "/tmp/radar.svg 12 radar-outer" {
		t.Errorf("stdout = %q", res[0].Stdout)
	}
}

func TestRunPreExportStopsOnFail(t *testing.T) {
	cfg := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "fail", Command: "echo broken >&2; exit 3", Timeout: time.Second, OnError: OnErrorFail},
		{Name: "never", Command: "echo unreachable", Timeout: time.Second, OnError: OnErrorFail},
	}}}

	exec := NewExecutor(cfg, testExport())
	err := exec.RunPreExport(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(exec.Results()) != 1 {
		t.Fatalf("second hook should not run, got %d results", len(exec.Results()))
	}
	if !strings.Contains(exec.Summary(), "broken") {
		t.Errorf("summary should include stderr, got %q", exec.Summary())
	}
}

func TestRunPreExportContinuePolicy(t *testing.T) {
	cfg := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "soft", Command: "exit 1", Timeout: time.Second, OnError: OnErrorContinue},
		{Name: "next", Command: "true", Timeout: time.Second, OnError: OnErrorFail},
	}}}

	exec := NewExecutor(cfg, testExport())
	if err := exec.RunPreExport(context.Background()); err != nil {
		t.Fatalf("continue policy should not fail: %v", err)
	}
	if len(exec.Results()) != 2 {
		t.Fatalf("expected both hooks to run, got %d", len(exec.Results()))
	}
}

func TestRunPostExportFailOnErrorStillRunsAll(t *testing.T) {
	cfg := &Config{Hooks: HooksByPhase{PostExport: []Hook{
		{Name: "fail", Command: "exit 1", Timeout: time.Second, OnError: OnErrorFail},
		{Name: "after", Command: "echo ok", Timeout: time.Second, OnError: OnErrorContinue},
	}}}

	exec := NewExecutor(cfg, testExport())
	if err := exec.RunPostExport(context.Background()); err == nil {
		t.Fatal("expected error when post-export hook fails with on_error=fail")
	}
	if len(exec.Results()) != 2 {
		t.Fatalf("expected both hooks recorded, got %d", len(exec.Results()))
	}
}

func TestExecutorHookTimeout(t *testing.T) {
	cfg := &Config{Hooks: HooksByPhase{PreExport: []Hook{
		{Name: "slow", Command: "sleep 10", Timeout: 100 * time.Millisecond, OnError: OnErrorFail},
	}}}

	exec := NewExecutor(cfg, testExport())
	err := exec.RunPreExport(context.Background())
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if exec.Results()[0].Duration < 100*time.Millisecond {
		t.Errorf("expected duration >= 100ms, got %v", exec.Results()[0].Duration)
	}
}

func TestRunHooks(t *testing.T) {
	dir := t.TempDir()
	exec, err := RunHooks(dir, ExportContext{}, false)
	if err != nil || exec != nil {
		t.Fatalf("missing config should return nil executor, got exec=%v err=%v", exec, err)
	}

	writeHooksFile(t, dir, "hooks:\n  post-export:\n    - command: echo ok\n")
	exec, err = RunHooks(dir, testExport(), true)
	if err != nil || exec != nil {
		t.Fatalf("noHooks should short-circuit, got exec=%v err=%v", exec, err)
	}

	exec, err = RunHooks(dir, testExport(), false)
	if err != nil {
		t.Fatalf("RunHooks: %v", err)
	}
	if exec == nil || len(exec.config.Hooks.PostExport) != 1 {
		t.Fatal("expected executor with one post hook")
	}
	if len(exec.Results()) != 0 {
		t.Fatal("results should be empty before runs")
	}
}

func TestTruncateBehaviour(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate should return original when shorter, got %q", got)
	}
	if got := truncate("abcdefghijklmnopqrstuvwxyz", 8); got != "abcde..." {
		t.Fatalf("unexpected truncation output: %q", got)
	}
}
