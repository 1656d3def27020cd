package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/debug"
)

// maxOutput caps captured stdout/stderr per hook.
const maxOutput = 8 << 10

// HookResult is the outcome of one hook run.
type HookResult struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error
}

// Executor runs configured hooks for one export.
type Executor struct {
	config  *Config
	export  ExportContext
	results []HookResult
}

// NewExecutor creates an executor for the given export.
func NewExecutor(cfg *Config, export ExportContext) *Executor {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Executor{config: cfg, export: export}
}

// RunHooks loads hooks.yaml from dir and returns an executor, or nil when
// hooks are disabled or none are configured.
func RunHooks(dir string, export ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	loader := NewLoader(WithDir(dir))
	if err := loader.Load(); err != nil {
		return nil, err
	}
	for _, w := range loader.Warnings() {
		debug.Logw(w, debug.FieldPath, loader.Path())
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	return NewExecutor(loader.Config(), export), nil
}

// SetExport updates the context passed to later hooks, e.g. once the final
// path is known.
func (e *Executor) SetExport(export ExportContext) {
	e.export = export
}

// RunPreExport runs pre-export hooks in order and stops at the first failing
// hook whose policy is "fail".
func (e *Executor) RunPreExport(ctx context.Context) error {
	for _, h := range e.config.Hooks.PreExport {
		r := e.run(ctx, h, PreExport)
		if !r.Success && h.OnError != OnErrorContinue {
			return xerrors.Wrapf(r.Err, "pre-export hook %q failed", h.Name)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook and reports the first failure
// whose policy is "fail".
func (e *Executor) RunPostExport(ctx context.Context) error {
	var first error
	for _, h := range e.config.Hooks.PostExport {
		r := e.run(ctx, h, PostExport)
		if !r.Success && h.OnError == OnErrorFail && first == nil {
			first = xerrors.Wrapf(r.Err, "post-export hook %q failed", h.Name)
		}
	}
	return first
}

func (e *Executor) run(ctx context.Context, h Hook, phase HookPhase) HookResult {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	exportEnv := e.export.ToEnv()
	lookup := make(map[string]string, len(exportEnv))
	for _, kv := range exportEnv {
		k, v, _ := strings.Cut(kv, "=")
		lookup[k] = v
	}
	expand := func(s string) string {
		return os.Expand(s, func(k string) string {
			if v, ok := lookup[k]; ok {
				return v
			}
			return os.Getenv(k)
		})
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", h.Command)
	cmd.Env = append(os.Environ(), exportEnv...)
	for k, v := range h.Env {
		cmd.Env = append(cmd.Env, k+"="+expand(v))
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r := HookResult{
		Hook:     h,
		Phase:    phase,
		Success:  err == nil,
		Stdout:   capOutput(strings.TrimRight(stdout.String(), "\n")),
		Stderr:   capOutput(strings.TrimRight(stderr.String(), "\n")),
		Duration: time.Since(start),
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = xerrors.Newf("timed out after %s", timeout)
		}
		r.Err = err
	}
	debug.Logw("hook finished", "hook", h.Name, "phase", string(phase), "ok", r.Success,
		debug.FieldDurationMS, r.Duration.Milliseconds())
	e.results = append(e.results, r)
	return r
}

func capOutput(s string) string {
	if len(s) <= maxOutput {
		return s
	}
	return s[:maxOutput] + "\n[output truncated]"
}

// Results returns the results of every hook run so far.
func (e *Executor) Results() []HookResult {
	return e.results
}

// Summary renders one line per hook, with a stderr excerpt for failures.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, r := range e.results {
		status := "ok"
		if !r.Success {
			status = "FAILED"
		}
		fmt.Fprintf(&sb, "%s %s: %s (%s)\n", r.Phase, r.Hook.Name, status, r.Duration.Round(time.Millisecond))
		if !r.Success {
			if msg := strings.TrimSpace(r.Stderr); msg != "" {
				fmt.Fprintf(&sb, "  %s\n", truncate(msg, 200))
			} else if r.Err != nil {
				fmt.Fprintf(&sb, "  %v\n", r.Err)
			}
		}
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
