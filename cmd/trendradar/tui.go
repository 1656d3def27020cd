package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/trendradar/internal/datasource"
	"github.com/vanderheijden86/trendradar/internal/xerrors"
	"github.com/vanderheijden86/trendradar/pkg/config"
	"github.com/vanderheijden86/trendradar/pkg/debug"
	"github.com/vanderheijden86/trendradar/pkg/model"
	"github.com/vanderheijden86/trendradar/pkg/ui"
	"github.com/vanderheijden86/trendradar/pkg/watcher"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive radar explorer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	if !isInteractive() {
		return xerrors.WithHint(xerrors.New("the explorer needs an interactive terminal"),
			"use `trendradar render` or `trendradar rank` in scripts")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	snap, src, err := opts.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	debug.Logw("snapshot loaded", debug.FieldPath, src.Path, debug.FieldCount, len(snap.Technologies))

	bookmarks, err := config.LoadBookmarks(config.BookmarksPath())
	if err != nil {
		// Non-fatal: continue with an empty list
		debug.Log("bookmarks: %v", err)
	}

	uiOpts := ui.Options{
		Config:    opts.cfg,
		Source:    src.Path,
		Bookmarks: bookmarks,
		Loader: func(ctx context.Context) (model.Snapshot, error) {
			return datasource.LoadFromSourceContext(ctx, src)
		},
	}

	if opts.cfg.WatchEnabled() && src.Path != "" {
		w, err := watcher.NewWatcher(src.Path, watcher.WithOnError(func(err error) {
			debug.Log("watcher: %v", err)
		}))
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			debug.Log("live reload disabled: %v", err)
		} else {
			defer w.Stop()
			uiOpts.Watcher = w
		}
	}

	return runTUIProgram(ui.NewModel(snap, uiOpts))
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated runs: set TRENDRADAR_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("TRENDRADAR_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}
				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
