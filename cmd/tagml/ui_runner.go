package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tagml/internal/driver"
	"tagml/internal/ui"
)

type checkOutcome struct {
	run *driver.DirResult
	err error
}

// runCheckWithUI runs driver.ParseDir in the background and shows its
// progress events until the run ends or the user quits.
func runCheckWithUI(ctx context.Context, title, dir string, files []string, opts driver.Options, jobs int) (*driver.DirResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)
	opts.Progress = func(ev driver.ProgressEvent) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	go func() {
		run, err := driver.ParseDir(ctx, dir, opts, jobs)
		outcomeCh <- checkOutcome{run: run, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// ctrl+c: воркеры больше не ждут UI
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.run, uiErr
	}
	return outcome.run, outcome.err
}
