package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"calltraits/internal/driver"
	"calltraits/internal/ui"
)

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

// runCheckWithUI runs driver.Check in the background and renders its
// progress events until it returns.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.CheckResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = func(ev driver.ProgressEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		res, err := driver.Check(ctx, files, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the check has already returned unless the UI quit early
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
