package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"circa/internal/driver"
	"circa/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI runs CheckDir in the background while a progress view
// consumes its events.
func runCheckWithUI(ctx context.Context, title string, proj *driver.Project, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = func(ev driver.ProgressEvent) { events <- ev }
		res, err := driver.CheckDir(ctx, proj.Root, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, proj.Files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы проверка не зависла на полном канале
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
