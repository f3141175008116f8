package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"calc/internal/driver"
	"calc/internal/observ"
	"calc/internal/ui"
)

type diagnoseOutcome struct {
	results []driver.FileResult
	timer   *observ.Timer
	err     error
}

func runDiagnoseWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]driver.FileResult, *observ.Timer, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan diagnoseOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, timer, err := driver.Diagnose(ctx, files, opts)
		outcomeCh <- diagnoseOutcome{results: res, timer: timer, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI упал раньше драйвера: не даём ему заблокироваться на канале
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, outcome.timer, uiErr
	}
	return outcome.results, outcome.timer, outcome.err
}
