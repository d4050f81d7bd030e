package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tails/internal/driver"
	"tails/internal/pass"
	"tails/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	fault  any
}

// checkWithUI runs driver.Check in the background while a progress view
// follows the passes. A fault raised by the pipeline is re-raised here so
// that run can report it.
func checkWithUI(ctx context.Context, title string, loaded *driver.Loaded, opts driver.Options) (*driver.Result, error) {
	order := pass.NewRegistry().AddAll().Order()
	events := make(chan pass.Event, 2*len(order))
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		var outcome checkOutcome
		defer func() {
			outcome.fault = recover()
			outcomeCh <- outcome
			close(events)
		}()
		opts.Pass.Observer = func(ev pass.Event) { events <- ev }
		outcome.result = driver.Check(ctx, loaded, opts)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, order, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if outcome.fault != nil {
		panic(outcome.fault)
	}
	return outcome.result, uiErr
}
