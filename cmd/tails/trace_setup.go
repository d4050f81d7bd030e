package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tails/internal/project"
	"tails/internal/trace"
)

// activeTracer is kept for the crash dump in run.
var activeTracer trace.Tracer = trace.Nop

// setupTracing builds the tracer from flags, falling back to the [trace]
// section of tails.toml for unset flags, and attaches it to cmd's context.
func setupTracing(cmd *cobra.Command, cfg project.TraceConfig) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	pick := func(flag, fromManifest string) string {
		if v, _ := flags.GetString(flag); v != "" {
			return v
		}
		return fromManifest
	}
	levelStr := pick("trace-level", cfg.Level)
	output := pick("trace", cfg.Output)
	if levelStr == "" {
		levelStr = "off"
		if output != "" {
			levelStr = "phase"
		}
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	modeStr := pick("trace-mode", cfg.Mode)
	if modeStr == "" {
		modeStr = "stream"
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	ringSize, _ := flags.GetInt("trace-ring-size")

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     trace.ParseFormat(pick("trace-format", cfg.Format)),
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
