package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"eir/internal/project"
	"eir/internal/trace"
)

// setupTracing builds the tracer from the [trace] section of cfg, with the
// trace flags taking precedence, and attaches it to the command context.
// The returned tracer must be closed by the caller's cleanup.
func setupTracing(cmd *cobra.Command, cfg *project.Config) (trace.Tracer, func(), error) {
	flags := cmd.Root().PersistentFlags()
	for flag, dst := range map[string]*string{
		"trace":       &cfg.Trace.Output,
		"trace-level": &cfg.Trace.Level,
		"trace-mode":  &cfg.Trace.Mode,
	} {
		if !flags.Changed(flag) {
			continue
		}
		v, err := flags.GetString(flag)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		*dst = v
	}
	// --trace alone turns tracing on at phase level.
	if flags.Changed("trace") && !flags.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "phase"
	}

	tcfg, err := cfg.TracerConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace configuration: %w", err)
	}
	tcfg.RingSize, err = flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

// dumpRing writes the events held by a ring tracer. Other tracers have
// already written everything.
func dumpRing(w io.Writer, tracer trace.Tracer) {
	ring, ok := tracer.(*trace.RingTracer)
	if !ok || ring.Len() == 0 {
		return
	}
	fmt.Fprintf(w, "trace: last %d events\n", ring.Len())
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
