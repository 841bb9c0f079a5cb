package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"eir/internal/diag"
	"eir/internal/driver"
	"eir/internal/hir"
	"eir/internal/lir"
	"eir/internal/lower"
	"eir/internal/observ"
	"eir/internal/samples"
	"eir/internal/trace"
)

// errDiagnostics signals a failed run whose diagnostics are already printed.
var errDiagnostics = errors.New("lowering reported errors")

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <sample>",
	Short: "Lower a built-in sample module and print its graphs",
	Long:  `Lower every function of a built-in sample module, run the configured passes and print the resulting LIR`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLower,
}

func init() {
	lowerCmd.Flags().String("incomplete", "", "partially lowerable constructs (reject|warn)")
	lowerCmd.Flags().StringSlice("passes", nil, "passes to run, in order (validate,propagate-constants)")
	lowerCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	lowerCmd.Flags().Bool("emit-hir", false, "print the HIR module before lowering")
	lowerCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

func runLower(cmd *cobra.Command, args []string) error {
	sample, ok := samples.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown sample %q (see eirc samples)", args[0])
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("incomplete") {
		if cfg.Compile.Incomplete, err = cmd.Flags().GetString("incomplete"); err != nil {
			return fmt.Errorf("failed to get incomplete flag: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("passes") {
		if cfg.Compile.Passes, err = cmd.Flags().GetStringSlice("passes"); err != nil {
			return fmt.Errorf("failed to get passes flag: %w", err)
		}
	}
	if cmd.Flags().Changed("jobs") {
		if cfg.Compile.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	emitHIR, err := cmd.Flags().GetBool("emit-hir")
	if err != nil {
		return fmt.Errorf("failed to get emit-hir flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	passes, err := driver.ParsePasses(cfg.Compile.Passes)
	if err != nil {
		origin := cfg.Path
		if origin == "" || cmd.Flags().Changed("passes") {
			origin = "--passes"
		}
		d := diag.NewError(diag.ProjUnknownPass, diag.FuncLocation(origin), err.Error())
		printDiagnostics(cmd.ErrOrStderr(), []*diag.Diagnostic{d}, false)
		return errDiagnostics
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	tracer, cleanup, err := setupTracing(cmd, &cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	mod := sample.Build()
	out := cmd.OutOrStdout()
	if emitHIR {
		if err := hir.Dump(out, mod); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	timer := observ.NewTimer()
	span := trace.Begin(tracer, trace.ScopeDriver, "lower", 0)
	ctx := trace.WithSpan(cmd.Context(), span)
	idx := timer.Begin("compile")
	res, err := driver.Compile(ctx, mod, driver.Options{
		Lower:          cfg.LowerOptions(),
		Jobs:           cfg.Compile.Jobs,
		Passes:         passes,
		MaxDiagnostics: cfg.Compile.MaxDiagnostics,
		Timer:          timer,
	})
	timer.End(idx, sample.Name)
	if err != nil {
		span.End("failed")
		dumpRing(cmd.ErrOrStderr(), tracer)
		if errors.Is(err, lower.ErrInvariant) {
			d := diag.NewError(diag.LowerInvariant, diag.FuncLocation(string(mod.Name)), err.Error())
			printDiagnostics(cmd.ErrOrStderr(), []*diag.Diagnostic{d}, false)
			return errDiagnostics
		}
		return err
	}
	span.End("")

	for i, fr := range res.Functions {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := lir.DumpFunc(out, fr.Ident.String(), fr.CFG); err != nil {
			return err
		}
	}

	res.Bag.Dedup()
	res.Bag.Sort()
	items := res.Bag.Items()
	if quiet {
		items = diag.AtLeast(items, diag.SevWarning)
	}
	printDiagnostics(cmd.ErrOrStderr(), items, withNotes)
	if res.Bag.Dropped() > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d more diagnostics dropped (--max-diagnostics)\n", res.Bag.Dropped())
	}
	if showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if res.Bag.HasErrors() {
		dumpRing(cmd.ErrOrStderr(), tracer)
		return errDiagnostics
	}
	return nil
}

var severityColors = map[diag.Severity]*color.Color{
	diag.SevError:   color.New(color.FgRed, color.Bold),
	diag.SevWarning: color.New(color.FgYellow, color.Bold),
	diag.SevInfo:    color.New(color.FgCyan),
}

// printDiagnostics renders the short format with the severity and code
// coloured.
func printDiagnostics(w io.Writer, items []*diag.Diagnostic, withNotes bool) {
	locColor := color.New(color.Bold)
	for _, d := range items {
		sev := severityColors[d.Severity].Sprintf("%s %s", d.Severity, d.Code.ID())
		fmt.Fprintf(w, "%s: %s: %s\n", locColor.Sprint(d.Primary.String()), sev, d.Message)
		if !withNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s: %s\n", n.Loc, n.Msg)
		}
	}
}
