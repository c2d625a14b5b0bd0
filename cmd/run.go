package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/fnr/internal/recorder"
	"github.com/VoxDroid/fnr/internal/rows"
	"github.com/VoxDroid/fnr/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run [name...]",
	Short: "Run scripts in list order",
	Long: "Run the named scripts, or every checked script with --checked.\n" +
		"A failing script is reported and the next one still runs. A script\n" +
		"whose own main() exits with status 86 is reported as failed; only a\n" +
		"script without main() is reported as having no entry point. Example:\n" +
		"  fnr run --checked\n  fnr run build_docs.py deploy",
	RunE: func(cmd *cobra.Command, args []string) error {
		checked, _ := cmd.Flags().GetBool("checked")
		dry, _ := cmd.Flags().GetBool("dry-run")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		if checked == (len(args) > 0) {
			return errors.New("specify script names or --checked (not both)")
		}

		ws, repo, err := openWorkspace()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		var targets []rows.Row
		if checked {
			targets = ws.Store().Checked()
		} else if targets, err = ws.Targets(args); err != nil {
			return err
		}
		if len(targets) == 0 {
			fmt.Println("no checked scripts to run")
			return nil
		}

		opts := []runner.Option{
			runner.WithOutput(os.Stdout, os.Stderr),
			runner.WithStdin(os.Stdin),
			runner.WithBeforeEach(func(row rows.Row) { fmt.Printf("-> %s\n", row.DisplayName) }),
		}
		if !dry {
			opts = append(opts, runner.WithRecorder(recorder.New(repo, ws.Key())))
		}
		r := runner.New(execFactory(cfg, dry, cfg.Interactive), logger, opts...)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		results := r.RunAll(ctx, targets, ws.PathOf)
		return summarize(results, len(targets), ctx.Err())
	},
}

// summarize prints the outcome of a run. It fails when any script failed or
// the run was cut short.
func summarize(results []runner.Result, planned int, ctxErr error) error {
	var ok, noMain, failed int
	for _, res := range results {
		switch res.Status {
		case runner.StatusOK:
			ok++
		case runner.StatusNoEntryPoint:
			noMain++
			fmt.Printf("warning: %s has no main() entry point\n", res.Filename)
		default:
			failed++
			fmt.Printf("failed: %s: %v\n", res.Filename, res.Err)
		}
	}
	fmt.Printf("%d ok, %d without main(), %d failed\n", ok, noMain, failed)
	if ctxErr != nil && len(results) < planned {
		return fmt.Errorf("run stopped after %d of %d scripts: %w", len(results), planned, ctxErr)
	}
	if failed > 0 {
		return fmt.Errorf("%d script(s) failed", failed)
	}
	return nil
}

func init() {
	runCmd.Flags().Bool("checked", false, "Run every checked script")
	runCmd.Flags().Bool("dry-run", false, "Print the scripts that would run without running them")
	runCmd.Flags().Duration("timeout", 0, "Stop the run after this long (0 means no limit)")
	rootCmd.AddCommand(runCmd)
}
