package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/fnr/internal/config"
	"github.com/VoxDroid/fnr/internal/db"
	"github.com/VoxDroid/fnr/internal/executor"
	"github.com/VoxDroid/fnr/internal/logging"
	"github.com/VoxDroid/fnr/internal/scriptdir"
	"github.com/VoxDroid/fnr/internal/state"
	"github.com/VoxDroid/fnr/internal/workspace"
)

var (
	// cfg and logger are resolved before every command runs.
	cfg       config.Config
	logger    = logging.Discard()
	logCloser io.Closer
)

// execFactory builds the script executor. Tests replace it to avoid
// starting an interpreter.
var execFactory = func(c config.Config, dryRun, interactive bool) executor.Runner {
	return &executor.Executor{
		Interpreter: c.Interpreter,
		Dir:         c.WorkDir,
		Interactive: interactive,
		DryRun:      dryRun,
		Verbose:     dryRun,
	}
}

var rootCmd = &cobra.Command{
	Use:   "fnr",
	Short: "fnr keeps an ordered list of Python functions and runs them",
	Long: "fnr manages a directory of Python scripts that each define main().\n" +
		"The list order is kept in the directory's .order file; checked flags,\n" +
		"the sort direction and run history are kept in a local SQLite database.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("fnr: run 'fnr --help' to see available commands, or 'fnr tui'")
	},
}

// Execute executes the root command
func Execute() {
	err := rootCmd.Execute()
	closeLogger()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("dir", "functions", "Script directory")
	pf.String("log-level", "info", "Log level: fatal, error, warn, info, debug or verbose")
	pf.String("log-file", "", "Rotating log file (default <data dir>/logs/fnr.log; \"\" with --log-file= disables it)")
	pf.String("interpreter", "", "Interpreter command line (default python3, or python on Windows)")
	pf.String("workdir", "", "Working directory for scripts (default: parent of --dir)")
	pf.Bool("interactive", false, "Give scripts a terminal for prompts")
	pf.String("config", "", "Config file (default <data dir>/config.yaml)")
}

// setup loads the configuration and builds the logger for cmd.
func setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	c, err := config.Load(flags, configFile)
	if err != nil {
		return err
	}
	closeLogger()
	log, closer, err := logging.New(logging.Options{
		Level:  c.LogLevel,
		File:   c.LogFile,
		Stderr: logOutput(cmd),
	})
	if err != nil {
		return err
	}
	cfg, logger, logCloser = c, log, closer
	logger.Debug("config loaded", "dir", cfg.Dir, "workdir", cfg.WorkDir, "log_file", cfg.LogFile)
	return nil
}

// logOutput keeps console logging off the terminal while the TUI owns it.
func logOutput(cmd *cobra.Command) io.Writer {
	if cmd.Name() == "tui" {
		return io.Discard
	}
	return os.Stderr
}

func closeLogger() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

// openWorkspace opens the configured script directory together with its
// state in the database. The caller must close the returned repository.
func openWorkspace() (*workspace.Workspace, *state.Repository, error) {
	dbConn, err := db.InitDB()
	if err != nil {
		return nil, nil, err
	}
	repo := state.NewRepository(dbConn)
	ws, err := workspace.Open(scriptdir.Open(cfg.Dir, logger), repo, logger)
	if err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	return ws, repo, nil
}
