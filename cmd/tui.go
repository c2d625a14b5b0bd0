package cmd

import (
	"github.com/spf13/cobra"

	"github.com/VoxDroid/fnr/cmd/tui/ui"
	"github.com/VoxDroid/fnr/internal/config"
	"github.com/VoxDroid/fnr/internal/recorder"
	"github.com/VoxDroid/fnr/internal/settings"
	"github.com/VoxDroid/fnr/internal/tui/adapters"
	"github.com/VoxDroid/fnr/internal/watch"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ws, repo, err := openWorkspace()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		settingsPath, err := config.SettingsPath()
		if err != nil {
			return err
		}
		size, err := settings.Load(settingsPath)
		if err != nil {
			logger.Warn("using default window size", "path", settingsPath, "err", err)
		}

		opts := ui.Options{Width: size.Width, Height: size.Height}
		w, err := watch.New(cfg.Dir, watch.DefaultDebounce)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			logger.Warn("directory watch disabled", "dir", cfg.Dir, "err", err)
		} else {
			defer func() { _ = w.Stop() }()
			go func() {
				for err := range w.Errors() {
					logger.Warn("directory watch", "err", err)
				}
			}()
			opts.Changes = w.Changes()
		}

		// scripts in the TUI never get the terminal; their output is captured
		runner := execFactory(cfg, false, false)
		execAdapter := adapters.NewExecutorAdapter(runner, recorder.New(repo, ws.Key()), logger)

		uiModel := ui.NewModel(ws, execAdapter, opts)
		p := ui.NewProgram(uiModel)
		final, err := p.Run()
		if err != nil {
			return err
		}
		m, ok := final.(*ui.TuiModel)
		if !ok {
			return nil
		}
		if width, height := m.Size(); width > 0 && height > 0 {
			if err := settings.Save(settingsPath, settings.Settings{Width: width, Height: height}); err != nil {
				logger.Warn("save window size", "path", settingsPath, "err", err)
			}
		}
		return m.Err()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
