package cmd

import (
	"github.com/spf13/cobra"

	"github.com/VoxDroid/fnr/internal/utils"
)

// openEditor opens a file in the user's editor. Tests replace it.
var openEditor = utils.OpenEditor

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Open a script in $VISUAL or $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ws, repo, err := openWorkspace()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		i, err := ws.Resolve(args[0])
		if err != nil {
			return err
		}
		r, _ := ws.Store().Row(i)
		logger.Info("opening editor", "file", r.Filename)
		return openEditor(ws.PathOf(r.Filename))
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
