package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a script",
	Long: "Rename a script and its file. Spaces become underscores and .py is\n" +
		"appended when missing. An existing file is never overwritten. Example:\n" +
		"  fnr rename function_003.py \"build docs\"",
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		ws, repo, err := openWorkspace()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		fn, err := ws.Rename(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("renamed %s -> %s\n", args[0], fn)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
