package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:       "move <name> <up|down|top|bottom>",
	Short:     "Move a script in the run order",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"up", "down", "top", "bottom"},
	RunE: func(_ *cobra.Command, args []string) error {
		ws, repo, err := openWorkspace()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		pos, err := ws.Move(args[0], args[1])
		if err != nil {
			return err
		}
		r, _ := ws.Store().Row(pos)
		fmt.Println(r.Label(pos))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
