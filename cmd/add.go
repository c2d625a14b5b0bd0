package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new script with a placeholder main()",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ws, repo, err := openWorkspace()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		name, err := ws.Add()
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", ws.PathOf(name))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
