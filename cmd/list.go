package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scripts in run order",
	Long:  "List scripts in run order. Example:\n  fnr list --filter build --checked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, repo, err := openWorkspace()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		textFilter, _ := cmd.Flags().GetString("filter")
		checkedOnly, _ := cmd.Flags().GetBool("checked")
		st := ws.Store()
		shown := 0
		for _, i := range st.Filter(textFilter) {
			r, _ := st.Row(i)
			if checkedOnly && !r.Checked {
				continue
			}
			fmt.Println(r.Label(i))
			shown++
		}
		if shown == 0 && st.Len() == 0 {
			fmt.Printf("no scripts in %s (run 'fnr add' to create one)\n", ws.Key())
		}
		return nil
	},
}

func init() {
	listCmd.Flags().String("filter", "", "Only show scripts whose name fuzzy-matches the text")
	listCmd.Flags().Bool("checked", false, "Only show checked scripts")
	rootCmd.AddCommand(listCmd)
}
