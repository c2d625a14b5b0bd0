package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/fnr/internal/utils"
)

// confirmFunc asks the user a yes/no question. Tests replace it.
var confirmFunc = utils.Confirm

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Sort scripts alphabetically, alternating A-Z and Z-A",
	Long: "Sort scripts alphabetically by name. Each sort flips the direction\n" +
		"used by the next one. With --checked, checked scripts move to the top\n" +
		"instead, keeping their relative order.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		checked, _ := cmd.Flags().GetBool("checked")

		ws, repo, err := openWorkspace()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		if checked {
			if err := ws.MoveCheckedToTop(); err != nil {
				return err
			}
			fmt.Println("checked scripts moved to top")
			return nil
		}

		sorted, asc, err := ws.SortAlphabetical(func() bool {
			return yes || confirmFunc("Sort functions alphabetically?")
		})
		if err != nil {
			return err
		}
		switch {
		case !sorted:
			fmt.Println("aborted")
		case asc:
			fmt.Println("sorted A to Z")
		default:
			fmt.Println("sorted Z to A")
		}
		return nil
	},
}

func init() {
	sortCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	sortCmd.Flags().Bool("checked", false, "Move checked scripts to the top instead of sorting")
	rootCmd.AddCommand(sortCmd)
}
