package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [name...]",
	Short: "Mark scripts to be run by 'run --checked'",
	Long: "Mark scripts as checked. With --toggle-all every script is checked,\n" +
		"or every script is unchecked when all of them already are.",
	RunE: func(cmd *cobra.Command, args []string) error {
		toggle, _ := cmd.Flags().GetBool("toggle-all")
		return setChecked(args, true, toggle)
	},
}

var uncheckCmd = &cobra.Command{
	Use:   "uncheck <name>...",
	Short: "Clear the checked mark of scripts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setChecked(args, false, false)
	},
}

func setChecked(names []string, checked, toggleAll bool) error {
	if toggleAll == (len(names) > 0) {
		return errors.New("specify script names or --toggle-all (not both)")
	}
	ws, repo, err := openWorkspace()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	if toggleAll {
		err = ws.ToggleAll()
	} else {
		err = ws.SetChecked(names, checked)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%d of %d scripts checked\n", len(ws.Store().Checked()), ws.Store().Len())
	return nil
}

func init() {
	checkCmd.Flags().Bool("toggle-all", false, "Check every script, or uncheck all when all are checked")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(uncheckCmd)
}
