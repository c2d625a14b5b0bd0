package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/fnr/internal/nameutil"
)

var historyCmd = &cobra.Command{
	Use:   "history [name]",
	Short: "Show recent script runs",
	Long:  "Show recent runs, newest first, for every script or for one script.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ws, repo, err := openWorkspace()
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()

		filename := ""
		if len(args) == 1 {
			// scripts that no longer exist keep their history
			filename = nameutil.NormalizeScriptName(args[0])
			if i, err := ws.Resolve(args[0]); err == nil {
				r, _ := ws.Store().Row(i)
				filename = r.Filename
			}
		}
		runs, err := ws.History(filename, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		for _, r := range runs {
			line := fmt.Sprintf("%s\t%-14s\t%s\t%s", r.StartedAt, r.Status, r.Filename,
				(time.Duration(r.DurationMS) * time.Millisecond).String())
			if r.Error.Valid {
				line += "\t" + r.Error.String
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
