package cmd

import (
	"fmt"

	"github.com/VoxDroid/fnr/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("fnr %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
