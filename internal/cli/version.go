package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the PixPod version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pixpod version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
