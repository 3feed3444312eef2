package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Mostra a versão do RedHawk",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("RedHawk v1.0.0")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
