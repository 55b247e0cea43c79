package cmd

import (
	"github.com/spf13/cobra"
)

var rootDir string

func init() {
	RootCmd.AddCommand(InitCmd)
	RootCmd.AddCommand(RunCmd)
	RootCmd.PersistentFlags().StringVar(&rootDir, "home", "./tmhome", "Home directory of Greeter Chain")
}

var RootCmd = cobra.Command{
	Use:   "greeter-node",
	Short: "Greeter Chain node: an oracle-backed greeting contract",
}
