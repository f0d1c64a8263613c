// Package main implements wsinit, the bootstrap CLI for a robotics
// middleware development workspace.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wsinit",
		Short: "Robotics middleware workspace bootstrap",
		Long: `wsinit prepares a local development environment for the robotics
middleware workspace: it verifies SSH access to the code-hosting service,
clones the workspace repository, and wires the environment-sourcing lines
into your shell profile.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newRunCmd(),
		newDoctorCmd(),
		newEnvCmd(),
		newStatusCmd(),
	)

	return cmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
