package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robokits/go-wstools/internal/manifest"
	"github.com/robokits/go-wstools/internal/profile"
	"github.com/robokits/go-wstools/internal/workspace"
)

type statusOptions struct {
	manifestPath string
}

func newStatusCmd() *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the workspace state",
		Long: `Report which parts of the bootstrap have been done: whether the clone
exists and whether the profile carries the environment lines. Reads only,
never modifies anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts)
		},
	}

	cmd.Flags().StringVar(&opts.manifestPath, "manifest", manifest.DefaultFile, "Bootstrap manifest file")

	return cmd
}

func runStatus(opts *statusOptions) error {
	m, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(opts.manifestPath); err == nil {
		fmt.Printf("manifest:  %s\n", opts.manifestPath)
	} else {
		fmt.Printf("manifest:  built-in defaults (%s not found)\n", opts.manifestPath)
	}
	fmt.Printf("repository: %s\n", m.SSHURL())
	fmt.Printf("workspace:  %s\n", m.WorkspacePath())

	state, err := workspace.DetectClone(m.ClonePath())
	if err != nil {
		return err
	}
	switch state {
	case workspace.StatePresent:
		fmt.Printf("clone:      present at %s\n", m.ClonePath())
	case workspace.StateConflict:
		fmt.Printf("clone:      conflict, %s is not a git clone\n", m.ClonePath())
	default:
		fmt.Printf("clone:      absent\n")
	}

	missing, err := profile.Missing(m.ProfilePath(), m.EnvLines)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		fmt.Printf("profile:    %s has all %d environment lines\n", m.ProfilePath(), len(m.EnvLines))
	} else {
		fmt.Printf("profile:    %s is missing %d of %d environment lines\n", m.ProfilePath(), len(missing), len(m.EnvLines))
		for _, line := range missing {
			fmt.Printf("    missing: %s\n", line)
		}
	}
	return nil
}
