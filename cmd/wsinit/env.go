package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robokits/go-wstools/internal/manifest"
	"github.com/robokits/go-wstools/internal/profile"
)

type envOptions struct {
	manifestPath string
	profilePath  string
}

func newEnvCmd() *cobra.Command {
	opts := &envOptions{}

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Patch the shell profile with the workspace environment",
		Long: `Append the environment-sourcing lines from the manifest to the shell
profile. Lines already present are left alone, so repeated runs converge;
a timestamped backup is taken before the first real edit.`,
		Example: `  wsinit env
  wsinit env --profile ~/.zshrc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnv(opts)
		},
	}

	cmd.Flags().StringVar(&opts.manifestPath, "manifest", manifest.DefaultFile, "Bootstrap manifest file")
	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "Shell profile to patch (overrides manifest)")

	return cmd
}

func runEnv(opts *envOptions) error {
	m, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return err
	}
	if opts.profilePath != "" {
		m.Profile = opts.profilePath
	}

	path := m.ProfilePath()
	report, err := profile.Apply(profile.Patch{Path: path, Lines: m.EnvLines})
	if err != nil {
		return err
	}

	printProfileReport(os.Stdout, path, report)
	if !report.Changed() {
		fmt.Printf("%s already up to date\n", path)
	}
	return nil
}
