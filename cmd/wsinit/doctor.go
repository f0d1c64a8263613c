package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robokits/go-wstools/internal/git"
	"github.com/robokits/go-wstools/internal/logging"
	"github.com/robokits/go-wstools/internal/manifest"
	"github.com/robokits/go-wstools/internal/sshcheck"
	"github.com/robokits/go-wstools/internal/tools"
)

type doctorOptions struct {
	manifestPath string
	verbose      bool
}

func newDoctorCmd() *cobra.Command {
	opts := &doctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment without changing anything",
		Long: `Run the read-only checks of the bootstrap: external tool preflight,
SSH authentication against the code-hosting service, and read access to
the workspace repository. Exits non-zero when any check fails.`,
		Example: `  wsinit doctor
  wsinit doctor --manifest team-wsinit.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(opts)
		},
	}

	cmd.Flags().StringVar(&opts.manifestPath, "manifest", manifest.DefaultFile, "Bootstrap manifest file")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")

	return cmd
}

func runDoctor(opts *doctorOptions) error {
	m, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return err
	}

	logger := logging.New(opts.verbose).With("command", "doctor")
	ctx := context.Background()

	checks := []struct {
		name string
		fn   func() error
	}{
		{"tool preflight", func() error {
			return tools.Verify(m.Tools)
		}},
		{"ssh authentication", func() error {
			return sshcheck.Authenticate(ctx, sshcheck.Options{User: m.User, Host: m.Host, Logger: logger})
		}},
		{"repository access", func() error {
			_, err := git.CheckAccess(ctx, m.SSHURL())
			return err
		}},
	}

	failed := 0
	for _, check := range checks {
		if err := check.fn(); err != nil {
			fmt.Fprintf(os.Stdout, "FAIL %-20s %v\n", check.name, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "ok   %s\n", check.name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	return nil
}
