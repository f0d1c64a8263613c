package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/robokits/go-wstools/internal/git"
	"github.com/robokits/go-wstools/internal/logging"
	"github.com/robokits/go-wstools/internal/manifest"
	"github.com/robokits/go-wstools/internal/profile"
	"github.com/robokits/go-wstools/internal/progress"
	"github.com/robokits/go-wstools/internal/prompt"
	"github.com/robokits/go-wstools/internal/sshcheck"
	"github.com/robokits/go-wstools/internal/tools"
	"github.com/robokits/go-wstools/internal/workspace"
)

type runOptions struct {
	manifestPath string
	workspaceDir string
	repo         string
	host         string
	profilePath  string
	timeout      string
	yes          bool
	skipExisting bool
	noProfile    bool
	verbose      bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bootstrap the workspace",
		Long: `Run the full bootstrap sequence: tool preflight, SSH authentication,
repository access check, workspace preparation, clone, and shell profile setup.

When a clone already exists you are asked once whether to overwrite it;
without an interactive terminal the existing clone is kept.`,
		Example: `  wsinit run
  wsinit run --manifest team-wsinit.yaml
  wsinit run --yes                   # replace an existing clone without asking
  wsinit run --skip-existing --no-profile`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(opts)
		},
	}

	cmd.Flags().StringVar(&opts.manifestPath, "manifest", manifest.DefaultFile, "Bootstrap manifest file")
	cmd.Flags().StringVar(&opts.workspaceDir, "workspace", "", "Workspace directory (overrides manifest)")
	cmd.Flags().StringVar(&opts.repo, "repo", "", "Repository to clone, owner/name (overrides manifest)")
	cmd.Flags().StringVar(&opts.host, "host", "", "SSH host of the code-hosting service (overrides manifest)")
	cmd.Flags().StringVar(&opts.profilePath, "profile", "", "Shell profile to patch (overrides manifest)")
	cmd.Flags().StringVar(&opts.timeout, "timeout", "", "Git operation timeout, e.g. 10m (overrides manifest)")
	cmd.Flags().BoolVar(&opts.yes, "yes", false, "Overwrite an existing clone without prompting")
	cmd.Flags().BoolVar(&opts.skipExisting, "skip-existing", false, "Keep an existing clone without prompting")
	cmd.Flags().BoolVar(&opts.noProfile, "no-profile", false, "Do not modify the shell profile")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")

	return cmd
}

func loadManifestWithOverrides(opts *runOptions) (*manifest.Manifest, error) {
	m, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return nil, err
	}

	if opts.repo != "" {
		m.Repo = opts.repo
	}
	if opts.host != "" {
		m.Host = opts.host
	}
	if opts.workspaceDir != "" {
		m.Workspace = opts.workspaceDir
	}
	if opts.profilePath != "" {
		m.Profile = opts.profilePath
	}
	if opts.timeout != "" {
		m.Timeout = opts.timeout
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func runBootstrap(opts *runOptions) error {
	if opts.yes && opts.skipExisting {
		return fmt.Errorf("--yes and --skip-existing are mutually exclusive")
	}

	m, err := loadManifestWithOverrides(opts)
	if err != nil {
		return err
	}

	logger := logging.New(opts.verbose).With("command", "run")
	tracker := progress.NewConsoleTracker(os.Stdout)
	ctx := context.Background()

	tracker.Start("tool preflight")
	if err := tools.Verify(m.Tools); err != nil {
		tracker.Error(err)
		return err
	}
	tracker.Complete()

	tracker.Start("ssh authentication")
	if err := sshcheck.Authenticate(ctx, sshcheck.Options{User: m.User, Host: m.Host, Logger: logger}); err != nil {
		tracker.Error(err)
		return err
	}
	tracker.Complete()

	tracker.Start("repository access")
	if _, err := git.CheckAccess(ctx, m.SSHURL()); err != nil {
		tracker.Error(err)
		return err
	}
	tracker.Complete()

	tracker.Start("workspace directories")
	if err := workspace.Prepare(m.WorkspacePath()); err != nil {
		tracker.Error(err)
		return err
	}
	tracker.Complete()

	tracker.Start("clone repository")
	if err := ensureClone(ctx, m, opts, tracker); err != nil {
		tracker.Error(err)
		return err
	}

	if !opts.noProfile {
		tracker.Start("shell profile")
		report, err := profile.Apply(profile.Patch{Path: m.ProfilePath(), Lines: m.EnvLines})
		if err != nil {
			tracker.Error(err)
			return err
		}
		tracker.Complete()
		printProfileReport(os.Stdout, m.ProfilePath(), report)
	}

	logger.Info("bootstrap complete", "workspace", m.WorkspacePath())
	fmt.Println("\nWorkspace ready. Open a new shell or source your profile to pick up the environment.")
	return nil
}

// ensureClone puts a clone at the destination, asking once what to do with
// an existing one. It reports completion or skip on the tracker itself;
// errors are left to the caller.
func ensureClone(ctx context.Context, m *manifest.Manifest, opts *runOptions, tracker progress.Tracker) error {
	dst := m.ClonePath()
	state, err := workspace.DetectClone(dst)
	if err != nil {
		return err
	}

	timeout, err := m.GitTimeout()
	if err != nil {
		return err
	}

	clone := func(dir string) error {
		return prompt.RunClone(ctx, m.SSHURL(), dir, func(ctx context.Context) error {
			return git.Clone(git.CloneOptions{URL: m.SSHURL(), Dir: dir, Context: ctx, Timeout: timeout})
		})
	}

	switch state {
	case workspace.StateConflict:
		return fmt.Errorf("%s exists but is not a git clone; move it aside and re-run", dst)

	case workspace.StateAbsent:
		if err := clone(dst); err != nil {
			return err
		}
		tracker.Complete()
		return nil
	}

	choice := workspace.ChoiceSkip
	switch {
	case opts.yes:
		choice = workspace.ChoiceOverwrite
	case opts.skipExisting:
		// keep the default
	default:
		if choice, err = prompt.ConfirmOverwrite(dst); err != nil {
			return err
		}
	}

	if choice == workspace.ChoiceSkip {
		tracker.Skip("existing clone kept")
		return nil
	}

	// Clone next to the existing copy first; only a successful clone
	// replaces it.
	tmp := workspace.TempCloneDir(dst)
	if err := clone(tmp); err != nil {
		os.RemoveAll(tmp)
		return err
	}
	if err := workspace.Swap(dst, tmp); err != nil {
		os.RemoveAll(tmp)
		return err
	}
	tracker.Complete()
	return nil
}

func printProfileReport(w io.Writer, path string, report *profile.Report) {
	if report.Created {
		fmt.Fprintf(w, "    created %s\n", path)
	}
	for _, line := range report.Added {
		fmt.Fprintf(w, "    added: %s\n", line)
	}
	for _, line := range report.Present {
		fmt.Fprintf(w, "    already present: %s\n", line)
	}
	if report.BackupPath != "" {
		fmt.Fprintf(w, "    backup: %s\n", report.BackupPath)
	}
}
