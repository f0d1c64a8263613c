// Package manifest loads and validates the wsinit bootstrap manifest.
//
// The manifest is an optional YAML file describing the workspace to set up:
// the SSH host of the code-hosting service, the private repository to clone,
// the destination directory tree, and the environment lines appended to the
// user's shell profile. Every field has a default so the tool is fully
// functional with no manifest present.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the manifest looked up in the working directory when no
// --manifest flag is given.
const DefaultFile = "wsinit.yaml"

var (
	// ErrInvalidRepo indicates that the repository is not in owner/name form
	ErrInvalidRepo = errors.New("repository must be in owner/name format")

	// ErrInvalidTimeout indicates an unparseable timeout value
	ErrInvalidTimeout = errors.New("invalid timeout duration")

	ownerRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,100}$`)
)

// Manifest describes a workspace bootstrap.
type Manifest struct {
	Host      string   `yaml:"host"`
	User      string   `yaml:"user"`
	Repo      string   `yaml:"repo"`
	Workspace string   `yaml:"workspace"`
	CloneDir  string   `yaml:"clone_dir"`
	Profile   string   `yaml:"profile"`
	EnvLines  []string `yaml:"env_lines"`
	Tools     []string `yaml:"tools"`
	Timeout   string   `yaml:"timeout,omitempty"`
}

// Default provides the manifest used when no file is present.
func Default() *Manifest {
	return &Manifest{
		Host:      "git.robokits.dev",
		User:      "git",
		Repo:      "robokits/middleware-ws",
		Workspace: "~/robokits_ws",
		CloneDir:  "src/middleware",
		Profile:   "~/.bashrc",
		EnvLines: []string{
			"source /opt/robokits/setup.bash",
			"source $HOME/robokits_ws/devel/setup.bash",
			"export ROBOKITS_WS=$HOME/robokits_ws",
		},
		Tools:   []string{"git", "ssh"},
		Timeout: "10m",
	}
}

// Load reads a manifest from path. A missing file is not an error: the
// defaults are returned so a bare `wsinit run` works on a fresh machine.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m.MergeDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// MergeDefaults fills unset fields from the default manifest
func (m *Manifest) MergeDefaults() {
	def := Default()
	if m.Host == "" {
		m.Host = def.Host
	}
	if m.User == "" {
		m.User = def.User
	}
	if m.Repo == "" {
		m.Repo = def.Repo
	}
	if m.Workspace == "" {
		m.Workspace = def.Workspace
	}
	if m.CloneDir == "" {
		m.CloneDir = def.CloneDir
	}
	if m.Profile == "" {
		m.Profile = def.Profile
	}
	if len(m.EnvLines) == 0 {
		m.EnvLines = def.EnvLines
	}
	if len(m.Tools) == 0 {
		m.Tools = def.Tools
	}
	if m.Timeout == "" {
		m.Timeout = def.Timeout
	}
}

// Validate checks the repository identifier and timeout format
func (m *Manifest) Validate() error {
	parts := strings.Split(m.Repo, "/")
	if len(parts) != 2 {
		return fmt.Errorf("%w: %s", ErrInvalidRepo, m.Repo)
	}
	if !ownerRegex.MatchString(parts[0]) {
		return fmt.Errorf("%w: invalid owner %q", ErrInvalidRepo, parts[0])
	}
	if !nameRegex.MatchString(strings.TrimSuffix(parts[1], ".git")) {
		return fmt.Errorf("%w: invalid name %q", ErrInvalidRepo, parts[1])
	}
	if _, err := m.GitTimeout(); err != nil {
		return err
	}
	return nil
}

// GitTimeout parses the configured git operation timeout
func (m *Manifest) GitTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(m.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, m.Timeout)
	}
	return d, nil
}

// SSHURL returns the scp-style clone URL for the repository,
// e.g. git@git.robokits.dev:robokits/middleware-ws.git
func (m *Manifest) SSHURL() string {
	repo := strings.TrimSuffix(m.Repo, ".git")
	return fmt.Sprintf("%s@%s:%s.git", m.User, m.Host, repo)
}

// WorkspacePath returns the expanded workspace directory.
func (m *Manifest) WorkspacePath() string {
	return ExpandPath(m.Workspace)
}

// ClonePath returns the expanded clone destination inside the workspace.
func (m *Manifest) ClonePath() string {
	return filepath.Join(m.WorkspacePath(), m.CloneDir)
}

// ProfilePath returns the expanded shell profile path.
func (m *Manifest) ProfilePath() string {
	return ExpandPath(m.Profile)
}

// ExpandPath expands a leading ~ and any environment variables in a path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
