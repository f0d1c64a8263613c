package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "wsinit.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), m)
}

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wsinit.yaml")
	content := `
repo: acme/rover-ws
workspace: /tmp/rover_ws
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acme/rover-ws", m.Repo)
	assert.Equal(t, "/tmp/rover_ws", m.Workspace)
	// unset fields come from the defaults
	assert.Equal(t, Default().Host, m.Host)
	assert.Equal(t, Default().EnvLines, m.EnvLines)
	assert.Equal(t, Default().Tools, m.Tools)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wsinit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repo: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		timeout string
		wantErr error
	}{
		{name: "valid", repo: "robokits/middleware-ws", timeout: "10m"},
		{name: "valid with dots", repo: "acme/ros2.control", timeout: "1h"},
		{name: "missing owner", repo: "/repo", timeout: "10m", wantErr: ErrInvalidRepo},
		{name: "no slash", repo: "justname", timeout: "10m", wantErr: ErrInvalidRepo},
		{name: "too many parts", repo: "a/b/c", timeout: "10m", wantErr: ErrInvalidRepo},
		{name: "bad owner chars", repo: "a cme/repo", timeout: "10m", wantErr: ErrInvalidRepo},
		{name: "bad timeout", repo: "acme/repo", timeout: "soon", wantErr: ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Default()
			m.Repo = tt.repo
			m.Timeout = tt.timeout
			err := m.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSSHURL(t *testing.T) {
	m := Default()
	m.User = "git"
	m.Host = "git.example.com"
	m.Repo = "acme/rover-ws"
	assert.Equal(t, "git@git.example.com:acme/rover-ws.git", m.SSHURL())

	m.Repo = "acme/rover-ws.git"
	assert.Equal(t, "git@git.example.com:acme/rover-ws.git", m.SSHURL())
}

func TestGitTimeout(t *testing.T) {
	m := Default()
	m.Timeout = "90s"
	d, err := m.GitTimeout()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "ws"), ExpandPath("~/ws"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/opt/ws", ExpandPath("/opt/ws"))

	t.Setenv("WSINIT_TEST_DIR", "/data")
	assert.Equal(t, "/data/ws", ExpandPath("$WSINIT_TEST_DIR/ws"))
}

func TestClonePath(t *testing.T) {
	m := Default()
	m.Workspace = "/tmp/rover_ws"
	m.CloneDir = "src/middleware"
	assert.Equal(t, "/tmp/rover_ws/src/middleware", m.ClonePath())
}
