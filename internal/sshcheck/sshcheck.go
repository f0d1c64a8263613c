// Package sshcheck probes SSH authentication against a code-hosting service.
//
// Code-hosting services accept the public-key handshake and then refuse to
// open a shell, so a successful authentication with a rejected session still
// counts as a pass. Only a failure to authenticate is reported as an error.
package sshcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

var (
	// ErrNoIdentity indicates that no usable SSH key was found in the agent
	// or the default key files
	ErrNoIdentity = errors.New("no usable SSH identity found")

	// ErrAuthRejected indicates the server refused every offered key
	ErrAuthRejected = errors.New("SSH authentication rejected")

	// ErrUnknownHost indicates the host is not present in known_hosts
	ErrUnknownHost = errors.New("host not found in known_hosts")

	// ErrHostKeyMismatch indicates the host key differs from known_hosts
	ErrHostKeyMismatch = errors.New("host key mismatch")

	// ErrUnreachable indicates the host could not be reached at all
	ErrUnreachable = errors.New("host unreachable")
)

const defaultTimeout = 10 * time.Second

// defaultKeyNames are the key files tried, in order, under ~/.ssh when the
// agent holds no identities. Encrypted keys are skipped, never prompted for.
var defaultKeyNames = []string{"id_ed25519", "id_rsa", "id_ecdsa"}

// Options configures an authentication probe.
type Options struct {
	User           string
	Host           string
	Port           int
	Timeout        time.Duration
	KnownHostsFile string   // defaults to ~/.ssh/known_hosts
	KeyFiles       []string // defaults to the standard ~/.ssh key files
	AgentSocket    string   // defaults to $SSH_AUTH_SOCK
	Logger         *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.Port == 0 {
		o.Port = 22
	}
	if o.Timeout == 0 {
		o.Timeout = defaultTimeout
	}
	if o.AgentSocket == "" {
		o.AgentSocket = os.Getenv("SSH_AUTH_SOCK")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	if o.KnownHostsFile == "" {
		o.KnownHostsFile = filepath.Join(home, ".ssh", "known_hosts")
	}
	if len(o.KeyFiles) == 0 {
		for _, name := range defaultKeyNames {
			o.KeyFiles = append(o.KeyFiles, filepath.Join(home, ".ssh", name))
		}
	}
}

// Authenticate performs a public-key authentication probe against the host.
// It returns nil when authentication succeeds, even if the server then
// refuses to open a session. The returned errors wrap the package sentinels
// so callers can distinguish failure modes.
func Authenticate(ctx context.Context, opts Options) error {
	opts.applyDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	signers, closeAgent := collectSigners(opts, logger)
	if closeAgent != nil {
		defer closeAgent()
	}
	if len(signers) == 0 {
		return fmt.Errorf("%w: no agent identities and no readable key in ~/.ssh", ErrNoIdentity)
	}

	hostKeyCallback, err := hostKeyVerifier(opts.KnownHostsFile, logger)
	if err != nil {
		return err
	}

	config := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signers...)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         opts.Timeout,
	}

	addr := net.JoinHostPort(opts.Host, fmt.Sprintf("%d", opts.Port))
	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return classifyHandshakeError(err)
	}

	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	// Hosting services authenticate the key and then deny the session.
	// Reaching this point means authentication succeeded.
	if session, sessionErr := client.NewSession(); sessionErr == nil {
		session.Close()
	} else {
		logger.Debug("session refused after successful authentication", "host", opts.Host, "error", sessionErr)
	}
	return nil
}

// collectSigners gathers identities from the running agent first, then from
// unencrypted key files. Unusable sources are skipped, not fatal: the probe
// fails later with ErrNoIdentity when nothing was found.
func collectSigners(opts Options, logger *slog.Logger) ([]ssh.Signer, func() error) {
	var signers []ssh.Signer
	var closeAgent func() error

	if opts.AgentSocket != "" {
		conn, err := net.DialTimeout("unix", opts.AgentSocket, time.Second)
		if err != nil {
			logger.Debug("ssh-agent not reachable", "socket", opts.AgentSocket, "error", err)
		} else {
			agentSigners, err := agent.NewClient(conn).Signers()
			if err != nil || len(agentSigners) == 0 {
				conn.Close()
				logger.Debug("ssh-agent holds no identities", "socket", opts.AgentSocket)
			} else {
				// The connection must stay open while the signers are in use.
				signers = append(signers, agentSigners...)
				closeAgent = conn.Close
			}
		}
	}

	for _, path := range opts.KeyFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			var passErr *ssh.PassphraseMissingError
			if errors.As(err, &passErr) {
				logger.Debug("skipping encrypted key", "path", path)
			} else {
				logger.Debug("skipping unparseable key", "path", path, "error", err)
			}
			continue
		}
		signers = append(signers, signer)
	}

	return signers, closeAgent
}

// hostKeyVerifier builds the host key callback. A missing known_hosts file
// downgrades the probe to accept-on-first-use with a warning; the git
// operations that follow still go through the user's real ssh configuration.
func hostKeyVerifier(path string, logger *slog.Logger) (ssh.HostKeyCallback, error) {
	if _, err := os.Stat(path); err != nil {
		logger.Warn("known_hosts not found, host key not verified for this probe", "path", path)
		return ssh.InsecureIgnoreHostKey(), nil
	}
	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load known_hosts %s: %w", path, err)
	}
	return callback, nil
}

// classifyHandshakeError maps a handshake failure onto the package sentinels.
func classifyHandshakeError(err error) error {
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		if len(keyErr.Want) > 0 {
			return fmt.Errorf("%w: %v", ErrHostKeyMismatch, err)
		}
		return fmt.Errorf("%w: add it with ssh-keyscan", ErrUnknownHost)
	}
	if strings.Contains(err.Error(), "unable to authenticate") {
		return fmt.Errorf("%w: %v", ErrAuthRejected, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return fmt.Errorf("ssh handshake failed: %w", err)
}
