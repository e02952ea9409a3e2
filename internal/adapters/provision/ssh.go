package provision

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"topoplan/internal/config"
	"topoplan/internal/domain/topology"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
)

const defaultSSHPort = "22"

// SSHProvisioner pushes device configurations through an interactive SSH shell
type SSHProvisioner struct {
	username string
	auth     []ssh.AuthMethod
	timeout  time.Duration
}

// NewSSHProvisioner builds a provisioner from the configured credentials.
// A key file takes precedence over the password when both are set.
func NewSSHProvisioner(cfg config.ProvisionConfig) (*SSHProvisioner, error) {
	var methods []ssh.AuthMethod
	if cfg.KeyPath != "" {
		keyData, err := os.ReadFile(cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read provisioning key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse provisioning key: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("provisioning needs PROVISION_PASSWORD or PROVISION_KEY_PATH")
	}

	timeout := cfg.SessionTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SSHProvisioner{username: cfg.Username, auth: methods, timeout: timeout}, nil
}

// Script wraps the device lines in the privileged configuration session
func Script(cfg topology.DeviceConfig) []string {
	script := make([]string, 0, len(cfg.Lines)+5)
	script = append(script, "enable", "configure terminal")
	script = append(script, cfg.Lines...)
	return append(script, "end", "write memory", "exit")
}

// Push connects to endpoint (host or host:port) and types the script line by line
func (p *SSHProvisioner) Push(ctx context.Context, endpoint string, cfg topology.DeviceConfig) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	addr := endpoint
	if _, _, err := net.SplitHostPort(endpoint); err != nil {
		addr = net.JoinHostPort(endpoint, defaultSSHPort)
	}

	client, err := p.connect(ctx, addr)
	if err != nil {
		return fmt.Errorf("%w: %v", topology.ErrProvisioningFailed, err)
	}
	defer client.Close()

	// Unblock the session if the deadline passes mid-transfer
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	output, err := p.runScript(client, Script(cfg))
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %s: %v", topology.ErrProvisioningFailed, addr, ctx.Err())
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", topology.ErrProvisioningFailed, addr, err)
	}

	log.Debug().Str("device", cfg.Device).Str("endpoint", addr).Int("output_bytes", len(output)).Msg("configuration session finished")
	return nil
}

func (p *SSHProvisioner) connect(ctx context.Context, addr string) (*ssh.Client, error) {
	clientConfig := &ssh.ClientConfig{
		User:            p.username,
		Auth:            p.auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // #nosec G106 - lab devices ship self-generated host keys
		Timeout:         p.timeout,
	}

	dialer := &net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection: %w", err)
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

func (p *SSHProvisioner) runScript(client *ssh.Client, script []string) ([]byte, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	modes := ssh.TerminalModes{ssh.ECHO: 0}
	if err := session.RequestPty("vt100", 40, 120, modes); err != nil {
		return nil, fmt.Errorf("failed to request pty: %w", err)
	}
	stdin, err := session.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin: %w", err)
	}
	var output bytes.Buffer
	session.Stdout = &output
	session.Stderr = &output

	if err := session.Shell(); err != nil {
		return nil, fmt.Errorf("failed to start shell: %w", err)
	}
	for _, line := range script {
		if _, err := io.WriteString(stdin, line+"\n"); err != nil {
			return output.Bytes(), fmt.Errorf("failed to send %q: %w", line, err)
		}
	}
	_ = stdin.Close()

	if err := session.Wait(); err != nil {
		return output.Bytes(), fmt.Errorf("shell exited: %w", err)
	}
	return output.Bytes(), nil
}

var _ topology.Provisioner = (*SSHProvisioner)(nil)
