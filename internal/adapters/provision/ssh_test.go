package provision

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"topoplan/internal/config"
	"topoplan/internal/domain/topology"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/crypto/ssh"
)

// startShellServer accepts one SSH session and reports everything typed into its shell
func startShellServer(t *testing.T) (string, <-chan string) {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	hostKey, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	serverConfig := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == "admin" && string(pass) == "secret" {
				return nil, nil
			}
			return nil, errors.New("denied")
		},
	}
	serverConfig.AddHostKey(hostKey)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	received := make(chan string, 1)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(conn, serverConfig, received)
		}
	}()
	return ln.Addr().String(), received
}

func serveConn(conn net.Conn, cfg *ssh.ServerConfig, received chan<- string) {
	sconn, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	defer sconn.Close()
	go ssh.DiscardRequests(reqs)

	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		ch, requests, err := nc.Accept()
		if err != nil {
			return
		}
		go func() {
			for req := range requests {
				_ = req.Reply(req.Type == "shell" || req.Type == "pty-req", nil)
			}
		}()
		data, _ := io.ReadAll(ch)
		received <- string(data)
		_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{0}))
		_ = ch.Close()
	}
}

func sampleConfig() topology.DeviceConfig {
	return topology.DeviceConfig{
		Device: "MultiLayerSwitch_1",
		Kind:   topology.KindMultilayerSwitch,
		Role:   topology.RoleDistribution,
		Lines:  []string{"ip routing", "!", "interface Gig0/1_to_Router_1", " ip address 192.168.0.49 255.255.255.240", " no shutdown"},
	}
}

func TestScript(t *testing.T) {
	want := []string{
		"enable", "configure terminal",
		"ip routing", "!", "interface Gig0/1_to_Router_1", " ip address 192.168.0.49 255.255.255.240", " no shutdown",
		"end", "write memory", "exit",
	}
	if diff := cmp.Diff(want, Script(sampleConfig())); diff != "" {
		t.Errorf("Script mismatch (-want +got):\n%s", diff)
	}
	if got := Script(topology.DeviceConfig{Device: "Computer_1"}); len(got) != 5 {
		t.Errorf("expected only the session wrapper for a device without lines, got %v", got)
	}
}

func TestPush(t *testing.T) {
	addr, received := startShellServer(t)
	p, err := NewSSHProvisioner(config.ProvisionConfig{Username: "admin", Password: "secret", Timeout: 5})
	if err != nil {
		t.Fatalf("NewSSHProvisioner failed: %v", err)
	}

	if err := p.Push(context.Background(), addr, sampleConfig()); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	select {
	case typed := <-received:
		want := strings.Join(Script(sampleConfig()), "\n") + "\n"
		if typed != want {
			t.Errorf("typed script mismatch:\n got %q\nwant %q", typed, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server never received the script")
	}
}

func TestPush_Failures(t *testing.T) {
	addr, _ := startShellServer(t)

	wrong, err := NewSSHProvisioner(config.ProvisionConfig{Username: "admin", Password: "nope", Timeout: 5})
	if err != nil {
		t.Fatal(err)
	}
	if err := wrong.Push(context.Background(), addr, sampleConfig()); !errors.Is(err, topology.ErrProvisioningFailed) {
		t.Errorf("expected ErrProvisioningFailed for bad credentials, got %v", err)
	}

	// a closed listener refuses connections
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	closed := ln.Addr().String()
	ln.Close()
	if err := wrong.Push(context.Background(), closed, sampleConfig()); !errors.Is(err, topology.ErrProvisioningFailed) {
		t.Errorf("expected ErrProvisioningFailed for a refused dial, got %v", err)
	}
}

func TestNewSSHProvisioner_RequiresCredentials(t *testing.T) {
	if _, err := NewSSHProvisioner(config.ProvisionConfig{Username: "admin"}); err == nil {
		t.Error("expected an error without password or key")
	}
	if _, err := NewSSHProvisioner(config.ProvisionConfig{Username: "admin", KeyPath: "/nonexistent/key"}); err == nil {
		t.Error("expected an error for a missing key file")
	}
}
