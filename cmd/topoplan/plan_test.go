package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlanCommand_YAML(t *testing.T) {
	out, err := run(t, "plan")
	if err != nil {
		t.Fatalf("plan failed: %v\n%s", err, out)
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	vlans, _ := doc["vlans"].([]interface{})
	if len(vlans) != 3 {
		t.Errorf("expected 3 VLANs for the default request, got %d", len(vlans))
	}
	if _, ok := doc["hierarchy_graph"].(map[string]interface{}); !ok {
		t.Errorf("expected hierarchy_graph in node-link form, got %T", doc["hierarchy_graph"])
	}
}

func TestPlanCommand_JSONAndFlags(t *testing.T) {
	out, err := run(t, "plan", "-o", "json", "--mode", "0", "--computers", "4", "--switches", "2", "--ip-base", "10.1.0.0")
	if err != nil {
		t.Fatalf("plan failed: %v\n%s", err, out)
	}
	var plan struct {
		Request struct {
			Mode   string `json:"mode"`
			IPBase string `json:"ip_base"`
		} `json:"request"`
		VLANs []json.RawMessage `json:"vlans"`
	}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if plan.Request.Mode != "fault_tolerant" || plan.Request.IPBase != "10.1.0.0" {
		t.Errorf("flags not applied: %+v", plan.Request)
	}
	if len(plan.VLANs) != 1 {
		t.Errorf("expected a single VLAN for 6 access devices, got %d", len(plan.VLANs))
	}
}

func TestPlanCommand_Configs(t *testing.T) {
	out, err := run(t, "plan", "-o", "configs")
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	for _, want := range []string{"! Router_2 (core", "ip routing", "! Switch_1 (access-switch", "ip default-gateway 192.168.0."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestPlanCommand_EnvAndConfigFile(t *testing.T) {
	t.Setenv("TOPOPLAN_VLAN_COUNT", "2")
	out, err := run(t, "plan", "-o", "json")
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if got := strings.Count(out, `"members"`); got != 2 {
		t.Errorf("expected 2 VLANs from the environment, got %d", got)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	if err := os.WriteFile(path, []byte("computers: 1\nswitches: 1\nrouters: 1\nmls: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "plan", "--config", path, "-o", "json", "--vlan-count", "1")
	if err != nil {
		t.Fatalf("plan with config failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"computers": 1`) {
		t.Errorf("expected config file values to apply:\n%s", out)
	}
}

func TestPlanCommand_Errors(t *testing.T) {
	tests := [][]string{
		{"plan", "--mode", "mesh"},
		{"plan", "--ip-base", "192.168.0.7"},
		{"plan", "--vlan-count", "0"},
		{"plan", "-o", "xml"},
	}
	for _, args := range tests {
		if _, err := run(t, args...); err == nil {
			t.Errorf("expected %v to fail", args)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Topoplan dev") {
		t.Errorf("unexpected version output %q", out)
	}
}
