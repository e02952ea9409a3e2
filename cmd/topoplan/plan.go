package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apptopology "topoplan/internal/application/topology"
	"topoplan/internal/domain/topology"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newPlanCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a topology and print it",
		Example: `  topoplan plan --routers 2 --mls 2 --switches 4 --computers 15
  topoplan plan --mode fault_tolerant --ip-base 10.0.0.0 -o json
  TOPOPLAN_VLAN_COUNT=4 topoplan plan -o configs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := requestFrom(v)
			if err != nil {
				return err
			}
			plan, err := apptopology.PlanTopology(req)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), v.GetString("output"), plan)
		},
	}

	f := cmd.Flags()
	f.Int("routers", 2, "Number of routers")
	f.Int("mls", 2, "Number of multilayer switches")
	f.Int("switches", 4, "Number of access switches")
	f.Int("computers", 15, "Number of computers")
	f.String("mode", topology.ModeScalable.String(), "Access wiring: scalable (1) or fault_tolerant (0)")
	f.String("ip-base", "192.168.0.0", "First address of the plan, aligned to the largest VLAN block")
	f.Int("vlan-count", topology.AutoVLANCount, "Number of VLANs, -1 sizes one VLAN per 7 devices")
	f.Int("routing-threshold", topology.DefaultRoutingThreshold, "Routing devices needed before a Core tier is built")
	f.StringP("output", "o", "yaml", "Output format: yaml, json or configs")
	_ = v.BindPFlags(f)
	return cmd
}

func requestFrom(v *viper.Viper) (topology.PlanRequest, error) {
	mode, err := topology.ParseMode(v.GetString("mode"))
	if err != nil {
		return topology.PlanRequest{}, err
	}
	return topology.PlanRequest{
		Routers:            v.GetInt("routers"),
		MultilayerSwitches: v.GetInt("mls"),
		Switches:           v.GetInt("switches"),
		Computers:          v.GetInt("computers"),
		Mode:               mode,
		IPBase:             v.GetString("ip-base"),
		VLANCount:          v.GetInt("vlan-count"),
		RoutingThreshold:   v.GetInt("routing-threshold"),
	}, nil
}

func render(w io.Writer, format string, plan *topology.Plan) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "yaml", "yml":
		// round trip through JSON so graphs and subnets keep their wire form
		raw, err := json.Marshal(plan)
		if err != nil {
			return err
		}
		var doc interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(doc)
	case "configs":
		return renderConfigs(w, plan)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// renderConfigs prints every device block that carries configuration lines
func renderConfigs(w io.Writer, plan *topology.Plan) error {
	for _, list := range [][]topology.DeviceConfig{plan.HierarchyConfigs, plan.AccessConfigs} {
		for _, cfg := range list {
			if len(cfg.Lines) == 0 {
				continue
			}
			if _, err := fmt.Fprintf(w, "! %s (%s, %s/%d)\n", cfg.Device, cfg.Role, cfg.IPAddress, cfg.SubnetMask); err != nil {
				return err
			}
			for _, line := range cfg.Lines {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}
