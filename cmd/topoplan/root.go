package main

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides, e.g. TOPOPLAN_IP_BASE
const envPrefix = "TOPOPLAN"

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "topoplan",
		Short: "Topoplan - hierarchical network topology planner",
		Long: `Topoplan plans a three-tier network from device counts: VLAN grouping,
VLSM addressing, access wiring, Core/Distribution hierarchy and the routed
links between them, with per-device configuration lines.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if v.GetBool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			if path := v.GetString("config"); path != "" {
				v.SetConfigFile(path)
				return v.ReadInConfig()
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML or JSON file with flag values")
	pf.Bool("verbose", false, "Enable debug logging")
	_ = v.BindPFlags(pf)

	root.AddCommand(newPlanCmd(v), newVersionCmd())
	root.Version = Version
	root.SetVersionTemplate("Topoplan {{.Version}}\n")
	return root
}
