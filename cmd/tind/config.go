package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration after merging defaults, the config
file, TIND_* environment variables, and flags. The output is a valid
tind.yaml. The API token is never printed.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	cfg.Client.APIToken = ""
	return writeYAML(cmd.OutOrStdout(), cfg)
}

func init() {
	rootCmd.AddCommand(configCmd)
}
