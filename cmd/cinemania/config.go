package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/config"
)

var configOpts struct {
	force bool
}

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Print the effective configuration",
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := toml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a default config file",
	Annotations: map[string]string{skipSetup: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := globalOpts.configPath
		if path == "" {
			path = config.ConfigPath()
		}

		if _, err := os.Stat(path); err == nil && !configOpts.force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configOpts.force, "force", false,
		"Overwrite an existing config file")
}
