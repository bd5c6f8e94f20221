// Copyright crimson206, 2026. All rights reserved.

// Package main is the entry point for the nbdigest CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the nbdigest CLI.
var rootCmd = &cobra.Command{
	Use:   "nbdigest",
	Short: "Extract publishable title/output digests from Jupyter notebooks",
	Long: `nbdigest turns executed Jupyter notebooks into flat JSON digests of
title/output pairs: each code cell that opens with a docstring title and
produced text output contributes one entry.

Each pipeline stage is a subcommand: fetch downloads notebooks, parse
extracts entries to JSON, and index maintains a searchable SQLite store
over everything parsed.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nbdigest.yaml or ~/.config/nbdigest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nbdigest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nbdigest"))
		}
	}

	viper.SetEnvPrefix("NBDIGEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setting resolves a string option: an explicitly set flag wins, then
// the config file / environment via viper, then the built-in fallback.
func setting(cmd *cobra.Command, flag, key, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
