// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tagprint CLI, which prepares
// fiducial marker images for printing at a known physical size.
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

// rootCmd is the base command for the tagprint CLI.
var rootCmd = &cobra.Command{
	Use:   "tagprint",
	Short: "Prepare fiducial marker images for printing",
	Long: `tagprint resizes marker images (AprilTag, ArUco and similar) to an exact
physical print size, draws solid black squares at the four corners for
alignment, and writes the result with resolution metadata so printers and
layout tools reproduce the intended size.

Use convert to process a directory, inspect to read back size and DPI from
written files, and history to browse recorded runs.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tagprint.yaml or ~/.config/tagprint/tagprint.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tagprint")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tagprint"))
		}
	}

	viper.SetEnvPrefix("TAGPRINT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
