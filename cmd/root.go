// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package cmd

import (
	"fmt"
	stdlog "log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/digigaia/kudu-go/abi"
	"github.com/digigaia/kudu-go/config"
)

var (
	configFile string
	verbose    bool

	loadedConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:               "kuduconv",
	Short:             "Convert JSON to/from hex data according to an ABI",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(toHexCmd())
	rootCmd.AddCommand(fromHexCmd())
	rootCmd.AddCommand(fetchABICmd())
}

func setup(_ *cobra.Command, _ []string) error {
	stdlog.SetOutput(logrus.WithFields(logrus.Fields{"logger": "stdlib"}).WriterLevel(logrus.InfoLevel))
	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if configFile == "" {
		return nil
	}

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	if err := viper.Unmarshal(&loadedConfig); err != nil {
		return err
	}
	if err := loadedConfig.Validate(); err != nil {
		return err
	}

	// preload the configured ABI files into the registry
	for _, entry := range loadedConfig.ABIs {
		text, err := os.ReadFile(entry.File)
		if err != nil {
			return fmt.Errorf("could not read ABI file %q: %w", entry.File, err)
		}
		if err := abi.LoadABI(entry.Name, string(text)); err != nil {
			return fmt.Errorf("could not load ABI %q: %w", entry.Name, err)
		}
		logrus.WithFields(logrus.Fields{"name": entry.Name, "file": entry.File}).Debug("preloaded ABI")
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
