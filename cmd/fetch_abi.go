// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/digigaia/kudu-go/abi"
	"github.com/digigaia/kudu-go/api"
)

func fetchABICmd() *cobra.Command {
	var endpoint string
	var outDir string

	cmd := &cobra.Command{
		Use:   "fetch-abi ACCOUNT...",
		Short: "Fetch contract ABIs from a producer node and register them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if endpoint == "" {
				endpoint = loadedConfig.API.Endpoint
			}
			if endpoint == "" {
				return fmt.Errorf("no chain api endpoint given (use --endpoint or the config file)")
			}

			client := api.NewClient(endpoint)

			var eg errgroup.Group
			for _, account := range args {
				account := account
				eg.Go(func() error {
					text, err := client.GetABI(account)
					if err != nil {
						return fmt.Errorf("fetching ABI for %q: %w", account, err)
					}
					if err := abi.LoadABI(account, text); err != nil {
						return fmt.Errorf("loading ABI for %q: %w", account, err)
					}
					if outDir != "" {
						path := filepath.Join(outDir, account+".abi.json")
						if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
							return fmt.Errorf("writing ABI for %q: %w", account, err)
						}
						logrus.WithFields(logrus.Fields{"account": account, "path": path}).Info("stored ABI")
					} else {
						logrus.WithField("account", account).Info("registered ABI")
					}
					return nil
				})
			}
			return eg.Wait()
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Chain API endpoint of a producer node")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to store the fetched ABI files in")
	return cmd
}
