// Copyright 2025 Digigaia
// SPDX-License-Identifier: LGPL-3.0-only

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/digigaia/kudu-go/abi"
	"github.com/digigaia/kudu-go/bytestream"
	"github.com/digigaia/kudu-go/jsonval"
)

var abiName string

func addABIFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&abiName, "abi", "",
		"Name of a preloaded ABI or the filename of an ABI to load. "+
			"If not specified, the registry is searched for an ABI declaring the given type")
}

// resolveABI returns the ABI to convert with: a preloaded one by name, one
// read from a file, or - when no name is given - a registry entry that
// declares the requested type.
func resolveABI(name, typename string) (*abi.ABI, error) {
	if name == "" {
		a, err := abi.FindABIFor(typename)
		if err != nil {
			return nil, fmt.Errorf("did not specify an ABI, nor is there one preloaded that declares type %q", typename)
		}
		return a, nil
	}

	if a, err := abi.GetABI(name); err == nil {
		return a, nil
	}

	text, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("could not read file %q: %w", name, err)
	}
	return abi.NewABIFromJSON(string(text))
}

func toHexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "to-hex TYPE JSON",
		Short: "Convert a JSON object to its hex representation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typename, jsonText := args[0], args[1]

			a, err := resolveABI(abiName, typename)
			if err != nil {
				return err
			}

			v, err := jsonval.Parse(jsonText)
			if err != nil {
				return err
			}

			ds := bytestream.New()
			if err := a.EncodeVariant(ds, typename, v); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ds.HexData())
			return nil
		},
	}
	addABIFlag(cmd)
	return cmd
}

func fromHexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "from-hex TYPE HEX",
		Short: "Decode hex data as a JSON object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typename, hexText := args[0], args[1]

			a, err := resolveABI(abiName, typename)
			if err != nil {
				return err
			}

			var bin *bytestream.ByteStream
			if strings.HasPrefix(hexText, "0x") {
				data, err := hexutil.Decode(hexText)
				if err != nil {
					return err
				}
				bin = bytestream.From(data)
			} else {
				bin, err = bytestream.FromHex(hexText)
				if err != nil {
					return err
				}
			}

			v, err := a.DecodeVariant(bin, typename)
			if err != nil {
				return err
			}

			out, err := jsonval.Marshal(v)
			if err != nil {
				return err
			}

			if leftover := len(bin.Leftover()); leftover != 0 {
				return fmt.Errorf("trailing input, %d bytes haven't been consumed. Decoded object: %s", leftover, out)
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addABIFlag(cmd)
	return cmd
}
