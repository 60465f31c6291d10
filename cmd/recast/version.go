package main

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/reglet-dev/recast/internal/version"
)

func newVersionCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of recast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "yaml":
				data, err := yaml.Marshal(info)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case "", "text":
				_, err := fmt.Fprintf(out, "recast version %s\n", info.Full())
				return err
			default:
				return fmt.Errorf("unknown format: %s (supported: text, json, yaml)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, yaml")
	return cmd
}
