package main

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/juncture/config"
)

type configEntry struct {
	Key    string        `json:"key" yaml:"key"`
	Value  string        `json:"value" yaml:"value"`
	Source config.Source `json:"source" yaml:"source"`
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change CLI configuration",
		Long: `Show and change the values the CLI resolves from flags, JUNCTURE_*
environment variables, .juncture.yaml, and ~/.config/juncture/config.yaml.

Valid keys: api_url, public_key, secret_key, output. The secret key is
always shown redacted and can only be saved to the global file.`,
	}
	cmd.AddCommand(
		newConfigGetCmd(a),
		newConfigSetCmd(a),
		newConfigUnsetCmd(a),
		newConfigPathCmd(a),
	)
	return cmd
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show resolved configuration values and their sources",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, p, err := a.setup(cmd)
			if err != nil {
				return err
			}

			keys := settings.Keys()
			if len(args) == 1 {
				if err := config.ValidateKey(args[0]); err != nil {
					return err
				}
				keys = []string{args[0]}
			}

			entries := make([]configEntry, 0, len(keys))
			for _, key := range keys {
				entries = append(entries, configEntry{
					Key:    key,
					Value:  settings.Display(key),
					Source: settings.Source(key),
				})
			}

			if len(args) == 1 && p.isTable() {
				fmt.Fprintln(cmd.OutOrStdout(), entries[0].Value)
				return nil
			}
			return p.print(entries, func(t table.Writer) {
				t.AppendHeader(table.Row{"Key", "Value", "Source"})
				for _, e := range entries {
					t.AppendRow(table.Row{e.Key, e.Value, e.Source})
				}
			})
		},
	}
}

func (a *app) saveConfig() config.SaveConfig {
	r := a.newResolver()
	local := r.LocalPath()
	if local == "" {
		local = config.LocalFileName
	}
	return config.SaveConfig{GlobalPath: r.GlobalPath(), LocalPath: local}
}

func newConfigSetCmd(a *app) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Save a configuration value",
		Example: `  juncture config set api_url https://api.juncture.example
  juncture config set output json --local`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			save := a.saveConfig()
			path := save.GlobalPath
			var err error
			if local {
				path = save.LocalPath
				err = save.SaveLocal(args[0], args[1])
			} else {
				err = save.SaveGlobal(args[0], args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", args[0], displayPath(path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Save to the project .juncture.yaml instead of the global file")
	return cmd
}

func newConfigUnsetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a value from the global configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateKey(args[0]); err != nil {
				return err
			}
			save := a.saveConfig()
			if err := save.DeleteGlobalKey(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", args[0], displayPath(save.GlobalPath))
			return nil
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := a.newResolver()
			fmt.Fprintf(cmd.OutOrStdout(), "global: %s\n", orDash(r.GlobalPath()))
			fmt.Fprintf(cmd.OutOrStdout(), "local:  %s\n", orDash(r.LocalPath()))
			return nil
		},
	}
}

func displayPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
