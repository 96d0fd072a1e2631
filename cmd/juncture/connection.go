package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/juncture"
)

func newConnectionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connection",
		Short: "Inspect a provider connection",
	}
	cmd.AddCommand(
		newConnectionCheckCmd(a),
		newConnectionCredentialsCmd(a),
		newConnectionTokenCmd(a),
	)
	return cmd
}

// connectionRun returns a RunE that resolves a secret client and runs fn
// with the <provider> argument.
func connectionRun(a *app, fn func(cmd *cobra.Command, client *juncture.SecretClient, p *printer, provider juncture.Provider) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		settings, p, err := a.setup(cmd)
		if err != nil {
			return err
		}
		client, err := a.secretClient(cmd, settings)
		if err != nil {
			return err
		}
		return fn(cmd, client, p, juncture.Provider(args[0]))
	}
}

func newConnectionCheckCmd(a *app) *cobra.Command {
	var externalID string

	cmd := &cobra.Command{
		Use:   "check <provider>",
		Short: "Report whether a connection exists and is valid",
		Args:  cobra.ExactArgs(1),
		RunE: connectionRun(a, func(cmd *cobra.Command, client *juncture.SecretClient, p *printer, provider juncture.Provider) error {
			status, err := client.CheckConnectionValidity(cmd.Context(), externalID, provider)
			if err != nil {
				return err
			}
			return p.print(status, func(t table.Writer) {
				fieldRows(t,
					table.Row{"Provider", providerTitle(provider)},
					table.Row{"External ID", externalID},
					table.Row{"Exists", statusText(status.Exists, "yes", "no")},
					table.Row{"Valid", statusText(!status.IsInvalid, "yes", "no")},
					table.Row{"Expires", formatTime(status.ExpiresAt)},
				)
			})
		}),
	}

	cmd.Flags().StringVar(&externalID, "external-id", "", "Identifier the connection was created for")
	_ = cmd.MarkFlagRequired("external-id")
	return cmd
}

func newConnectionCredentialsCmd(a *app) *cobra.Command {
	var externalID string

	cmd := &cobra.Command{
		Use:   "credentials <provider>",
		Short: "Print the refresh token of a connection",
		Args:  cobra.ExactArgs(1),
		RunE: connectionRun(a, func(cmd *cobra.Command, client *juncture.SecretClient, p *printer, provider juncture.Provider) error {
			creds, err := client.ConnectionCredentials(cmd.Context(), externalID, provider)
			if err != nil {
				return err
			}
			return p.print(creds, func(t table.Writer) {
				fieldRows(t,
					table.Row{"Refresh Token", creds.RefreshToken},
					table.Row{"Expires", formatTime(&creds.ExpiresAt)},
					table.Row{"Valid", statusText(!creds.IsInvalid, "yes", "no")},
				)
			})
		}),
	}

	cmd.Flags().StringVar(&externalID, "external-id", "", "Identifier the connection was created for")
	_ = cmd.MarkFlagRequired("external-id")
	return cmd
}

func newConnectionTokenCmd(a *app) *cobra.Command {
	var externalID string

	cmd := &cobra.Command{
		Use:   "token <provider>",
		Short: "Print a current access token for a connection",
		Long: `Print a short-lived access token for calling the provider directly.

Exits with status 2 when the connection must be authorized again.`,
		Args: cobra.ExactArgs(1),
		RunE: connectionRun(a, func(cmd *cobra.Command, client *juncture.SecretClient, p *printer, provider juncture.Provider) error {
			token, err := client.AccessToken(cmd.Context(), externalID, provider)
			if err != nil {
				return err
			}
			return p.print(token, func(t table.Writer) {
				fieldRows(t,
					table.Row{"Access Token", token.AccessToken},
					table.Row{"Expires", formatTime(&token.ExpiresAt)},
				)
			})
		}),
	}

	cmd.Flags().StringVar(&externalID, "external-id", "", "Identifier the connection was created for")
	_ = cmd.MarkFlagRequired("external-id")
	return cmd
}
