package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/juncture"
)

type authorizationResult struct {
	Provider         juncture.Provider `json:"provider" yaml:"provider"`
	ExternalID       string            `json:"externalId" yaml:"externalId"`
	AuthorizationURI string            `json:"authorizationUri" yaml:"authorizationUri"`
}

func newAuthorizeURLCmd(a *app) *cobra.Command {
	var externalID string

	cmd := &cobra.Command{
		Use:   "authorize-url <provider>",
		Short: "Print the URL where a user authorizes a connection",
		Long: `Start an OAuth flow and print the authorization URL instead of opening it.

Use this on machines without a browser. When --external-id is omitted a new
identifier is generated and printed alongside the URL.`,
		Example: `  juncture authorize-url jira --external-id user-42
  juncture authorize-url jira -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, p, err := a.setup(cmd)
			if err != nil {
				return err
			}

			id := externalID
			if id == "" {
				if id, err = juncture.NewExternalID(); err != nil {
					return err
				}
			}

			client, err := a.publicClient(cmd, settings)
			if err != nil {
				return err
			}

			provider := juncture.Provider(args[0])
			uri, err := client.AuthorizationURL(cmd.Context(), provider, id)
			if err != nil {
				return err
			}

			result := authorizationResult{Provider: provider, ExternalID: id, AuthorizationURI: uri}
			return p.print(result, func(t table.Writer) {
				fieldRows(t,
					table.Row{"Provider", providerTitle(provider)},
					table.Row{"External ID", id},
					table.Row{"Authorization URL", uri},
				)
			})
		},
	}

	cmd.Flags().StringVar(&externalID, "external-id", "", "Identifier of the user or tenant being connected (generated when omitted)")
	return cmd
}

func newConnectCmd(a *app) *cobra.Command {
	var (
		externalID  string
		framework   string
		reauthorize bool
	)

	cmd := &cobra.Command{
		Use:   "connect <provider>",
		Short: "Open the browser to authorize a connection",
		Long: `Start an OAuth flow and open the authorization page in the default browser.

Use --reauthorize when a connection reports that it must be authorized again.
On machines without a browser use 'juncture authorize-url' instead.`,
		Example: `  juncture connect jira --external-id user-42
  juncture connect jira --external-id user-42 --reauthorize`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := a.settings()

			var fw juncture.Framework
			if framework != "" {
				parsed, err := juncture.ParseFramework(framework)
				if err != nil {
					return err
				}
				fw = parsed
			}

			client, err := a.publicClient(cmd, settings)
			if err != nil {
				return err
			}

			provider := juncture.Provider(args[0])
			if reauthorize {
				err = client.Reauthorize(cmd.Context(), provider, externalID, fw)
			} else {
				err = client.RedirectTo(cmd.Context(), provider, externalID, fw)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Opened the %s authorization page for %s.\n", providerTitle(provider), externalID)
			return nil
		},
	}

	cmd.Flags().StringVar(&externalID, "external-id", "", "Identifier of the user or tenant being connected")
	cmd.Flags().StringVar(&framework, "framework", "", "Front-end framework of the caller (react, nextjs, vue, angular, svelte)")
	cmd.Flags().BoolVar(&reauthorize, "reauthorize", false, "Authorize an existing connection again")
	_ = cmd.MarkFlagRequired("external-id")
	return cmd
}
