package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/juncture"
	"github.com/randalmurphal/juncture/config"
	jerrors "github.com/randalmurphal/juncture/errors"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (request failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeReauthorizationRequired indicates the connection must be authorized again.
	ExitCodeReauthorizationRequired = 2
	// ExitCodeConfiguration indicates required configuration is missing.
	ExitCodeConfiguration = 3
)

type globalFlags struct {
	apiURL    string
	publicKey string
	secretKey string
	output    string
	verbose   bool
	noColor   bool
}

// app holds what commands share. Tests replace the resolver, navigator,
// and HTTP client.
type app struct {
	flags       globalFlags
	newResolver func() *config.Resolver
	navigator   juncture.Navigator
	httpClient  *http.Client
}

func newApp() *app {
	return &app{
		newResolver: func() *config.Resolver { return config.NewResolver() },
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "juncture",
		Short: "Manage Juncture connections and provider resources",
		Long: `juncture starts OAuth flows, inspects connections, and works with
provider resources such as Jira projects and tickets through the Juncture API.

Configuration is read from flags, JUNCTURE_* environment variables,
.juncture.yaml in the project, and ~/.config/juncture/config.yaml.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.flags.noColor {
				text.DisableColors()
			}
		},
	}
	cmd.SetVersionTemplate(`{{printf "juncture version %s\n" .Version}}`)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.apiURL, "api-url", "", "Juncture API base URL")
	pf.StringVar(&a.flags.publicKey, "public-key", "", "Juncture public key")
	pf.StringVar(&a.flags.secretKey, "secret-key", "", "Juncture secret key")
	pf.StringVarP(&a.flags.output, "output", "o", "", "Output format: table, json, or yaml")
	pf.BoolVar(&a.flags.verbose, "verbose", false, "Log each request to stderr")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newAuthorizeURLCmd(a),
		newConnectCmd(a),
		newConnectionCmd(a),
		newJiraCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", jerrors.Explain(err))
		return exitCode(err)
	}
	return ExitCodeSuccess
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case jerrors.IsReauthorizationRequired(err):
		return ExitCodeReauthorizationRequired
	case jerrors.IsConfiguration(err):
		return ExitCodeConfiguration
	default:
		return ExitCodeError
	}
}

func (a *app) settings() *config.Resolved {
	return a.newResolver().Resolve(map[string]string{
		config.KeyAPIURL:    a.flags.apiURL,
		config.KeyPublicKey: a.flags.publicKey,
		config.KeySecretKey: a.flags.secretKey,
		config.KeyOutput:    a.flags.output,
	})
}

func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (a *app) clientOptions(cmd *cobra.Command) []juncture.Option {
	opts := []juncture.Option{juncture.WithLogger(a.logger(cmd))}
	if a.httpClient != nil {
		opts = append(opts, juncture.WithHTTPClient(a.httpClient))
	}
	if a.navigator != nil {
		opts = append(opts, juncture.WithNavigator(a.navigator))
	}
	return opts
}

func (a *app) publicClient(cmd *cobra.Command, settings *config.Resolved) (*juncture.PublicClient, error) {
	return juncture.NewPublicClient(settings.PublicConfig(), a.clientOptions(cmd)...)
}

func (a *app) secretClient(cmd *cobra.Command, settings *config.Resolved) (*juncture.SecretClient, error) {
	return juncture.NewSecretClient(settings.SecretConfig(), a.clientOptions(cmd)...)
}

// setup resolves configuration and builds the printer every command uses.
func (a *app) setup(cmd *cobra.Command) (*config.Resolved, *printer, error) {
	settings := a.settings()
	p, err := newPrinter(settings.Get(config.KeyOutput), cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}
	return settings, p, nil
}
