// Package cli wires the annoworkcli command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kurusugawa-computer/annowork-cli/client"
	"github.com/kurusugawa-computer/annowork-cli/internal/config"
	"github.com/kurusugawa-computer/annowork-cli/internal/platform/logger"
)

var endpointURL string
var debug bool

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "annoworkcli",
		Short:         "Command line interface for the Annowork workspace management service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = logger.NewConsole(os.Stderr)

			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("ANNOWORK_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&endpointURL, "endpoint_url", "", "Annowork API endpoint (overrides config file and ANNOWORK_ENDPOINT_URL)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output, including HTTP request/response dumps")

	rootCmd.AddCommand(newScheduleCmd())
	rootCmd.AddCommand(newExpectedWorkingTimeCmd())
	rootCmd.AddCommand(newActualWorkingTimeCmd())
	rootCmd.AddCommand(newAnnofabCmd())
	rootCmd.AddCommand(newMyCmd())

	return rootCmd
}

// buildClient resolves configuration and constructs the API client.
func buildClient() (*client.Client, error) {
	cfg, err := config.Load(os.Getenv("ANNOWORK_CONFIG_PATH"))
	if err != nil {
		return nil, err
	}

	base := cfg.EndpointURL
	if endpointURL != "" {
		base = endpointURL
	}
	if base != "" && base != client.DefaultEndpointURL {
		log.Info().Str("endpoint_url", base).Msg("using non-default endpoint")
	}

	var opts []client.Option
	if cfg.LoginUserID != "" {
		opts = append(opts, client.WithLogin(cfg.LoginUserID, cfg.LoginPassword))
	}
	if debug || cfg.Debug {
		opts = append(opts, client.WithDebugLogging(true))
	}
	return client.New(base, opts...)
}
