package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/kurusugawa-computer/annowork-cli/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	rootCmd := cli.NewRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
