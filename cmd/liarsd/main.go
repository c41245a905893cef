package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/undeconstructed/liarsdice/internal/cli"
	"github.com/undeconstructed/liarsdice/server"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	releaseVersion = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	err := newCmd(cfg, serve).ExecuteContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("server return")
		stop()
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, cfg *Config) error {
	cli.SetupLogging(cfg.verbose, cfg.logJSON)

	s := server.NewServer(cfg.options())
	err := s.Run(cmd.Context())
	log.Info().Err(err).Msg("server return")
	return err
}
