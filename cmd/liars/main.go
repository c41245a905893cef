package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/undeconstructed/liarsdice/client"
	"github.com/undeconstructed/liarsdice/client/bot"
	"github.com/undeconstructed/liarsdice/client/console"
	"github.com/undeconstructed/liarsdice/game"
	"github.com/undeconstructed/liarsdice/internal/cli"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	releaseVersion = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := &Config{}
	err := newCmd(cfg, play).ExecuteContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("client return")
		stop()
		os.Exit(1)
	}
}

func play(cmd *cobra.Command, cfg *Config) error {
	cli.SetupLogging(cfg.verbose, false)
	ctx := cmd.Context()

	if cfg.bot {
		b := bot.New(cfg.name, cfg.botStart, game.NewRoller(0))
		c, err := client.Dial(ctx, cfg.addr(), b)
		if err != nil {
			return err
		}
		return c.Run(ctx)
	}

	con, err := console.New(cfg.name)
	if err != nil {
		return err
	}
	c, err := client.Dial(ctx, cfg.addr(), con)
	if err != nil {
		con.Close()
		return err
	}

	// whichever ends first, the server or the person, ends the other
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer con.Close()
		return c.Run(gctx)
	})
	grp.Go(func() error {
		defer c.Close()
		return con.Run(c)
	})
	return grp.Wait()
}
