package main

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/undeconstructed/liarsdice/game"
	"github.com/undeconstructed/liarsdice/internal/cli"
	"github.com/undeconstructed/liarsdice/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultPort = 9637
)

type Config struct {
	bind      string
	port      int
	webPort   int
	adminPort int
	handSize  int
	origins   []string
	seed      int64
	verbose   bool
	logJSON   bool
	config    string
}

func (c *Config) validate() error {
	if err := cli.ValidPort("port", c.port); err != nil {
		return err
	}
	if err := cli.ValidOptionalPort("web port", c.webPort); err != nil {
		return err
	}
	if err := cli.ValidOptionalPort("admin port", c.adminPort); err != nil {
		return err
	}
	if c.handSize < 1 {
		return fmt.Errorf("invalid hand size (must be at least 1): %d", c.handSize)
	}
	if c.bind == "" {
		return errors.New("--bind must not be empty")
	}
	return nil
}

func (c *Config) addr(port int) string {
	if port == 0 {
		return ""
	}
	return net.JoinHostPort(c.bind, strconv.Itoa(port))
}

func (c *Config) options() server.Options {
	return server.Options{
		TCPAddr:   c.addr(c.port),
		WebAddr:   c.addr(c.webPort),
		AdminAddr: c.addr(c.adminPort),
		HandSize:  c.handSize,
		Seed:      c.seed,
		Origins:   c.origins,
	}
}

func newCmd(cfg *Config, run func(*cobra.Command, *Config) error) *cobra.Command {
	v := cli.NewViper()

	cmd := &cobra.Command{
		Use:           "liarsd",
		Short:         "Serves a table of liar's dice.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg)
		},
	}

	fs := cmd.Flags()
	cli.Normalize(fs)

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: LIARSDICE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", defaultPort, "port for the line protocol (env: LIARSDICE_PORT)")
	fs.IntVar(&cfg.webPort, "web-port", 0, "port for websockets and the status api, 0 for none (env: LIARSDICE_WEB_PORT)")
	fs.IntVar(&cfg.adminPort, "admin-port", 0, "port for grpc health checks, 0 for none (env: LIARSDICE_ADMIN_PORT)")
	fs.IntVar(&cfg.handSize, "hand-size", game.DefaultHandSize, "dice each player starts with (env: LIARSDICE_HAND_SIZE)")
	fs.StringSliceVar(&cfg.origins, "origin", nil, "extra websocket origin patterns to accept (env: LIARSDICE_ORIGIN)")
	fs.Int64Var(&cfg.seed, "seed", 0, "seed for the dice, 0 for random (env: LIARSDICE_SEED)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log debug output (env: LIARSDICE_VERBOSE)")
	fs.BoolVar(&cfg.logJSON, "log-json", false, "log json rather than text (env: LIARSDICE_LOG_JSON)")
	fs.StringVarP(&cfg.config, "config", "c", "", "config file, any format viper reads (env: LIARSDICE_CONFIG)")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("liarsd v{{.Version}}\n")

	return cmd
}

func loadConfig(v *viper.Viper, cmd *cobra.Command, cfg *Config) error {
	fs := cmd.Flags()
	if err := cli.Bind(v, fs); err != nil {
		return err
	}
	if err := cli.ReadConfig(v, fs, cfg.config); err != nil {
		return err
	}
	return cfg.validate()
}
