package main

import (
	"errors"
	"net"
	"strconv"

	"github.com/undeconstructed/liarsdice/internal/cli"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Config struct {
	host     string
	port     int
	name     string
	bot      bool
	botStart bool
	verbose  bool
	config   string
}

func (c *Config) validate() error {
	if err := cli.ValidPort("port", c.port); err != nil {
		return err
	}
	if c.host == "" {
		return errors.New("--host must not be empty")
	}
	if c.bot && c.name == "" {
		return errors.New("a bot needs a --name")
	}
	return nil
}

func (c *Config) addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

func newCmd(cfg *Config, run func(*cobra.Command, *Config) error) *cobra.Command {
	v := cli.NewViper()

	cmd := &cobra.Command{
		Use:           "liars",
		Short:         "Plays liar's dice, at a terminal or by itself.",
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

	fs.StringVarP(&cfg.host, "host", "H", "localhost", "server to connect to (env: LIARSDICE_HOST)")
	fs.IntVarP(&cfg.port, "port", "p", 9637, "server port (env: LIARSDICE_PORT)")
	fs.StringVarP(&cfg.name, "name", "n", "", "username to ask for (env: LIARSDICE_NAME)")
	fs.BoolVar(&cfg.bot, "bot", false, "play automatically (env: LIARSDICE_BOT)")
	fs.BoolVar(&cfg.botStart, "bot-start", false, "as a bot, start the game when allowed (env: LIARSDICE_BOT_START)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log debug output (env: LIARSDICE_VERBOSE)")
	fs.StringVarP(&cfg.config, "config", "c", "", "config file, any format viper reads (env: LIARSDICE_CONFIG)")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("liars v{{.Version}}\n")

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
