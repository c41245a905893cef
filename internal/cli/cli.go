// Package cli is what the binaries share: flags bound to the environment and
// a config file, and logging.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is put in front of every flag's environment variable.
const EnvPrefix = "LIARSDICE"

// NewViper reads LIARSDICE_FLAG_NAME for --flag-name.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// EnvName is the variable that sets a flag.
func EnvName(flag string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// Normalize lets flags be given with underscores.
func Normalize(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

// Bind ties every flag to viper, and fills in any flag not given on the
// command line from what viper knows.
func Bind(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		val := fmt.Sprintf("%v", v.Get(f.Name))
		if f.Value.Type() == "stringSlice" {
			val = strings.Join(v.GetStringSlice(f.Name), ",")
		}
		if serr := fs.Set(f.Name, val); serr != nil && err == nil {
			err = fmt.Errorf("%s: %w", f.Name, serr)
		}
	})
	return err
}

// ReadConfig loads a config file, if one is named, then rebinds so its values
// fill any flags still unset.
func ReadConfig(v *viper.Viper, fs *pflag.FlagSet, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	return Bind(v, fs)
}

// SetupLogging points the global logger at stderr, for people unless json is
// set.
func SetupLogging(verbose, json bool) {
	setupLogging(os.Stderr, verbose, json)
}

func setupLogging(out io.Writer, verbose, json bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if json {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
}

// ValidPort checks a port that must be set.
func ValidPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s (must be between 1-65535 inclusive): %d", name, port)
	}
	return nil
}

// ValidOptionalPort checks a port where 0 means off.
func ValidOptionalPort(name string, port int) error {
	if port == 0 {
		return nil
	}
	return ValidPort(name, port)
}
