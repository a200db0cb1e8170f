package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zoobzio/replica"
)

const (
	configFileName = "replica"
	configFileType = "yaml"
	envPrefix      = "REPLICA"

	cfgKeyFormat    = "format"
	cfgKeyIsolation = "isolation"
	cfgKeyStrategy  = "strategy"

	defaultFormat   = "text"
	defaultStrategy = string(replica.StrategyDeep)
)

var validFormats = []string{"text", "json", "yaml"}

// settings is the resolved configuration shared by every command.
type settings struct {
	Format    string
	Isolation bool
	Strategy  replica.Strategy
}

// loadConfig layers flags over REPLICA_* environment variables over the
// config file over defaults. A missing config file is not an error.
func loadConfig(cmd *cobra.Command, configFile string) (*settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyFormat, defaultFormat)
	v.SetDefault(cfgKeyIsolation, false)
	v.SetDefault(cfgKeyStrategy, defaultStrategy)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "replica"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	s := &settings{
		Format:    strings.ToLower(v.GetString(cfgKeyFormat)),
		Isolation: v.GetBool(cfgKeyIsolation),
		Strategy:  replica.Strategy(v.GetString(cfgKeyStrategy)),
	}
	return s, s.validate()
}

func (s *settings) validate() error {
	valid := false
	for _, f := range validFormats {
		if s.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown format %q (want one of %s)", s.Format, strings.Join(validFormats, ", "))
	}
	if !replica.IsValidStrategy(s.Strategy) {
		return fmt.Errorf("strategy %q: %w", s.Strategy, replica.ErrInvalidStrategy)
	}
	return nil
}
