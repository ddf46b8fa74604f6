package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// serverFileConfig mirrors the shape of an optional mdslc.yml,
// overridable by flags and MDSLC_-prefixed environment variables.
type serverFileConfig struct {
	Addr        string `mapstructure:"addr"`
	JWTSecret   string `mapstructure:"jwt_secret"`
	TokenTTL    string `mapstructure:"token_ttl"`
	RequireAuth bool   `mapstructure:"require_auth"`
}

// loadServerConfig reads mdslc.yml from the current directory if
// present, falling back to defaults silently when it is not.
func loadServerConfig() (serverFileConfig, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("require_auth", true)

	v.SetConfigName("mdslc")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("MDSLC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return serverFileConfig{}, fmt.Errorf("reading mdslc.yml: %w", err)
		}
	}

	var cfg serverFileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return serverFileConfig{}, fmt.Errorf("parsing mdslc config: %w", err)
	}
	return cfg, nil
}

func (c serverFileConfig) tokenTTL() time.Duration {
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}
