package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr    string `mapstructure:"http_addr"`
	PostgresURL string `mapstructure:"postgres_url"`
	RedisAddr   string `mapstructure:"redis_addr"`
	GatewayAddr string `mapstructure:"gateway_addr"`
}

// Load reads configuration from the environment, falling back to an optional
// config.yaml in the working directory. Environment keys use the unprefixed
// upper-case form of the struct keys (POSTGRES_URL, REDIS_ADDR, ...).
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("postgres_url", "")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("gateway_addr", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, err
	}

	return c, nil
}
