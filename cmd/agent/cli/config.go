package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the agent's runtime configuration (§10 AMBIENT STACK), loaded
// from a YAML file with environment-variable overrides, mirroring
// acdtunes-spacetraders's viper config loader.
type Config struct {
	KnowledgeDSN     string  `mapstructure:"knowledge_dsn"`
	BlueprintDir     string  `mapstructure:"blueprint_dir"`
	ActionsPerSecond float64 `mapstructure:"actions_per_second"`
	RetryAttempts    int     `mapstructure:"retry_attempts"`
	LogLevel         string  `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("knowledge_dsn", "file:data/knowledge.db?cache=shared")
	v.SetDefault("blueprint_dir", "blueprints")
	v.SetDefault("actions_per_second", 10.0)
	v.SetDefault("retry_attempts", 3)
	v.SetDefault("log_level", "info")
}

// LoadConfig reads configuration from configPath (if non-empty), falling
// back to ./config.yaml, with AGENT_-prefixed environment overrides
// taking priority over both.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix("AGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
