package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads config.toml from
// configDir (or the working directory when configDir is empty), and binds
// environment variables with the HOMEWARD_ prefix.
//
// Config precedence (highest to lowest):
//  1. Environment variables (HOMEWARD_API_LISTEN, HOMEWARD_CHAT_API_KEY, ...)
//  2. config.toml file values
//  3. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("HOMEWARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load builds a Config from an initialized viper instance.
func Load(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// API
	v.SetDefault("api.listen", d.API.Listen)
	v.SetDefault("api.stream_timeout_seconds", d.API.StreamTimeoutSeconds)

	// Storage
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)

	// Chat
	v.SetDefault("chat.base_url", d.Chat.BaseURL)
	v.SetDefault("chat.model", d.Chat.Model)
	v.SetDefault("chat.api_key", d.Chat.APIKey)

	// Embedding
	v.SetDefault("embedding.base_url", d.Embedding.BaseURL)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.api_key", d.Embedding.APIKey)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	// Matching
	v.SetDefault("matching.candidate_limit", d.Matching.CandidateLimit)

	// Agent
	v.SetDefault("agent.candidate_limit", d.Agent.CandidateLimit)

	// Interview
	v.SetDefault("interview.target_answers", d.Interview.TargetAnswers)
	v.SetDefault("interview.batch_size", d.Interview.BatchSize)
}
