package config

// Config represents the persistent homeward configuration, stored as
// config.toml and overridable via HOMEWARD_* environment variables.
// The TOML layout uses sections for logical grouping.
type Config struct {
	Version   int             `toml:"version" mapstructure:"version"`
	API       APIConfig       `toml:"api" mapstructure:"api"`
	Storage   StorageConfig   `toml:"storage" mapstructure:"storage"`
	Chat      ChatConfig      `toml:"chat" mapstructure:"chat"`
	Embedding EmbeddingConfig `toml:"embedding" mapstructure:"embedding"`
	Matching  MatchingConfig  `toml:"matching" mapstructure:"matching"`
	Agent     AgentConfig     `toml:"agent" mapstructure:"agent"`
	Interview InterviewConfig `toml:"interview" mapstructure:"interview"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty" mapstructure:"listen"`

	// StreamTimeoutSeconds is the hard wall-clock cap on one streaming
	// chat response. On expiry the upstream subscription is disposed and
	// the SSE channel is closed without error.
	StreamTimeoutSeconds int `toml:"stream_timeout_seconds,omitempty" mapstructure:"stream_timeout_seconds"`
}

// StorageConfig holds catalog/user store settings. An empty DSN selects
// the in-memory drivers.
type StorageConfig struct {
	PostgresDSN string `toml:"postgres_dsn,omitempty" mapstructure:"postgres_dsn"`
}

// ChatConfig holds chat-completion provider settings. The provider speaks
// the OpenAI chat completions wire format.
type ChatConfig struct {
	BaseURL string `toml:"base_url,omitempty" mapstructure:"base_url"`
	Model   string `toml:"model,omitempty" mapstructure:"model"`
	APIKey  string `toml:"api_key,omitempty" mapstructure:"api_key"`
}

// EmbeddingConfig holds embedding provider settings. Dimensions must match
// the vector column width of the catalog store.
type EmbeddingConfig struct {
	BaseURL    string `toml:"base_url,omitempty" mapstructure:"base_url"`
	Model      string `toml:"model,omitempty" mapstructure:"model"`
	APIKey     string `toml:"api_key,omitempty" mapstructure:"api_key"`
	Dimensions uint   `toml:"dimensions,omitempty" mapstructure:"dimensions"`
}

// MatchingConfig holds settings for the one-best-match flow.
type MatchingConfig struct {
	CandidateLimit int `toml:"candidate_limit,omitempty" mapstructure:"candidate_limit"`
}

// AgentConfig holds settings for the top-N agent flow.
type AgentConfig struct {
	CandidateLimit int `toml:"candidate_limit,omitempty" mapstructure:"candidate_limit"`
}

// InterviewConfig holds settings for the interview state machine.
type InterviewConfig struct {
	// TargetAnswers is the fixed number of answered questions required
	// before the fixed-count interview variant may conclude.
	TargetAnswers int `toml:"target_answers,omitempty" mapstructure:"target_answers"`

	// BatchSize is the number of questions emitted per round while the
	// fixed-count interview is still collecting.
	BatchSize int `toml:"batch_size,omitempty" mapstructure:"batch_size"`
}
