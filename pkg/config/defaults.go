package config

const (
	// CurrentV is the currently supported config version.
	CurrentV = 0

	// DefaultEmbeddingDimensions matches the reference deployment's
	// vector column width. Every persisted vector is either exactly this
	// wide or unset.
	DefaultEmbeddingDimensions = 1536
)

// NewDefaultConfig returns a fully-populated Config with sane defaults.
// Values set in the config file or environment override these.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen:               ":8080",
			StreamTimeoutSeconds: 60,
		},
		Storage: StorageConfig{
			PostgresDSN: "",
		},
		Chat: ChatConfig{
			BaseURL: "https://api.openai.com",
			Model:   "gpt-4o-mini",
		},
		Embedding: EmbeddingConfig{
			BaseURL:    "https://api.openai.com",
			Model:      "text-embedding-3-small",
			Dimensions: DefaultEmbeddingDimensions,
		},
		Matching: MatchingConfig{
			CandidateLimit: 5,
		},
		Agent: AgentConfig{
			CandidateLimit: 50,
		},
		Interview: InterviewConfig{
			TargetAnswers: 15,
			BatchSize:     5,
		},
	}
}
