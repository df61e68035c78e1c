// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/homeward-labs/homeward/api"
	"github.com/homeward-labs/homeward/pkg/adopter"
	adoptermem "github.com/homeward-labs/homeward/pkg/adopter/inmemory"
	adopterpg "github.com/homeward-labs/homeward/pkg/adopter/postgres"
	"github.com/homeward-labs/homeward/pkg/agent"
	"github.com/homeward-labs/homeward/pkg/catalog"
	catalogmem "github.com/homeward-labs/homeward/pkg/catalog/inmemory"
	catalogpg "github.com/homeward-labs/homeward/pkg/catalog/postgres"
	"github.com/homeward-labs/homeward/pkg/config"
	embeddingsopenai "github.com/homeward-labs/homeward/pkg/embeddings/openai"
	"github.com/homeward-labs/homeward/pkg/ingest"
	llmopenai "github.com/homeward-labs/homeward/pkg/llm/openai"
	"github.com/homeward-labs/homeward/pkg/logger"
	"github.com/homeward-labs/homeward/pkg/matching"
	"github.com/homeward-labs/homeward/pkg/seed"
)

type ServeCommander struct {
	configDir   string
	listen      string
	postgresDSN string
	seedDemo    bool
	debug       bool
	logger      *zap.Logger
}

const serveLongDesc string = `Run the Homeward API server.

Configuration is read from config.toml and HOMEWARD_* environment
variables; flags take precedence. With no Postgres DSN the server runs
on in-memory stores, which is handy for local development:
  homeward serve --seed`

const serveShortDesc string = "Run the Homeward API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.configDir, "config", "c", "", "Directory containing config.toml (default: working directory)")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for API server to listen on")
	cmd.Flags().StringVarP(&cmder.postgresDSN, "postgres", "p", "", "Postgres DSN (default: in-memory stores)")
	cmd.Flags().BoolVar(&cmder.seedDemo, "seed", false, "Seed demo pets and a demo adopter on startup")

	return cmd
}

func (c *ServeCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	pets, users, closeStores, err := c.newStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	chat, err := llmopenai.NewClient(llmopenai.Config{
		BaseURL: cfg.Chat.BaseURL,
		Model:   cfg.Chat.Model,
		APIKey:  cfg.Chat.APIKey,
	})
	if err != nil {
		return fmt.Errorf("creating chat client: %w", err)
	}

	embedder, err := embeddingsopenai.NewEmbedder(embeddingsopenai.EmbedderConfig{
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		APIKey:  cfg.Embedding.APIKey,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	if c.seedDemo {
		count, err := seed.Demo(ctx, pets, users, embedder)
		if err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
		c.logger.Info("seeded demo data", zap.Int("pets", count))
	}

	matcher := matching.NewMatcher(chat, embedder, pets, users, c.logger, matching.Config{
		CandidateLimit: cfg.Matching.CandidateLimit,
	})
	interviewer := agent.NewInterviewer(chat, c.logger, agent.InterviewerConfig{
		TargetAnswers: cfg.Interview.TargetAnswers,
		BatchSize:     cfg.Interview.BatchSize,
	})
	recommender := agent.NewRecommender(chat, embedder, pets, c.logger, agent.RecommenderConfig{
		CandidateLimit: cfg.Agent.CandidateLimit,
	})
	ingestor := ingest.NewIngestor(chat, embedder, pets, c.logger)

	apiConfig := api.Config{
		ListenAddr:    cfg.API.Listen,
		StreamTimeout: time.Duration(cfg.API.StreamTimeoutSeconds) * time.Second,
	}
	server := api.NewServer(apiConfig, matcher, interviewer, recommender, ingestor, chat, pets, users, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

// loadConfig reads config.toml and the environment, then applies flag
// overrides.
func (c *ServeCommander) loadConfig() (*config.Config, error) {
	v, err := config.InitViper(c.configDir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	if c.listen != "" {
		cfg.API.Listen = c.listen
	}
	if c.postgresDSN != "" {
		cfg.Storage.PostgresDSN = c.postgresDSN
	}

	return cfg, nil
}

func (c *ServeCommander) newStores(ctx context.Context, cfg *config.Config) (catalog.Store, adopter.Store, func(), error) {
	if cfg.Storage.PostgresDSN == "" {
		c.logger.Info("using in-memory stores")
		return catalogmem.NewStore(), adoptermem.NewStore(), func() {}, nil
	}

	pets, err := catalogpg.NewStore(ctx, cfg.Storage.PostgresDSN, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating catalog store: %w", err)
	}

	users, err := adopterpg.NewStore(ctx, cfg.Storage.PostgresDSN, cfg.Embedding.Dimensions)
	if err != nil {
		pets.Close()
		return nil, nil, nil, fmt.Errorf("creating adopter store: %w", err)
	}

	c.logger.Info("using Postgres stores")
	closeStores := func() {
		users.Close()
		pets.Close()
	}
	return pets, users, closeStores, nil
}
