// Package seedcmder provides the seed command for loading demo data.
package seedcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	adopterpg "github.com/homeward-labs/homeward/pkg/adopter/postgres"
	catalogpg "github.com/homeward-labs/homeward/pkg/catalog/postgres"
	"github.com/homeward-labs/homeward/pkg/config"
	"github.com/homeward-labs/homeward/pkg/embeddings"
	embeddingsopenai "github.com/homeward-labs/homeward/pkg/embeddings/openai"
	"github.com/homeward-labs/homeward/pkg/seed"
)

const seedLongDesc string = `Seed demo pets and a demo adopter into Postgres.

Seeding is idempotent: demo rows have fixed ids and are upserted.

Examples:
  homeward seed --postgres postgres://localhost/homeward
  homeward seed --skip-embeddings`

const seedShortDesc string = "Seed demo pets"

type seedCommander struct {
	configDir      string
	postgresDSN    string
	skipEmbeddings bool
}

func NewSeedCmd() *cobra.Command {
	cmder := &seedCommander{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.configDir, "config", "c", "", "Directory containing config.toml (default: working directory)")
	cmd.Flags().StringVarP(&cmder.postgresDSN, "postgres", "p", "", "Postgres DSN")
	cmd.Flags().BoolVar(&cmder.skipEmbeddings, "skip-embeddings", false, "Seed without calling the embedding provider")

	return cmd
}

func (c *seedCommander) run(ctx context.Context) error {
	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if c.postgresDSN != "" {
		cfg.Storage.PostgresDSN = c.postgresDSN
	}
	if cfg.Storage.PostgresDSN == "" {
		return fmt.Errorf("a Postgres DSN is required: pass --postgres or set storage.postgres_dsn")
	}

	pets, err := catalogpg.NewStore(ctx, cfg.Storage.PostgresDSN, cfg.Embedding.Dimensions)
	if err != nil {
		return fmt.Errorf("creating catalog store: %w", err)
	}
	defer pets.Close()

	users, err := adopterpg.NewStore(ctx, cfg.Storage.PostgresDSN, cfg.Embedding.Dimensions)
	if err != nil {
		return fmt.Errorf("creating adopter store: %w", err)
	}
	defer users.Close()

	var embedder embeddings.Embedder
	if !c.skipEmbeddings {
		embedder, err = embeddingsopenai.NewEmbedder(embeddingsopenai.EmbedderConfig{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
			APIKey:  cfg.Embedding.APIKey,
		})
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}
	}

	count, err := seed.Demo(ctx, pets, users, embedder)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d pets and adopter %q\n", count, seed.DemoUserID)
	return nil
}
