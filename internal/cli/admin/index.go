package admin

import (
	"context"
	"fmt"
	"log"

	"github.com/abdullah-khaled0/voice-secretary/internal/config"
	"github.com/abdullah-khaled0/voice-secretary/internal/github"
	"github.com/abdullah-khaled0/voice-secretary/internal/index"
	"github.com/abdullah-khaled0/voice-secretary/internal/openai"
	"github.com/abdullah-khaled0/voice-secretary/internal/profile"
	"github.com/spf13/cobra"
)

// IndexCmd returns the index management command
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the document index",
	}

	cmd.AddCommand(indexRebuildCmd())

	return cmd
}

func indexRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the document index from GitHub",
		Long:  "Fetch all configured repository READMEs, re-embed them, and replace the persisted index",
		RunE:  runIndexRebuild,
	}
}

func runIndexRebuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	aiClient := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})
	ghClient := github.NewClient(ctx, cfg.GitHubUsername, cfg.GitHubToken)

	owner := profile.Default()
	owner.GitHubUsername = cfg.GitHubUsername

	semanticIndex := index.New(cfg.IndexDir, aiClient, ghClient)

	log.Printf("rebuilding index at %s (%d repos)...", cfg.IndexDir, len(owner.Repos))
	if err := semanticIndex.Rebuild(ctx, owner.Repos); err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}

	log.Println("index rebuilt")
	return nil
}
