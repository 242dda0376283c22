// Package cli provides the command-line interface for shopchat.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopai/shopchat/internal/affiliate"
	"github.com/shopai/shopchat/internal/assistant"
	"github.com/shopai/shopchat/internal/config"
	"github.com/shopai/shopchat/internal/llm"
	"github.com/shopai/shopchat/internal/store"
	"github.com/shopai/shopchat/internal/wishlist"
	"github.com/spf13/cobra"
)

// Backend is the persistence surface the commands need: the showcase cache
// plus the wishlist store.
type Backend interface {
	assistant.Cache
	wishlist.Persister
}

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, logger and store
	cfg         config.Config
	logger      *slog.Logger
	logCleanup  func() error
	storeClient *store.Client // nil when running on the in-memory store
	backend     Backend

	// Lazy-initialized LLM client
	client *assistant.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "shopchat",
	Short: "AI shopping assistant chat",
	Long: `Shopchat is a conversational shopping assistant. Vivi, the assistant
persona, recommends products over a paced chat, tags every marketplace link
with affiliate parameters, and keeps a persistent wishlist.

Runs as an interactive terminal chat or as a websocket server for web
clients.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Load config
		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		// Connect to the store. A missing database is not fatal: the showcase
		// cache and wishlist degrade to process-local memory.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		storeCfg := store.Config{
			URL:       cfg.StoreURL,
			Namespace: cfg.StoreNamespace,
			Database:  cfg.StoreDatabase,
			Username:  cfg.StoreUser,
			Password:  cfg.StorePass,
		}

		dbClient, err := store.NewClient(ctx, storeCfg, logger)
		if err != nil {
			logger.Warn("store unreachable, using in-memory fallback", "url", cfg.StoreURL, "error", err)
			backend = store.NewMemory()
			return nil
		}
		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		storeClient = dbClient
		backend = dbClient
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if storeClient != nil {
			if err := storeClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
			}
		}
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// getClient creates the completion client with lazy LLM initialization.
func getClient(ctx context.Context) (*assistant.Client, error) {
	if client != nil {
		return client, nil
	}

	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init model: %w", err)
	}

	client = assistant.NewClient(model, backend,
		assistant.WithLogger(logger),
		assistant.WithShowcaseSize(cfg.ShowcaseSize),
		assistant.WithShowcaseTTL(cfg.ShowcaseTTL),
	)
	return client, nil
}

// getRewriter builds the affiliate rewriter, preferring a custom rule file
// when one is configured.
func getRewriter() (*affiliate.Rewriter, error) {
	if cfg.AffiliateRules == "" {
		return affiliate.Default(cfg.AmazonTag, cfg.MercadoLivreID), nil
	}
	rules, err := affiliate.LoadRules(cfg.AffiliateRules)
	if err != nil {
		return nil, fmt.Errorf("load affiliate rules: %w", err)
	}
	return affiliate.New(rules), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(showcaseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wishlistCmd)
}
