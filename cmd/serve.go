package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/voluntree/voluntree/internal/ai"
	"github.com/voluntree/voluntree/internal/ai/gemini"
	"github.com/voluntree/voluntree/internal/ai/openai"
	"github.com/voluntree/voluntree/internal/catalog"
	applogger "github.com/voluntree/voluntree/internal/logger"
	"github.com/voluntree/voluntree/internal/ranking"
	"github.com/voluntree/voluntree/internal/secrets"
	"github.com/voluntree/voluntree/internal/server"
	"github.com/voluntree/voluntree/internal/state"
	"github.com/voluntree/voluntree/internal/tags"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the voluntree web server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "port to listen on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

// serve assembles the application and runs the HTTP server until shutdown.
func serve() {
	ctx := context.Background()

	logger, err := applogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the voluntree server", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	items, err := openCatalog(config)
	if err != nil {
		logger.Fatal("loading the catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("count", items.Len()))

	store, err := state.Open(config.State.File)
	if err != nil {
		logger.Fatal("opening the state store", zap.Error(err))
	}
	defer store.Close()

	session := state.NewSession(store, logger)

	ranker, err := newRanker(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the ranking provider", zap.Error(err))
	}
	if ranker == nil {
		logger.Info("remote ranking disabled, recommendations use local ordering")
	}

	quiz, err := newQuizClient(config.Quiz, logger)
	if err != nil {
		logger.Fatal("building the quiz client", zap.Error(err))
	}

	srv, err := server.New(server.Config{Port: config.Server.Port}, server.Deps{
		Catalog: items,
		Session: session,
		Engine:  ranking.New(ranker, logger),
		Tags:    quiz,
	}, logger)
	if err != nil {
		logger.Fatal("assembling the server", zap.Error(err))
	}

	if err := srv.Start(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func openCatalog(config *Config) (*catalog.Catalog, error) {
	if config.Catalog != nil && strings.TrimSpace(config.Catalog.File) != "" {
		return catalog.FromFile(config.Catalog.File)
	}
	return catalog.Default()
}

// newRanker builds the configured remote ranking provider. A nil result with
// a nil error means remote ranking is disabled.
func newRanker(ctx context.Context, cfg *AIConfig, base *zap.Logger) (ai.Ranker, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai configuration is required when ai is enabled")
		}

		apiKey := ""
		if cfg.OpenAI.APIKey != "" || cfg.OpenAI.APIKeyFile != "" {
			var err error
			apiKey, err = secrets.Load(secrets.Source{
				Name:  "openai api key",
				Value: cfg.OpenAI.APIKey,
				File:  cfg.OpenAI.APIKeyFile,
			})
			if err != nil {
				return nil, err
			}
		}

		return openai.New(openai.Config{
			BaseURL:      cfg.OpenAI.BaseURL,
			APIKey:       apiKey,
			Model:        cfg.OpenAI.Model,
			MaxTokens:    cfg.OpenAI.MaxTokens,
			Temperature:  cfg.OpenAI.Temperature,
			MaxRetries:   cfg.OpenAI.MaxRetries,
			Timeout:      time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
			MaxLogLength: cfg.OpenAI.MaxLogLength,
		}, applogger.WithProviderFields(base, "openai", cfg.OpenAI.Model))

	case "gemini":
		if cfg.Gemini == nil {
			return nil, fmt.Errorf("gemini configuration is required when ai provider is gemini")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}

		rankerLogger := applogger.WithProviderFields(base, "gemini", generator.Model())
		return gemini.NewRanker(generator, cfg.Gemini.MaxLogLength, rankerLogger), nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newQuizClient(cfg *QuizConfig, logger *zap.Logger) (*tags.Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.URL) == "" {
		return nil, nil
	}
	return tags.New(cfg.URL, time.Duration(cfg.TimeoutSeconds)*time.Second, logger)
}
