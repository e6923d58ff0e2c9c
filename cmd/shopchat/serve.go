package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/shopchat-ai/shopchat/auth"
	"github.com/shopchat-ai/shopchat/config"
	"github.com/shopchat-ai/shopchat/core"
	"github.com/shopchat-ai/shopchat/history"
	"github.com/shopchat-ai/shopchat/logging"
	"github.com/shopchat-ai/shopchat/memory"
	"github.com/shopchat-ai/shopchat/model"
	"github.com/shopchat-ai/shopchat/model/anthropic"
	"github.com/shopchat-ai/shopchat/model/openai"
	"github.com/shopchat-ai/shopchat/orchestrator"
	"github.com/shopchat-ai/shopchat/search"
	"github.com/shopchat-ai/shopchat/server"
	"github.com/shopchat-ai/shopchat/tool"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ShopChat HTTP API",
	Long: `Starts the HTTP server with account registration, token login and the
authenticated query endpoint. Requires POSTGRES_DSN for stored chat history
and SECRET_KEY for signing access tokens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFileArg(cmd))
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		if cfg.JWTSecret == "" {
			return errors.New("SECRET_KEY is required to sign access tokens")
		}
		if cfg.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for account and history storage")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store := history.Connect(cfg.PostgresDSN)
		defer store.Close()
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("init history store: %w", err)
		}

		issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, func(o *auth.TokenIssuerOptions) {
			o.TTL = time.Duration(cfg.TokenTTLMinutes) * time.Minute
		})
		if err != nil {
			return err
		}

		mem := newMemoryStore(cfg, logger)
		assistant, err := newAssistant(cfg, mem, logger)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr: cfg.Addr,
			Handler: server.New(store, store, mem, issuer, assistant, func(o *server.Options) {
				o.Logger = logger
			}).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server.listen", "addr", cfg.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("server.shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// envFileArg makes an explicitly passed --env-file mandatory while the
// default ".env" stays best effort.
func envFileArg(cmd *cobra.Command) string {
	if cmd.Flags().Changed("env-file") {
		f, _ := cmd.Flags().GetString("env-file")
		return f
	}
	return ""
}

func newLogger(cfg *config.Config) logging.Logger {
	return logging.New(&logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})
}

// newModel selects the backing model from configuration. The mock provider
// exists for offline smoke tests.
func newModel(cfg *config.Config) (model.Model, error) {
	switch cfg.ModelProvider {
	case "openai", "":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.ModelName != "" {
				o.Model = anthropicsdk.Model(cfg.ModelName)
			}
			o.APIKey = cfg.AnthropicAPIKey
		}), nil
	case "mock":
		m := model.NewMockModel("mock", "mock")
		m.AddResponse("", "This is a canned response.")
		return m, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
}

func newMemoryStore(cfg *config.Config, logger logging.Logger) core.MemoryStore {
	if cfg.RedisAddr == "" {
		return memory.NewInMemoryStore()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	logger.Info("memory.redis", "addr", cfg.RedisAddr)
	return memory.NewRedisStore(client)
}

func newProductTools(cfg *config.Config, logger logging.Logger) []tool.Tool {
	if cfg.RapidAPIKey == "" {
		logger.Warn("search.disabled", "reason", "RAPIDAPI_KEY not set")
		return nil
	}
	amazon := search.NewAmazonClient(cfg.RapidAPIKey, func(o *search.AmazonOptions) { o.Logger = logger })
	walmart := search.NewWalmartClient(cfg.RapidAPIKey, func(o *search.WalmartOptions) { o.Logger = logger })
	return search.ProductTools(amazon, walmart)
}

func newAssistant(cfg *config.Config, mem core.MemoryStore, logger logging.Logger) (*orchestrator.Orchestrator, error) {
	llm, err := newModel(cfg)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(orchestrator.BuildConfig{
		Model:                 llm,
		Memory:                mem,
		ProductTools:          newProductTools(cfg, logger),
		ContextDepth:          cfg.ContextDepth,
		ToolTimeout:           time.Duration(cfg.ToolTimeoutSeconds) * time.Second,
		MaxRounds:             cfg.MaxRounds,
		StrictAnalyzerRouting: cfg.StrictAnalyzerRouting,
		Logger:                logger,
	})
}
