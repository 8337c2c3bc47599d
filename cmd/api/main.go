package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/culinary-craft/backend/internal/config"
	"github.com/zhouzirui/culinary-craft/backend/internal/handler"
	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/agent"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/catalog"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/chat"
	"github.com/zhouzirui/culinary-craft/backend/internal/store/firestore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, closeStore, err := newRecipeStore(ctx, cfg.Catalog)
	if err != nil {
		log.Fatalf("failed to initialize recipe catalog: %v", err)
	}
	defer closeStore()

	gateway, err := newGateway(ctx, cfg.AI)
	if err != nil {
		log.Printf("warning: failed to initialize %s agent: %v", cfg.AI.Provider, err)
		log.Println("falling back to the offline mock agent - 请检查模型相关环境变量")
		gateway = agent.NewMockGateway()
	}

	catalogService := catalog.NewService(store)
	chatService := chat.NewService(gateway, catalogService)

	router := handler.NewRouter(chatService, catalogService)

	startServer(ctx, cfg.Server, router)
}

func newGateway(ctx context.Context, cfg config.AIConfig) (agent.Gateway, error) {
	switch cfg.Provider {
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, err
		}
		gw, err := agent.NewEinoGateway(ctx, chatModel, cfg.HistoryLimit)
		if err != nil {
			return nil, err
		}
		log.Printf("Ark agent initialized, model=%s", cfg.Model)
		return gw, nil
	case config.ProviderGemini:
		gw, err := agent.NewGeminiGateway(ctx, agent.GeminiConfig{
			APIKey:       cfg.GeminiAPIKey,
			Project:      cfg.GCPProject,
			Location:     cfg.GCPLocation,
			Model:        cfg.GeminiModel,
			HistoryLimit: cfg.HistoryLimit,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("Gemini agent initialized, model=%s", cfg.GeminiModel)
		return gw, nil
	case config.ProviderMock:
		log.Println("模型凭证未配置，使用离线 mock agent")
		return agent.NewMockGateway(), nil
	default:
		return nil, fmt.Errorf("unknown agent provider %q", cfg.Provider)
	}
}

func newRecipeStore(ctx context.Context, cfg config.CatalogConfig) (recipe.Store, func(), error) {
	if cfg.Backend == "firestore" {
		store, err := firestore.NewStore(ctx, cfg.Project, cfg.Collection)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Firestore catalog initialized, project=%s, collection=%s", cfg.Project, cfg.Collection)
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("warning: failed to close firestore client: %v", err)
			}
		}, nil
	}

	var seed []recipe.Record
	switch {
	case cfg.SeedFile != "":
		records, err := recipe.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		seed = records
	case cfg.Seed:
		seed = recipe.Seed()
	}
	log.Printf("in-memory catalog initialized with %d recipes", len(seed))
	return recipe.NewMemoryStore(seed), func() {}, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Culinary Craft backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Printf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
