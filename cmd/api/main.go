package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zhouzirui/wave-chatbot/backend/internal/config"
	"github.com/zhouzirui/wave-chatbot/backend/internal/handler"
	"github.com/zhouzirui/wave-chatbot/backend/internal/metrics"
	faqModel "github.com/zhouzirui/wave-chatbot/backend/internal/model/faq"
	faqService "github.com/zhouzirui/wave-chatbot/backend/internal/service/faq"
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

	entries, err := loadCorpus(cfg.FAQ)
	if err != nil {
		log.Fatalf("failed to load faq corpus: %v", err)
	}
	store := faqModel.NewMemoryStore(entries)
	log.Printf("FAQ corpus loaded: %d entries", store.Len())

	resolverMetrics := metrics.NewResolver()
	resolverMetrics.SetCorpusSize(store.Len())

	// 检索器初始化失败时继续启动，/api/chat 会返回 500 "Error initializing search"
	var resolver *faqService.Service
	retriever, err := faqService.NewRetriever(store, cfg.FAQ.Threshold)
	if err != nil {
		log.Printf("warning: failed to initialize search: %v", err)
		resolver = faqService.NewService(nil, resolverMetrics)
	} else {
		log.Printf("Search initialized with threshold %.2f", retriever.Threshold())
		resolver = faqService.NewService(retriever, resolverMetrics)
	}

	router := handler.NewRouter(handler.Dependencies{
		Store:          store,
		Resolver:       resolver,
		Metrics:        resolverMetrics,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	startServer(ctx, cfg.Server, router)
}

func loadCorpus(cfg config.FAQConfig) ([]faqModel.Entry, error) {
	if cfg.CorpusPath == "" {
		return faqModel.Default()
	}
	log.Printf("loading faq corpus from %s", cfg.CorpusPath)
	return faqModel.LoadFile(cfg.CorpusPath)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Wave chatbot backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
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
