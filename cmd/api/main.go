package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/extracurricular/internal/api"
	"example.com/extracurricular/internal/config"
	"example.com/extracurricular/internal/domain"
	"example.com/extracurricular/internal/feed"
	"example.com/extracurricular/internal/observability"
	"example.com/extracurricular/internal/roster"
	httptransport "example.com/extracurricular/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	directory := roster.NewInMemoryDirectory(roster.SchoolCatalog())

	var recorder feed.Recorder = feed.NoopRecorder{}
	var dispatcher *feed.Dispatcher
	if len(cfg.KafkaBrokers) > 0 {
		producer := feed.NewKafkaProducer(cfg.KafkaBrokers, cfg.RosterTopic)
		defer producer.Close()

		registry := feed.NewSchemaRegistryClient(cfg.SchemaRegistryURL, cfg.SchemaRegistryTimeout)
		dispatcher = feed.NewDispatcher(producer, registry, cfg.RosterTopic, cfg.FeedFlushInterval, cfg.FeedBatchSize, cfg.FeedBufferSize)

		go dispatcher.Start(ctx)
		recorder = dispatcher
		log.Printf("roster feed enabled, publishing to %s", cfg.RosterTopic)
	}

	service := domain.NewService(directory, recorder)

	activities, err := directory.List(ctx)
	if err != nil {
		log.Fatalf("failed to load activity directory: %v", err)
	}
	for name, activity := range activities {
		observability.RecordSpots(name, activity.SpotsLeft())
	}
	log.Printf("activity directory seeded with %d activities", len(activities))

	handler := api.NewHandler(service)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	chain := logger(mux)
	if cfg.AllowedOrigin != "" {
		// Simple CORS middleware for local dev
		cors := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigin)
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
			})
		}
		chain = logger(cors(mux))
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:           cfg.HTTPAddress,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, chain)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("extracurricular-service listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	// In-flight requests may still record feed events until Shutdown
	// returns; the dispatcher must keep draining until then.
	cancel()
	if dispatcher != nil {
		dispatcher.Wait()
	}
}
