package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ykaplan/cotenant/internal/api"
	"github.com/ykaplan/cotenant/internal/extract"
	"github.com/ykaplan/cotenant/internal/logger"
	"github.com/ykaplan/cotenant/internal/screening"
	"github.com/ykaplan/cotenant/internal/session"
	"github.com/ykaplan/cotenant/internal/verify"
)

func main() {
	// Parse command-line flags
	var (
		port           = flag.String("port", "8080", "HTTP server port")
		verifyEndpoint = flag.String("verify-endpoint", os.Getenv("VERIFY_ENDPOINT"), "restriction registry endpoint with one %s verb (or set VERIFY_ENDPOINT env)")
		extractorMode  = flag.String("extractor", "simulated", "bill extractor backend: simulated or gemini")
		collectNames   = flag.Bool("collect-names", false, "carry applicant names through screening reports")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	var extractor interface {
		extract.BillExtractor
		extract.MeterReader
	}
	switch *extractorMode {
	case "simulated":
		extractor = extract.NewSimulated()
	case "gemini":
		extractor = extract.NewGemini()
	default:
		log.Fatal().Str("extractor", *extractorMode).Msg("Unknown extractor mode")
	}

	sessions := session.NewStore()
	verifier := verify.NewClient(*verifyEndpoint, log)
	screeningSvc := screening.NewService(verifier, *collectNames, log)

	handler := api.NewRouter(api.Deps{
		Sessions:  sessions,
		Screening: screeningSvc,
		Extractor: extractor,
		Meter:     extractor,
		Log:       log,
	})

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("port", *port).
			Str("extractor", *extractorMode).
			Bool("collect_names", *collectNames).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
