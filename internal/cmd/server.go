package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/bjarke-xyz/benefit-gateway/internal/classifier"
	"github.com/bjarke-xyz/benefit-gateway/internal/eligibility"
	"github.com/bjarke-xyz/benefit-gateway/internal/repository"
	serverPkg "github.com/bjarke-xyz/benefit-gateway/internal/server"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func ServerCmd(ctx context.Context) error {
	godotenv.Load()
	port := 9090
	_port := os.Getenv("PORT")
	if _port != "" {
		port, _ = strconv.Atoi(_port)
	}
	metricsPort := 9091
	_metricsPort := os.Getenv("METRICS_PORT")
	if _metricsPort != "" {
		metricsPort, _ = strconv.Atoi(_metricsPort)
	}
	logger := newLogger("api")

	// The classifiers are fitted offline; the service only consumes the
	// artifacts.
	screeningModel, err := classifier.Load(envString("SCREENING_MODEL_PATH", "models/screening.json"))
	if err != nil {
		return fmt.Errorf("error loading screening model: %w", err)
	}
	decisionModel, err := classifier.Load(envString("DECISION_MODEL_PATH", "models/decision.json"))
	if err != nil {
		return fmt.Errorf("error loading decision model: %w", err)
	}
	useWhitelist := envString("ELIGIBILITY_PROGRAM_WHITELIST", "true") != "false"
	evaluator := eligibility.NewEvaluator(screeningModel, decisionModel, screeningModel.Scaler, useWhitelist)

	pool, err := newDatabasePool(ctx, 16)
	if err != nil {
		return fmt.Errorf("error creating db pool: %w", err)
	}
	defer pool.Close()
	appRepo := repository.NewPostgresApplication(pool)

	predictRPS, _ := strconv.ParseFloat(envString("PREDICT_RATE_LIMIT_RPS", "10"), 64)
	predictBurst, _ := strconv.Atoi(envString("PREDICT_RATE_LIMIT_BURST", "20"))

	server, err := serverPkg.NewServer(logger, appRepo, evaluator, predictRPS, predictBurst)
	if err != nil {
		return fmt.Errorf("error creating server")
	}

	srv := server.Server(port)

	// metrics
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(fmt.Sprintf(":%d", metricsPort), mux)
	}()

	go func() {
		_ = srv.ListenAndServe()
	}()
	logger.Info("started server", slog.Int("port", port))
	<-ctx.Done()
	_ = srv.Shutdown(ctx)
	return nil
}
