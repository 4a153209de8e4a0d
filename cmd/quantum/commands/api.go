package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/quantum-leap/backend/internal/api"
	"github.com/wonny/quantum-leap/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health              - Health check
  GET  /api/stock/{ticker}  - 종목 데이터 (type=quote|candles|news|rsi|macd|bbands|sma|indicators)
  GET  /api/cron/alerts     - 알림 스캔 트리거 (Bearer 인증)
  GET  /api/watchlist       - 앱 상태 조회
  PUT  /api/watchlist       - 앱 상태 저장

Example:
  go run ./cmd/quantum api
  go run ./cmd/quantum api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Quantum Leap API Server ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	log := d.log

	// Handlers
	stockHandler := handlers.NewStockHandler(d.market, d.indicators, d.cache, log)
	cronHandler := handlers.NewCronHandler(d.scanner, d.store, d.cfg.CronSecret, log)
	watchlistHandler := handlers.NewWatchlistHandler(d.store, log)

	router := api.NewRouter(stockHandler, cronHandler, watchlistHandler, log)
	server := api.New(d.cfg, log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/stock/{ticker}?type=quote")
	fmt.Println("  GET  /api/cron/alerts")
	fmt.Println("  GET  /api/watchlist")
	fmt.Println("  PUT  /api/watchlist")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
