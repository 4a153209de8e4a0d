package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/quantum-leap/backend/internal/scan"
	"github.com/wonny/quantum-leap/backend/internal/watchlist"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

// AlertScanJob runs the watchlist alert scan every hour. This is the
// self-hosted replacement for an external cron hitting /api/cron/alerts.
// ⭐ SSOT: 알림 스캔 스케줄은 이 Job에서만
type AlertScanJob struct {
	scanner *scan.Scanner
	store   watchlist.Store
	logger  *logger.Logger
}

// NewAlertScanJob creates a new alert scan job
func NewAlertScanJob(scanner *scan.Scanner, store watchlist.Store, log *logger.Logger) *AlertScanJob {
	return &AlertScanJob{
		scanner: scanner,
		store:   store,
		logger:  log,
	}
}

// Name returns the job name
func (j *AlertScanJob) Name() string {
	return "alert_scan"
}

// Schedule returns the cron schedule (every hour on the hour)
func (j *AlertScanJob) Schedule() string {
	return "0 0 * * * *"
}

// Run executes one scan cycle over the current watchlist
func (j *AlertScanJob) Run(ctx context.Context) error {
	state, err := j.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	tickers := state.ActiveTickers()
	if len(tickers) == 0 {
		j.logger.Info("Watchlist empty, nothing to scan")
		return nil
	}

	result := j.scanner.Run(ctx, tickers)

	// 개별 종목 실패는 Result에 기록되고 끝 — 전 종목 실패만 재시도 대상
	if result.CheckedTickers > 0 && len(result.Errors) >= result.CheckedTickers {
		return fmt.Errorf("scan failed for all %d tickers", result.CheckedTickers)
	}
	return nil
}
