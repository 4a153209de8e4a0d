package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/quantum-leap/backend/internal/scan"
	"github.com/wonny/quantum-leap/backend/internal/watchlist"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

// Runner executes one scan cycle
type Runner interface {
	Run(ctx context.Context, tickers []string) scan.Result
}

// CronHandler triggers alert scans from an external cron caller
// ⭐ SSOT: 크론 인증과 스캔 트리거는 이 핸들러에서만
type CronHandler struct {
	scanner Runner
	store   watchlist.Store
	secret  string
	logger  *logger.Logger
}

// NewCronHandler creates a new cron handler
func NewCronHandler(scanner Runner, store watchlist.Store, secret string, log *logger.Logger) *CronHandler {
	return &CronHandler{
		scanner: scanner,
		store:   store,
		secret:  secret,
		logger:  log,
	}
}

// cronResponse mirrors the scan result plus run metadata
type cronResponse struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	scan.Result
}

// Alerts runs one scan cycle
// GET /api/cron/alerts
func (h *CronHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	// 시크릿 미설정 시 인증 생략 (로컬 개발)
	if h.secret != "" && r.Header.Get("Authorization") != "Bearer "+h.secret {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx := r.Context()

	state, err := h.store.Load(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Watchlist load failed")
		respondError(w, http.StatusInternalServerError, "cron failed")
		return
	}

	result := h.scanner.Run(ctx, state.ActiveTickers())

	respondJSON(w, http.StatusOK, cronResponse{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Result:    result,
	})
}
