package commands

import (
	"context"
	"fmt"

	"github.com/wonny/quantum-leap/backend/internal/alert"
	"github.com/wonny/quantum-leap/backend/internal/external/alphavantage"
	"github.com/wonny/quantum-leap/backend/internal/external/finnhub"
	"github.com/wonny/quantum-leap/backend/internal/external/telegram"
	"github.com/wonny/quantum-leap/backend/internal/market"
	"github.com/wonny/quantum-leap/backend/internal/scan"
	"github.com/wonny/quantum-leap/backend/internal/watchlist"
	"github.com/wonny/quantum-leap/backend/pkg/cache"
	"github.com/wonny/quantum-leap/backend/pkg/config"
	"github.com/wonny/quantum-leap/backend/pkg/database"
	"github.com/wonny/quantum-leap/backend/pkg/httputil"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
	"github.com/wonny/quantum-leap/backend/pkg/ratelimit"
	"github.com/wonny/quantum-leap/backend/pkg/redis"
)

// deps holds everything the commands wire together
type deps struct {
	cfg    *config.Config
	log    *logger.Logger
	cache  cache.Store
	store  watchlist.Store
	market *market.Service

	// 지표 직접 조회 (필드별 API 경로)
	indicators market.IndicatorProvider

	scanner *scan.Scanner

	closers []func()
}

// close releases connections in reverse acquisition order
func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// buildDeps loads config and wires the full service graph
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	d := &deps{cfg: cfg, log: log}

	// 캐시: 기본은 프로세스 메모리, 멀티 인스턴스면 Redis
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		d.closers = append(d.closers, func() { redisClient.Close() })
		d.cache = redis.NewCache(redisClient, "quantum")
		log.Info("Connected to Redis cache")
	} else {
		d.cache = cache.NewMemory()
	}

	// 워치리스트 저장소: DATABASE_URL 있으면 Postgres, 없으면 메모리
	if cfg.Database.Enabled() {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		d.closers = append(d.closers, db.Close)

		repo := watchlist.NewRepository(db.Pool)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			d.close()
			return nil, err
		}
		d.store = repo
		log.Info("Connected to database")
	} else {
		d.store = watchlist.NewMemoryStore()
	}

	// 프로바이더: 데모 모드면 합성 데이터, 아니면 실 API
	synthetic := market.NewSynthetic()
	if cfg.Watch.UseSynthetic {
		log.Info("Using synthetic market data")
		d.market = market.NewService(synthetic, synthetic, d.cache, log)
		d.indicators = synthetic
	} else {
		finnhubClient := finnhub.NewClient(
			httputil.New(log).WithGate(ratelimit.NewGate("finnhub", ratelimit.FinnhubInterval)),
			log, cfg.Finnhub.BaseURL, cfg.Finnhub.APIKey)
		avClient := alphavantage.NewClient(
			httputil.New(log).WithGate(ratelimit.NewGate("alphavantage", ratelimit.AlphaVantageInterval)),
			log, cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.APIKey)

		d.market = market.NewService(finnhubClient, avClient, d.cache, log)
		d.indicators = avClient
	}

	// 알림 채널
	telegramClient := telegram.NewClient(log, cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if !telegramClient.Configured() {
		log.Warn("Telegram not configured, alerts will be dropped")
	}
	dispatcher := alert.NewDispatcher(telegramClient, log)

	// 스캔 신호 지표는 시드 테이블에서 — AV 일일 쿼터를 대시보드 몫으로
	// 남겨둔다
	d.scanner = scan.NewScanner(d.market, synthetic, dispatcher, log)

	return d, nil
}
