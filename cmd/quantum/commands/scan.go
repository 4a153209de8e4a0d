package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "알림 스캔 1회 실행",
	Long: `워치리스트 전 종목을 한 번 스캔합니다.

긴급 뉴스는 개별 알림으로, 매매 신호는 요약 리포트 한 건으로
텔레그램에 전송됩니다.

Example:
  go run ./cmd/quantum scan
  go run ./cmd/quantum scan --tickers AISP,POET`,
	RunE: runScan,
}

var scanTickers []string

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVar(&scanTickers, "tickers", nil, "스캔할 티커 (기본: 저장된 워치리스트)")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Quantum Leap Alert Scan ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tickers := make([]string, 0, len(scanTickers))
	for _, t := range scanTickers {
		tickers = append(tickers, contracts.NormalizeTicker(t))
	}

	if len(tickers) == 0 {
		state, err := d.store.Load(ctx)
		if err != nil {
			return fmt.Errorf("load watchlist: %w", err)
		}
		tickers = state.ActiveTickers()
	}
	if len(tickers) == 0 {
		// 빈 워치리스트면 환경변수 시드로
		tickers = d.cfg.Watch.Tickers
	}

	d.log.WithField("tickers", tickers).Info("Starting scan")

	result := d.scanner.Run(ctx, tickers)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if len(result.Errors) > 0 {
		fmt.Printf("\n⚠️  %d개 종목 처리 실패\n", len(result.Errors))
	}
	return nil
}
