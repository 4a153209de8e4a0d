package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/quantum-leap/backend/internal/scheduler"
	"github.com/wonny/quantum-leap/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 시작 (매시 정각 알림 스캔)",
	Long: `자체 호스팅 스케줄러를 시작합니다.

외부 크론이 /api/cron/alerts를 호출하는 대신, 프로세스 내부에서
매시 정각에 알림 스캔을 실행합니다.

Example:
  go run ./cmd/quantum scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Quantum Leap Scheduler ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	sched := scheduler.New(d.log)

	if err := sched.AddJob(jobs.NewAlertScanJob(d.scanner, d.store, d.log)); err != nil {
		return fmt.Errorf("add alert scan job: %w", err)
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler running (alert_scan: 매시 정각)")
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
