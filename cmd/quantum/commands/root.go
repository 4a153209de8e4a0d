package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quantum",
	Short: "Quantum Leap - 워치리스트 모니터링 백엔드",
	Long: `Quantum Leap Backend CLI

워치리스트 종목의 가격/지표/뉴스를 모아 매매 신호와 긴급 뉴스
알림을 텔레그램으로 보내는 모니터링 백엔드.

Usage:
  go run ./cmd/quantum [command]

Examples:
  go run ./cmd/quantum api
  go run ./cmd/quantum scan
  go run ./cmd/quantum scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
