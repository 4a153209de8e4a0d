package watchlist

import (
	"github.com/wonny/quantum-leap/backend/internal/contracts"
)

// 워치리스트 앱 상태 — 프런트엔드가 통째로 읽고 쓰는 블롭.
// 서버는 탭 티커 목록만 해석하고 나머지는 불투명하게 보존한다.

// Tab is one watchlist group
type Tab struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Order   int      `json:"order"`
	Tickers []string `json:"tickers"`
}

// TeamNote is one analyst annotation on a ticker
type TeamNote struct {
	Analyst   string `json:"analyst"`
	Emoji     string `json:"emoji"`
	Role      string `json:"role"`
	Note      string `json:"note"`
	UpdatedAt string `json:"updatedAt"`
}

// AppState is the full persisted application state
type AppState struct {
	Tabs           []Tab                 `json:"tabs"`
	ActiveTabID    string                `json:"activeTabId"`
	SelectedTicker *string               `json:"selectedTicker"`
	TeamNotes      map[string][]TeamNote `json:"teamNotes"`
}

// DefaultState returns the seed state: three tabs over the seven demo
// tickers, first tab active, no notes.
func DefaultState() *AppState {
	return &AppState{
		Tabs: []Tab{
			{ID: "ai-megatrend", Name: "🔥 AI 메가트렌드", Order: 0, Tickers: []string{"AISP", "AXTI", "BBAI", "GRRR"}},
			{ID: "semiconductor", Name: "🔩 반도체 공급망", Order: 1, Tickers: []string{"AXTI", "POET", "VECO", "ATOM"}},
			{ID: "my-watchlist", Name: "⭐ 내 관심", Order: 2, Tickers: []string{}},
		},
		ActiveTabID:    "ai-megatrend",
		SelectedTicker: nil,
		TeamNotes:      map[string][]TeamNote{},
	}
}

// Valid is the minimal shape check applied on load — states without at
// least one tab revert to the default.
func (s *AppState) Valid() bool {
	return s != nil && len(s.Tabs) > 0
}

// ActiveTickers returns the deduplicated union of every tab's tickers,
// normalized, in tab order. This is the scan universe.
func (s *AppState) ActiveTickers() []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, tab := range s.Tabs {
		for _, raw := range tab.Tickers {
			ticker := contracts.NormalizeTicker(raw)
			if ticker == "" || seen[ticker] {
				continue
			}
			seen[ticker] = true
			tickers = append(tickers, ticker)
		}
	}
	return tickers
}
