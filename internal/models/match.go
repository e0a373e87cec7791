package models

import "strings"

// NoResult is the result value recorded for abandoned matches.
const NoResult = "no result"

// MatchRecord is one row of the historical matches table.
type MatchRecord struct {
	ID     string `json:"id" validate:"required"`
	Season string `json:"season"`
	City   string `json:"city"`
	Team1  string `json:"team1" validate:"required"`
	Team2  string `json:"team2" validate:"required"`
	Winner string `json:"winner"`
	Result string `json:"result"`
}

// HasWinner reports whether the match finished with a recorded winner.
func (m *MatchRecord) HasWinner() bool {
	return m.Winner != "" && !strings.EqualFold(strings.TrimSpace(m.Result), NoResult)
}

// DeliveryRecord is one ball of the historical deliveries table.
type DeliveryRecord struct {
	MatchID         string `json:"match_id" validate:"required"`
	Inning          int    `json:"inning" validate:"gte=1"`
	Over            int    `json:"over" validate:"gte=0"`
	Ball            int    `json:"ball" validate:"gte=0"`
	BattingTeam     string `json:"batting_team"`
	BowlingTeam     string `json:"bowling_team"`
	TotalRuns       int    `json:"total_runs" validate:"gte=0"`
	PlayerDismissed string `json:"player_dismissed"`
}

// IsWicket reports whether a batter was dismissed on this delivery.
func (d *DeliveryRecord) IsWicket() bool {
	return strings.TrimSpace(d.PlayerDismissed) != ""
}
