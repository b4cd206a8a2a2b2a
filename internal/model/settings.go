package model

import "time"

type GetSettingsRequest struct{}

type GetSettingsResponse struct {
	// Settings is nil when the raffle has never been configured.
	Settings *RaffleSettings `json:"settings"`
}

type SaveSettingsRequest struct {
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	WinnerCount int       `json:"winner_count"`
}

type SaveSettingsResponse struct {
	Settings RaffleSettings `json:"settings"`
}

type GetStatusRequest struct{}

type GetStatusResponse struct {
	Configured     bool   `json:"configured"`
	Phase          string `json:"phase"`
	TotalEntries   int64  `json:"total_entries"`
	DraftWinners   int64  `json:"draft_winners"`
	PublishedCount int64  `json:"published_winners"`
}
