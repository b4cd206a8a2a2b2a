package entity

import (
	"time"

	"github.com/asolution/raffle/pkg/enum"
)

type RafflePhase string

var (
	NotStarted = enum.New(RafflePhase("not_started"))
	Active     = enum.New(RafflePhase("active"))
	Ended      = enum.New(RafflePhase("ended"))

	// Display-only phases, derived from the winner ledger and never stored.
	Drawn     = enum.New(RafflePhase("drawn"))
	Published = enum.New(RafflePhase("published"))
)

// CurrentSettingsID is the primary key of the only settings row.
const CurrentSettingsID = "current"

type RaffleSettings struct {
	Base

	Title       string    `gorm:"size:255;not null"`
	StartTime   time.Time `gorm:"not null"`
	EndTime     time.Time `gorm:"not null"`
	WinnerCount int       `gorm:"not null"`

	// Status is refreshed whenever the settings are read. Callers must derive
	// the phase from PhaseAt rather than trusting this column.
	Status RafflePhase `gorm:"size:16;not null"`
}

// PhaseAt returns the time phase of a raffle window [start, end) at now.
func PhaseAt(now, start, end time.Time) RafflePhase {
	switch {
	case now.Before(start):
		return NotStarted
	case now.Before(end):
		return Active
	default:
		return Ended
	}
}

func (s *RaffleSettings) PhaseAt(now time.Time) RafflePhase {
	return PhaseAt(now, s.StartTime, s.EndTime)
}
