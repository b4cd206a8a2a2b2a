package model

import (
	"strconv"
	"time"

	"github.com/asolution/raffle/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertEntry(entry *entity.Entry) Entry {
	if entry == nil {
		return Entry{}
	}

	return Entry{
		ID:                entry.ID,
		Name:              entry.Name,
		ContactIdentifier: entry.ContactIdentifier,
		Phone:             entry.Phone.String,
		Source:            string(entry.Source),
		CreatedAt:         entry.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertEntries(entries []entity.Entry) []Entry {
	result := []Entry{}
	for i := range entries {
		result = append(result, ConvertEntry(&entries[i]))
	}

	return result
}

// ConvertRaffleSettings renders settings with the given live status instead of
// the stored one.
func ConvertRaffleSettings(settings *entity.RaffleSettings, status entity.RafflePhase) RaffleSettings {
	if settings == nil {
		return RaffleSettings{}
	}

	return RaffleSettings{
		Title:       settings.Title,
		StartTime:   settings.StartTime.Format(DefaultTimeLayout),
		EndTime:     settings.EndTime.Format(DefaultTimeLayout),
		WinnerCount: settings.WinnerCount,
		Status:      string(status),
		UpdatedAt:   settings.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertWinner(winner *entity.Winner) Winner {
	if winner == nil {
		return Winner{}
	}

	publishedAt := ""
	if winner.PublishedAt.Valid {
		publishedAt = winner.PublishedAt.Time.Format(DefaultTimeLayout)
	}

	return Winner{
		ID:                winner.ID,
		DrawID:            strconv.FormatInt(winner.DrawID, 10),
		EntryID:           winner.EntryID,
		Name:              winner.Entry.Name,
		ContactIdentifier: winner.Entry.ContactIdentifier,
		Phone:             winner.Entry.Phone.String,
		Rank:              winner.Rank,
		Published:         winner.Published,
		DrawnAt:           winner.DrawnAt.Format(DefaultTimeLayout),
		PublishedAt:       publishedAt,
	}
}

func ConvertWinners(winners []entity.Winner) []Winner {
	result := []Winner{}
	for i := range winners {
		result = append(result, ConvertWinner(&winners[i]))
	}

	return result
}
