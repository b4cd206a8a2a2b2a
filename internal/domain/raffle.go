package domain

import (
	"context"

	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/internal/model"
	"github.com/asolution/raffle/internal/repository"
	"github.com/asolution/raffle/pkg/errorx"
	"github.com/asolution/raffle/pkg/xcontext"
	"github.com/asolution/raffle/pkg/xredis"
)

type RaffleDomain interface {
	Reset(context.Context, *model.ResetRaffleRequest) (*model.ResetRaffleResponse, error)
	ExportEntries(context.Context, *model.ExportEntriesRequest) (*model.ExportResponse, error)
	ExportWinners(context.Context, *model.ExportWinnersRequest) (*model.ExportResponse, error)
}

type raffleDomain struct {
	entryRepo    repository.EntryRepository
	settingsRepo repository.SettingsRepository
	winnerRepo   repository.WinnerRepository
	cache        *resultsCache
}

func NewRaffleDomain(
	entryRepo repository.EntryRepository,
	settingsRepo repository.SettingsRepository,
	winnerRepo repository.WinnerRepository,
	redisClient xredis.Client,
) *raffleDomain {
	return &raffleDomain{
		entryRepo:    entryRepo,
		settingsRepo: settingsRepo,
		winnerRepo:   winnerRepo,
		cache:        newResultsCache(redisClient),
	}
}

// Reset deletes winners, entries and settings together.
func (d *raffleDomain) Reset(
	ctx context.Context, req *model.ResetRaffleRequest,
) (*model.ResetRaffleResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.winnerRepo.DeleteAll(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete winners: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.entryRepo.DeleteAll(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete entries: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.settingsRepo.Delete(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete raffle settings: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit the reset: %v", err)
		return nil, errorx.Unknown
	}

	d.cache.invalidate(ctx)
	xcontext.Logger(ctx).Infof("Raffle was reset by %s", xcontext.Admin(ctx))

	return &model.ResetRaffleResponse{}, nil
}

func (d *raffleDomain) ExportEntries(
	ctx context.Context, req *model.ExportEntriesRequest,
) (*model.ExportResponse, error) {
	entries, err := d.entryRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries: %v", err)
		return nil, errorx.Unknown
	}

	rows := [][]any{}
	for _, e := range entries {
		rows = append(rows, []any{
			e.Name,
			e.ContactIdentifier,
			e.Phone.String,
			string(e.Source),
			e.CreatedAt.Format(model.DefaultTimeLayout),
		})
	}

	data, err := writeWorkbook("Entries",
		[]string{"Name", "Contact", "Phone", "Source", "Created At"}, rows)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write entries workbook: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ExportResponse{Filename: "entries.xlsx", Data: data}, nil
}

func (d *raffleDomain) ExportWinners(
	ctx context.Context, req *model.ExportWinnersRequest,
) (*model.ExportResponse, error) {
	var winners []entity.Winner
	var err error
	if req.PublishedOnly {
		winners, err = d.winnerRepo.GetLatestPublished(ctx)
	} else {
		winners, err = d.winnerRepo.GetAll(ctx)
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winners: %v", err)
		return nil, errorx.Unknown
	}

	rows := [][]any{}
	for _, w := range winners {
		status, publishedAt := "draft", ""
		if w.Published {
			status = "published"
			publishedAt = w.PublishedAt.Time.Format(model.DefaultTimeLayout)
		}

		rows = append(rows, []any{
			w.Rank,
			w.Entry.Name,
			w.Entry.ContactIdentifier,
			w.Entry.Phone.String,
			status,
			w.DrawnAt.Format(model.DefaultTimeLayout),
			publishedAt,
		})
	}

	data, err := writeWorkbook("Winners",
		[]string{"Rank", "Name", "Contact", "Phone", "Status", "Drawn At", "Published At"}, rows)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write winners workbook: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ExportResponse{Filename: "winners.xlsx", Data: data}, nil
}
