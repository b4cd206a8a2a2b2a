package domain

import (
	"context"
	"errors"

	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/internal/model"
	"github.com/asolution/raffle/internal/repository"
	"github.com/asolution/raffle/pkg/errorx"
	"github.com/asolution/raffle/pkg/xcontext"
	"gorm.io/gorm"
)

type SettingsDomain interface {
	GetSettings(context.Context, *model.GetSettingsRequest) (*model.GetSettingsResponse, error)
	SaveSettings(context.Context, *model.SaveSettingsRequest) (*model.SaveSettingsResponse, error)
	GetStatus(context.Context, *model.GetStatusRequest) (*model.GetStatusResponse, error)
}

type settingsDomain struct {
	settingsRepo repository.SettingsRepository
	entryRepo    repository.EntryRepository
	winnerRepo   repository.WinnerRepository
}

func NewSettingsDomain(
	settingsRepo repository.SettingsRepository,
	entryRepo repository.EntryRepository,
	winnerRepo repository.WinnerRepository,
) *settingsDomain {
	return &settingsDomain{
		settingsRepo: settingsRepo,
		entryRepo:    entryRepo,
		winnerRepo:   winnerRepo,
	}
}

func (d *settingsDomain) GetSettings(
	ctx context.Context, req *model.GetSettingsRequest,
) (*model.GetSettingsResponse, error) {
	settings, phase, err := d.current(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		return &model.GetSettingsResponse{}, nil
	}

	result := model.ConvertRaffleSettings(settings, phase)
	return &model.GetSettingsResponse{Settings: &result}, nil
}

// current returns the settings with their live phase, or nil if the raffle was
// never configured. A stale stored status is refreshed on the way.
func (d *settingsDomain) current(ctx context.Context) (*entity.RaffleSettings, entity.RafflePhase, error) {
	settings, err := d.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle settings: %v", err)
		return nil, "", errorx.Unknown
	}

	phase := settings.PhaseAt(xcontext.Now(ctx))
	if phase != settings.Status {
		if err := d.settingsRepo.UpdateStatus(ctx, phase); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot refresh raffle status to %s: %v", phase, err)
		} else {
			settings.Status = phase
		}
	}

	return settings, phase, nil
}

func (d *settingsDomain) SaveSettings(
	ctx context.Context, req *model.SaveSettingsRequest,
) (*model.SaveSettingsResponse, error) {
	title := sanitize(req.Title)
	if title == "" || req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, errorx.New(errorx.BadRequest, "Title, start time, end time and winner count are required")
	}

	if req.WinnerCount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Winner count must be a positive number")
	}

	if !req.EndTime.After(req.StartTime) {
		return nil, errorx.New(errorx.BadRequest, "End time must be after start time")
	}

	now := xcontext.Now(ctx)
	settings := &entity.RaffleSettings{
		Base: entity.Base{
			ID:        entity.CurrentSettingsID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       title,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		WinnerCount: req.WinnerCount,
		Status:      entity.PhaseAt(now, req.StartTime, req.EndTime),
	}

	if err := d.settingsRepo.Upsert(ctx, settings); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save raffle settings: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SaveSettingsResponse{
		Settings: model.ConvertRaffleSettings(settings, settings.Status),
	}, nil
}

// GetStatus returns the displayed phase. Published results take precedence
// over a pending draft, which takes precedence over the time phase.
func (d *settingsDomain) GetStatus(
	ctx context.Context, req *model.GetStatusRequest,
) (*model.GetStatusResponse, error) {
	settings, phase, err := d.current(ctx)
	if err != nil {
		return nil, err
	}

	totalEntries, err := d.entryRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count entries: %v", err)
		return nil, errorx.Unknown
	}

	draft, err := d.winnerRepo.Count(ctx, false)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count draft winners: %v", err)
		return nil, errorx.Unknown
	}

	published, err := d.winnerRepo.Count(ctx, true)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count published winners: %v", err)
		return nil, errorx.Unknown
	}

	switch {
	case published > 0:
		phase = entity.Published
	case draft > 0:
		phase = entity.Drawn
	}

	return &model.GetStatusResponse{
		Configured:     settings != nil,
		Phase:          string(phase),
		TotalEntries:   totalEntries,
		DraftWinners:   draft,
		PublishedCount: published,
	}, nil
}
