package domain

import (
	"context"
	"errors"

	"github.com/asolution/raffle/internal/common"
	"github.com/asolution/raffle/internal/domain/draw"
	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/internal/model"
	"github.com/asolution/raffle/internal/repository"
	"github.com/asolution/raffle/pkg/crypto"
	"github.com/asolution/raffle/pkg/errorx"
	"github.com/asolution/raffle/pkg/idutil"
	"github.com/asolution/raffle/pkg/xcontext"
	"github.com/asolution/raffle/pkg/xredis"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WinnerDomain interface {
	GetWinners(context.Context, *model.GetWinnersRequest) (*model.GetWinnersResponse, error)
	Draw(context.Context, *model.DrawWinnersRequest) (*model.DrawWinnersResponse, error)
	Publish(context.Context, *model.PublishWinnersRequest) (*model.PublishWinnersResponse, error)
	Clear(context.Context, *model.ClearWinnersRequest) (*model.ClearWinnersResponse, error)
}

type winnerDomain struct {
	winnerRepo   repository.WinnerRepository
	entryRepo    repository.EntryRepository
	settingsRepo repository.SettingsRepository
	idGenerator  idutil.Generator
	cache        *resultsCache

	// randIntn must return a uniform value in [0, n).
	randIntn func(n int) int
}

func NewWinnerDomain(
	winnerRepo repository.WinnerRepository,
	entryRepo repository.EntryRepository,
	settingsRepo repository.SettingsRepository,
	idGenerator idutil.Generator,
	redisClient xredis.Client,
) *winnerDomain {
	return &winnerDomain{
		winnerRepo:   winnerRepo,
		entryRepo:    entryRepo,
		settingsRepo: settingsRepo,
		idGenerator:  idGenerator,
		cache:        newResultsCache(redisClient),
		randIntn:     crypto.RandIntn,
	}
}

func (d *winnerDomain) GetWinners(
	ctx context.Context, req *model.GetWinnersRequest,
) (*model.GetWinnersResponse, error) {
	if !req.PublishedOnly {
		if xcontext.Admin(ctx) == "" {
			return nil, errorx.New(errorx.PermissionDenied, "Only administrators can see unpublished winners")
		}

		winners, err := d.winnerRepo.GetAll(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get winners: %v", err)
			return nil, errorx.Unknown
		}

		return d.winnersResponse(ctx, winners)
	}

	if resp, ok := d.cache.get(ctx); ok {
		return resp, nil
	}

	winners, err := d.winnerRepo.GetLatestPublished(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get published winners: %v", err)
		return nil, errorx.Unknown
	}

	resp, err := d.winnersResponse(ctx, winners)
	if err != nil {
		return nil, err
	}

	if len(winners) > 0 {
		d.cache.set(ctx, resp)
	}

	return resp, nil
}

func (d *winnerDomain) winnersResponse(
	ctx context.Context, winners []entity.Winner,
) (*model.GetWinnersResponse, error) {
	resp := &model.GetWinnersResponse{Winners: model.ConvertWinners(winners)}
	if len(winners) == 0 {
		return resp, nil
	}

	totalEntries, err := d.entryRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count entries: %v", err)
		return nil, errorx.Unknown
	}

	resp.DrawInfo = &model.DrawInfo{
		TotalEntries: totalEntries,
		WinnerCount:  len(winners),
		DrawnAt:      winners[0].DrawnAt.Format(model.DefaultTimeLayout),
	}

	return resp, nil
}

// Draw replaces the draft batch with a new one. Published batches are kept.
func (d *winnerDomain) Draw(
	ctx context.Context, req *model.DrawWinnersRequest,
) (*model.DrawWinnersResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	settings, err := d.settingsRepo.GetForUpdate(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, d.drawFailed(errorx.New(errorx.ConfigMissing, "Raffle settings not found"))
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle settings: %v", err)
		return nil, d.drawFailed(errorx.Unknown)
	}

	now := xcontext.Now(ctx)
	if settings.PhaseAt(now) != entity.Ended {
		return nil, d.drawFailed(errorx.New(errorx.NotEnded, "Raffle has not ended yet"))
	}

	entryIDs, err := d.entryRepo.GetIDs(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entry ids: %v", err)
		return nil, d.drawFailed(errorx.Unknown)
	}

	if len(entryIDs) < settings.WinnerCount {
		return nil, d.drawFailed(errorx.New(errorx.InsufficientEntries,
			"Not enough entries to select %d winners", settings.WinnerCount))
	}

	if err := d.winnerRepo.DeleteUnpublished(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot discard the draft winners: %v", err)
		return nil, d.drawFailed(errorx.Unknown)
	}

	drawID := d.idGenerator.Generate()
	winners := []entity.Winner{}
	for i, entryID := range draw.Pick(entryIDs, settings.WinnerCount, d.randIntn) {
		winners = append(winners, entity.Winner{
			Base:      entity.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
			DrawID:    drawID,
			EntryID:   entryID,
			Rank:      i + 1,
			Published: false,
			DrawnAt:   now,
		})
	}

	if err := d.winnerRepo.CreateBatch(ctx, winners); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create winners: %v", err)
		return nil, d.drawFailed(errorx.Unknown)
	}

	draft, err := d.winnerRepo.GetDraft(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the draft winners: %v", err)
		return nil, d.drawFailed(errorx.Unknown)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit the draw: %v", err)
		return nil, d.drawFailed(errorx.Unknown)
	}

	common.PromCounters[common.RaffleDrawTotal].WithLabelValues("success").Inc()
	xcontext.Logger(ctx).Infof("Drew %d winners out of %d entries in batch %d",
		len(draft), len(entryIDs), drawID)

	return &model.DrawWinnersResponse{Winners: model.ConvertWinners(draft)}, nil
}

func (d *winnerDomain) drawFailed(err error) error {
	common.PromCounters[common.RaffleDrawTotal].WithLabelValues("failure").Inc()
	return err
}

// Publish makes the whole draft batch public at once.
func (d *winnerDomain) Publish(
	ctx context.Context, req *model.PublishWinnersRequest,
) (*model.PublishWinnersResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// A draft cannot exist without settings, so a missing row only skips the
	// lock.
	_, err := d.settingsRepo.GetForUpdate(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot lock raffle settings: %v", err)
		return nil, errorx.Unknown
	}

	n, err := d.winnerRepo.Publish(ctx, xcontext.Now(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish winners: %v", err)
		return nil, errorx.Unknown
	}

	if n == 0 {
		common.PromCounters[common.RafflePublishTotal].WithLabelValues("no_draft").Inc()
		return nil, errorx.New(errorx.NoDraft, "No unpublished winners found")
	}

	winners, err := d.winnerRepo.GetLatestPublished(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get published winners: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit the publication: %v", err)
		return nil, errorx.Unknown
	}

	d.cache.invalidate(ctx)
	common.PromCounters[common.RafflePublishTotal].WithLabelValues("success").Inc()
	xcontext.Logger(ctx).Infof("Published %d winners", n)

	return &model.PublishWinnersResponse{Winners: model.ConvertWinners(winners)}, nil
}

func (d *winnerDomain) Clear(
	ctx context.Context, req *model.ClearWinnersRequest,
) (*model.ClearWinnersResponse, error) {
	if err := d.winnerRepo.DeleteAll(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear winners: %v", err)
		return nil, errorx.Unknown
	}

	d.cache.invalidate(ctx)
	return &model.ClearWinnersResponse{}, nil
}
