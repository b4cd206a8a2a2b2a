package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/asolution/raffle/internal/common"
	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/internal/model"
	"github.com/asolution/raffle/internal/repository"
	"github.com/asolution/raffle/pkg/enum"
	"github.com/asolution/raffle/pkg/errorx"
	"github.com/asolution/raffle/pkg/xcontext"
	"github.com/asolution/raffle/pkg/xredis"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntryDomain interface {
	GetEntries(context.Context, *model.GetEntriesRequest) (*model.GetEntriesResponse, error)
	Submit(context.Context, *model.SubmitEntryRequest) (*model.SubmitEntryResponse, error)
	Add(context.Context, *model.AddEntryRequest) (*model.AddEntryResponse, error)
	Delete(context.Context, *model.DeleteEntryRequest) (*model.DeleteEntryResponse, error)
	ClearAll(context.Context, *model.ClearEntriesRequest) (*model.ClearEntriesResponse, error)
	Import(context.Context, *model.ImportEntriesRequest) (*model.ImportEntriesResponse, error)
}

type entryDomain struct {
	entryRepo    repository.EntryRepository
	settingsRepo repository.SettingsRepository
	winnerRepo   repository.WinnerRepository
	cache        *resultsCache
}

func NewEntryDomain(
	entryRepo repository.EntryRepository,
	settingsRepo repository.SettingsRepository,
	winnerRepo repository.WinnerRepository,
	redisClient xredis.Client,
) *entryDomain {
	return &entryDomain{
		entryRepo:    entryRepo,
		settingsRepo: settingsRepo,
		winnerRepo:   winnerRepo,
		cache:        newResultsCache(redisClient),
	}
}

type entryInput struct {
	name       string
	identifier string
	phone      string
	source     entity.EntrySource
}

func (d *entryDomain) GetEntries(
	ctx context.Context, req *model.GetEntriesRequest,
) (*model.GetEntriesResponse, error) {
	entries, err := d.entryRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetEntriesResponse{Entries: model.ConvertEntries(entries)}, nil
}

func (d *entryDomain) Submit(
	ctx context.Context, req *model.SubmitEntryRequest,
) (*model.SubmitEntryResponse, error) {
	source := entity.PublicSource
	if req.Source != "" {
		var err error
		source, err = enum.ToEnum[entity.EntrySource](req.Source)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid source: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid source")
		}
	}

	if !source.Gated() {
		return nil, errorx.New(errorx.PermissionDenied, "Only administrators can add %s entries", source)
	}

	entry, err := d.submit(ctx, entryInput{
		name:       req.Name,
		identifier: req.ContactIdentifier,
		phone:      req.Phone,
		source:     source,
	})
	if err != nil {
		return nil, err
	}

	return &model.SubmitEntryResponse{Entry: model.ConvertEntry(entry)}, nil
}

func (d *entryDomain) Add(
	ctx context.Context, req *model.AddEntryRequest,
) (*model.AddEntryResponse, error) {
	entry, err := d.submit(ctx, entryInput{
		name:       req.Name,
		identifier: req.ContactIdentifier,
		phone:      req.Phone,
		source:     entity.AdminSource,
	})
	if err != nil {
		return nil, err
	}

	return &model.AddEntryResponse{Entry: model.ConvertEntry(entry)}, nil
}

func (d *entryDomain) submit(ctx context.Context, input entryInput) (*entity.Entry, error) {
	entry, err := newEntry(ctx, input)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	_, err = d.entryRepo.GetByContactIdentifier(ctx, entry.ContactIdentifier)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This contact has already been entered in the raffle")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get entry by contact identifier: %v", err)
		return nil, errorx.Unknown
	}

	if input.source.Gated() {
		if err := d.checkAcceptingEntries(ctx); err != nil {
			return nil, err
		}
	}

	if err := d.entryRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "This contact has already been entered in the raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot create entry: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "This contact has already been entered in the raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot commit entry: %v", err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.RaffleEntryTotal].WithLabelValues(string(input.source)).Inc()
	return entry, nil
}

func (d *entryDomain) checkAcceptingEntries(ctx context.Context) error {
	settings, err := d.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.PhaseClosed, "Raffle is not currently accepting entries")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle settings: %v", err)
		return errorx.Unknown
	}

	if settings.PhaseAt(xcontext.Now(ctx)) != entity.Active {
		return errorx.New(errorx.PhaseClosed, "Raffle is not currently accepting entries")
	}

	return nil
}

// newEntry sanitizes and validates the input. It does not touch the database.
func newEntry(ctx context.Context, input entryInput) (*entity.Entry, error) {
	name := sanitize(input.name)
	identifier := sanitize(input.identifier)
	phone := sanitize(input.phone)

	if name == "" || identifier == "" {
		return nil, errorx.New(errorx.BadRequest, "Name and contact identifier are required")
	}

	if input.source.RequiresEmail() && !isEmail(identifier) {
		return nil, errorx.New(errorx.BadRequest, "Invalid email address")
	}

	entry := &entity.Entry{
		Base: entity.Base{
			ID:        uuid.NewString(),
			CreatedAt: xcontext.Now(ctx),
			UpdatedAt: xcontext.Now(ctx),
		},
		Name:              name,
		ContactIdentifier: identifier,
		Phone:             sql.NullString{String: phone, Valid: phone != ""},
		Source:            input.source,
	}

	if input.source.Gated() {
		ip := xcontext.ClientIP(ctx)
		entry.IPAddress = sql.NullString{String: ip, Valid: ip != ""}
		if req := xcontext.HTTPRequest(ctx); req != nil {
			ua := req.UserAgent()
			entry.UserAgent = sql.NullString{String: ua, Valid: ua != ""}
		}
	}

	return entry, nil
}

func (d *entryDomain) Delete(
	ctx context.Context, req *model.DeleteEntryRequest,
) (*model.DeleteEntryResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Entry ID is required")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	referenced, err := d.winnerRepo.ExistsByEntryID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check winners of entry: %v", err)
		return nil, errorx.Unknown
	}

	if referenced {
		return nil, errorx.New(errorx.Unavailable,
			"Entry is referenced by a drawn winner, clear winners first")
	}

	if err := d.entryRepo.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Entry not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete entry: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit entry deletion: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteEntryResponse{}, nil
}

// ClearAll removes every entry. Winner rows reference entries, so they are
// removed in the same transaction.
func (d *entryDomain) ClearAll(
	ctx context.Context, req *model.ClearEntriesRequest,
) (*model.ClearEntriesResponse, error) {
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

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit clearing entries: %v", err)
		return nil, errorx.Unknown
	}

	d.cache.invalidate(ctx)
	return &model.ClearEntriesResponse{}, nil
}

// Import stores every valid row as a bulk entry in one transaction. Invalid
// and duplicate rows are skipped and reported. Any storage failure rolls back
// the whole batch.
func (d *entryDomain) Import(
	ctx context.Context, req *model.ImportEntriesRequest,
) (*model.ImportEntriesResponse, error) {
	if len(req.Entries) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Entries array is required")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	resp := &model.ImportEntriesResponse{Errors: []string{}}
	skip := func(format string, args ...any) {
		resp.Skipped++
		resp.Errors = append(resp.Errors, fmt.Sprintf(format, args...))
	}

	seen := map[string]bool{}
	for i, row := range req.Entries {
		entry, err := newEntry(ctx, entryInput{
			name:       row.Name,
			identifier: row.ContactIdentifier,
			phone:      row.Phone,
			source:     entity.BulkSource,
		})
		if err != nil {
			var errx errorx.Error
			if !errors.As(err, &errx) {
				return nil, err
			}

			skip("Skipped row %d: %s", i+1, errx.Message)
			continue
		}

		if seen[entry.ContactIdentifier] {
			skip("Skipped %s: already exists", entry.ContactIdentifier)
			continue
		}

		_, err = d.entryRepo.GetByContactIdentifier(ctx, entry.ContactIdentifier)
		if err == nil {
			skip("Skipped %s: already exists", entry.ContactIdentifier)
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get entry by contact identifier: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.entryRepo.Create(ctx, entry); err != nil {
			// A submit committed the same contact after the lookup above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				skip("Skipped %s: already exists", entry.ContactIdentifier)
				continue
			}

			xcontext.Logger(ctx).Errorf("Cannot import entry: %v", err)
			return nil, errorx.Unknown
		}

		seen[entry.ContactIdentifier] = true
		resp.Imported++
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit imported entries: %v", err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.RaffleEntryTotal].WithLabelValues(string(entity.BulkSource)).Add(float64(resp.Imported))
	xcontext.Logger(ctx).Infof("Imported %d entries, skipped %d", resp.Imported, resp.Skipped)
	return resp, nil
}
