package domain

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/internal/model"
	"github.com/asolution/raffle/internal/repository"
	"github.com/asolution/raffle/internal/testutil"
	"github.com/asolution/raffle/pkg/errorx"
	"github.com/asolution/raffle/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func Test_entryDomain_Submit(t *testing.T) {
	ctx, _ := newRaffleContext(t0.Add(time.Minute), 1)
	d := newTestDomains(nil)

	resp, err := d.entry.Submit(ctx, &model.SubmitEntryRequest{
		Name:              "Dana",
		ContactIdentifier: "dana@example.com",
		Phone:             "555-0100",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Entry.ID)
	require.Equal(t, "public", resp.Entry.Source)
	require.Equal(t, "555-0100", resp.Entry.Phone)
	require.Equal(t, t0.Add(time.Minute).Format(model.DefaultTimeLayout), resp.Entry.CreatedAt)

	_, err = d.entry.Submit(ctx, &model.SubmitEntryRequest{
		Name:              "Dana again",
		ContactIdentifier: "dana@example.com",
	})
	require.True(t, errorx.Is(err, errorx.AlreadyExists), "got %v", err)

	resp, err = d.entry.Submit(ctx, &model.SubmitEntryRequest{
		Name:              "Visitor",
		ContactIdentifier: "c7f1e2-token",
		Source:            "cookie",
	})
	require.NoError(t, err)
	require.Equal(t, "cookie", resp.Entry.Source)

	require.Equal(t, int64(2), testutil.CountRows(ctx, &entity.Entry{}))
}

func Test_entryDomain_Submit_Invalid(t *testing.T) {
	ctx, _ := newRaffleContext(t0.Add(time.Minute), 1)
	d := newTestDomains(nil)

	tests := []struct {
		name string
		req  *model.SubmitEntryRequest
		code errorx.Code
	}{
		{
			name: "empty name",
			req:  &model.SubmitEntryRequest{Name: "  ", ContactIdentifier: "a@example.com"},
			code: errorx.BadRequest,
		},
		{
			name: "empty identifier",
			req:  &model.SubmitEntryRequest{Name: "A"},
			code: errorx.BadRequest,
		},
		{
			name: "invalid email",
			req:  &model.SubmitEntryRequest{Name: "A", ContactIdentifier: "not-an-email"},
			code: errorx.BadRequest,
		},
		{
			name: "empty cookie token",
			req:  &model.SubmitEntryRequest{Name: "A", Source: "cookie"},
			code: errorx.BadRequest,
		},
		{
			name: "unknown source",
			req:  &model.SubmitEntryRequest{Name: "A", ContactIdentifier: "a@example.com", Source: "telegram"},
			code: errorx.BadRequest,
		},
		{
			name: "admin source",
			req:  &model.SubmitEntryRequest{Name: "A", ContactIdentifier: "a@example.com", Source: "admin"},
			code: errorx.PermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.entry.Submit(ctx, tt.req)
			require.True(t, errorx.Is(err, tt.code), "got %v", err)
		})
	}

	require.Zero(t, testutil.CountRows(ctx, &entity.Entry{}))
}

func Test_entryDomain_Submit_PhaseGate(t *testing.T) {
	ctx, clock := newRaffleContext(t0.Add(-time.Second), 1)
	d := newTestDomains(nil)

	submit := func(identifier string) error {
		_, err := d.entry.Submit(ctx, &model.SubmitEntryRequest{Name: "P", ContactIdentifier: identifier})
		return err
	}

	require.True(t, errorx.Is(submit("p1@example.com"), errorx.PhaseClosed))

	clock.Set(t0)
	require.NoError(t, submit("p1@example.com"))

	clock.Set(t0PlusHour.Add(-time.Nanosecond))
	require.NoError(t, submit("p2@example.com"))

	clock.Set(t0PlusHour)
	require.True(t, errorx.Is(submit("p3@example.com"), errorx.PhaseClosed))

	// Administrators bypass the window.
	_, err := d.entry.Add(ctx, &model.AddEntryRequest{Name: "Late", ContactIdentifier: "late@example.com"})
	require.NoError(t, err)

	// Validation and duplicate checks still apply to administrators.
	_, err = d.entry.Add(ctx, &model.AddEntryRequest{Name: "Late", ContactIdentifier: "late@example.com"})
	require.True(t, errorx.Is(err, errorx.AlreadyExists))
	_, err = d.entry.Add(ctx, &model.AddEntryRequest{Name: "Late", ContactIdentifier: "late"})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_entryDomain_Submit_NotConfigured(t *testing.T) {
	ctx := testutil.NewMockContext()
	d := newTestDomains(nil)

	_, err := d.entry.Submit(ctx, &model.SubmitEntryRequest{Name: "A", ContactIdentifier: "a@example.com"})
	require.True(t, errorx.Is(err, errorx.PhaseClosed))

	_, err = d.entry.Add(ctx, &model.AddEntryRequest{Name: "A", ContactIdentifier: "a@example.com"})
	require.NoError(t, err)
}

func Test_entryDomain_Submit_Sanitize(t *testing.T) {
	ctx, _ := newRaffleContext(t0.Add(time.Minute), 1)
	d := newTestDomains(nil)

	req := httptest.NewRequest("POST", "/submitEntry", nil)
	req.Header.Set("User-Agent", "raffle-test")
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithClientIP(ctx, "203.0.113.7")

	resp, err := d.entry.Submit(ctx, &model.SubmitEntryRequest{
		Name:              "  <b>Eve</b> ",
		ContactIdentifier: " eve@example.com ",
	})
	require.NoError(t, err)
	require.Equal(t, "&lt;b&gt;Eve&lt;/b&gt;", resp.Entry.Name)
	require.Equal(t, "eve@example.com", resp.Entry.ContactIdentifier)

	var stored entity.Entry
	require.NoError(t, xcontext.DB(ctx).Take(&stored, "id=?", resp.Entry.ID).Error)
	require.Equal(t, "203.0.113.7", stored.IPAddress.String)
	require.Equal(t, "raffle-test", stored.UserAgent.String)
	require.False(t, stored.Phone.Valid)
}

// On sqlite the single pooled connection serializes the transactions. The
// same check runs against MySQL in mysql_test.go.
func Test_entryDomain_Submit_ConcurrentDuplicates(t *testing.T) {
	ctx, _ := newRaffleContext(t0.Add(time.Minute), 1)
	checkConcurrentDuplicateSubmits(t, ctx, newTestDomains(nil))
}

// checkConcurrentDuplicateSubmits expects a raffle accepting entries.
func checkConcurrentDuplicateSubmits(t *testing.T, ctx context.Context, d *testDomains) {
	var succeeded, duplicated int32
	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := d.entry.Submit(ctx, &model.SubmitEntryRequest{
				Name:              "Racer",
				ContactIdentifier: "racer@example.com",
			})

			switch {
			case err == nil:
				atomic.AddInt32(&succeeded, 1)
			case errorx.Is(err, errorx.AlreadyExists):
				atomic.AddInt32(&duplicated, 1)
			default:
				return err
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
	require.Equal(t, int32(1), succeeded)
	require.Equal(t, int32(9), duplicated)
	require.Equal(t, int64(1), testutil.CountRows(ctx, &entity.Entry{}, "contact_identifier=?", "racer@example.com"))
}

func Test_entryDomain_GetEntries(t *testing.T) {
	ctx, _ := newRaffleContext(t0.Add(time.Minute), 1, "alice", "bob", "carol")
	d := newTestDomains(nil)

	resp, err := d.entry.GetEntries(ctx, &model.GetEntriesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)
	require.Equal(t, "carol", resp.Entries[0].Name)
	require.Equal(t, "alice", resp.Entries[2].Name)
}

func Test_entryDomain_Delete(t *testing.T) {
	ctx, clock := newRaffleContext(t0.Add(time.Minute), 1, "alice", "bob")
	d := newTestDomains(nil)

	entries, err := d.entry.GetEntries(ctx, &model.GetEntriesRequest{})
	require.NoError(t, err)
	bob := entries.Entries[0]
	require.Equal(t, "bob", bob.Name)

	_, err = d.entry.Delete(ctx, &model.DeleteEntryRequest{})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.entry.Delete(ctx, &model.DeleteEntryRequest{ID: "missing"})
	require.True(t, errorx.Is(err, errorx.NotFound))

	_, err = d.entry.Delete(ctx, &model.DeleteEntryRequest{ID: bob.ID})
	require.NoError(t, err)

	_, err = d.entry.Delete(ctx, &model.DeleteEntryRequest{ID: bob.ID})
	require.True(t, errorx.Is(err, errorx.NotFound))

	// A deleted identifier may enter again.
	_, err = d.entry.Submit(ctx, &model.SubmitEntryRequest{Name: "Bob", ContactIdentifier: bob.ContactIdentifier})
	require.NoError(t, err)

	// Entries referenced by a winner cannot be deleted until winners are cleared.
	clock.Set(t0PlusHour)
	_, err = d.winner.Draw(ctx, &model.DrawWinnersRequest{})
	require.NoError(t, err)

	draft, err := d.winner.GetWinners(ctx, &model.GetWinnersRequest{})
	require.NoError(t, err)
	require.Len(t, draft.Winners, 1)

	_, err = d.entry.Delete(ctx, &model.DeleteEntryRequest{ID: draft.Winners[0].EntryID})
	require.True(t, errorx.Is(err, errorx.Unavailable))
	require.Equal(t, int64(1), testutil.CountRows(ctx, &entity.Winner{}))

	_, err = d.winner.Clear(ctx, &model.ClearWinnersRequest{})
	require.NoError(t, err)
	_, err = d.entry.Delete(ctx, &model.DeleteEntryRequest{ID: draft.Winners[0].EntryID})
	require.NoError(t, err)

	require.Equal(t, int64(1), testutil.CountRows(ctx, &entity.Entry{}))
}

func Test_entryDomain_ClearAll(t *testing.T) {
	ctx, clock := newRaffleContext(t0.Add(time.Minute), 2, "alice", "bob", "carol")
	d := newTestDomains(nil)

	clock.Set(t0PlusHour)
	_, err := d.winner.Draw(ctx, &model.DrawWinnersRequest{})
	require.NoError(t, err)

	_, err = d.entry.ClearAll(ctx, &model.ClearEntriesRequest{})
	require.NoError(t, err)

	require.Zero(t, testutil.CountRows(ctx, &entity.Entry{}))
	require.Zero(t, testutil.CountRows(ctx, &entity.Winner{}))
	require.Equal(t, int64(1), testutil.CountRows(ctx, &entity.RaffleSettings{}))
}

func Test_entryDomain_Import(t *testing.T) {
	// The raffle has ended, bulk entries bypass the window.
	ctx, _ := newRaffleContext(t0PlusHour.Add(time.Hour), 1, "alice")
	d := newTestDomains(nil)

	_, err := d.entry.Import(ctx, &model.ImportEntriesRequest{})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	resp, err := d.entry.Import(ctx, &model.ImportEntriesRequest{
		Entries: []model.ImportEntry{
			{Name: "Frank", ContactIdentifier: "frank@example.com", Phone: "555-0101"},
			{Name: "Alice", ContactIdentifier: "alice@example.com"},
			{Name: "Grace", ContactIdentifier: "grace@example.com"},
			{Name: "Grace twin", ContactIdentifier: "grace@example.com"},
			{Name: "Heidi", ContactIdentifier: "heidi@"},
			{Name: "", ContactIdentifier: "nobody@example.com"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Imported)
	require.Equal(t, 4, resp.Skipped)
	require.Equal(t, []string{
		"Skipped alice@example.com: already exists",
		"Skipped grace@example.com: already exists",
		"Skipped row 5: Invalid email address",
		"Skipped row 6: Name and contact identifier are required",
	}, resp.Errors)

	require.Equal(t, int64(2), testutil.CountRows(ctx, &entity.Entry{}, "source=?", entity.BulkSource))
	require.Equal(t, int64(3), testutil.CountRows(ctx, &entity.Entry{}))
}

type failingEntryRepository struct {
	repository.EntryRepository
	calls  int
	failAt int
}

func (r *failingEntryRepository) Create(ctx context.Context, entry *entity.Entry) error {
	r.calls++
	if r.calls == r.failAt {
		return errors.New("disk full")
	}

	return r.EntryRepository.Create(ctx, entry)
}

func Test_entryDomain_Import_RollbackOnStorageFailure(t *testing.T) {
	ctx, _ := newRaffleContext(t0.Add(time.Minute), 1)
	entryRepo := &failingEntryRepository{EntryRepository: repository.NewEntryRepository(), failAt: 3}
	d := NewEntryDomain(entryRepo, repository.NewSettingsRepository(), repository.NewWinnerRepository(), nil)

	_, err := d.Import(ctx, &model.ImportEntriesRequest{
		Entries: []model.ImportEntry{
			{Name: "A", ContactIdentifier: "a@example.com"},
			{Name: "B", ContactIdentifier: "b@example.com"},
			{Name: "C", ContactIdentifier: "c@example.com"},
		},
	})
	require.True(t, errorx.Is(err, errorx.Unknown.Code), "got %v", err)
	require.Zero(t, testutil.CountRows(ctx, &entity.Entry{}))
}

// racingEntryRepository hides a contact from the lookup, as if a submit
// committed it between the lookup and the insert.
type racingEntryRepository struct {
	repository.EntryRepository
	hidden string
}

func (r *racingEntryRepository) GetByContactIdentifier(
	ctx context.Context, identifier string,
) (*entity.Entry, error) {
	if identifier == r.hidden {
		return nil, gorm.ErrRecordNotFound
	}

	return r.EntryRepository.GetByContactIdentifier(ctx, identifier)
}

func Test_entryDomain_Import_SkipsConcurrentDuplicate(t *testing.T) {
	ctx, _ := newRaffleContext(t0.Add(time.Minute), 1)
	d := newTestDomains(nil)

	_, err := d.entry.Submit(ctx, &model.SubmitEntryRequest{
		Name:              "Racer",
		ContactIdentifier: "race@example.com",
	})
	require.NoError(t, err)

	entryRepo := &racingEntryRepository{
		EntryRepository: repository.NewEntryRepository(),
		hidden:          "race@example.com",
	}
	importer := NewEntryDomain(entryRepo, repository.NewSettingsRepository(), repository.NewWinnerRepository(), nil)

	resp, err := importer.Import(ctx, &model.ImportEntriesRequest{
		Entries: []model.ImportEntry{
			{Name: "A", ContactIdentifier: "a@example.com"},
			{Name: "Racer", ContactIdentifier: "race@example.com"},
			{Name: "B", ContactIdentifier: "b@example.com"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Imported)
	require.Equal(t, 1, resp.Skipped)
	require.Equal(t, []string{"Skipped race@example.com: already exists"}, resp.Errors)
	require.Equal(t, int64(3), testutil.CountRows(ctx, &entity.Entry{}))
}
