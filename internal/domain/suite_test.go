package domain

import (
	"context"
	"time"

	"github.com/asolution/raffle/internal/repository"
	"github.com/asolution/raffle/internal/testutil"
	"github.com/asolution/raffle/pkg/idutil"
	"github.com/asolution/raffle/pkg/xcontext"
	"github.com/asolution/raffle/pkg/xredis"
)

var (
	t0         = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	t0PlusHour = t0.Add(time.Hour)
)

type testDomains struct {
	entry    *entryDomain
	settings *settingsDomain
	winner   *winnerDomain
	raffle   *raffleDomain
}

func newTestDomains(redisClient xredis.Client) *testDomains {
	entryRepo := repository.NewEntryRepository()
	settingsRepo := repository.NewSettingsRepository()
	winnerRepo := repository.NewWinnerRepository()

	idGenerator, err := idutil.NewSnowflakeGenerator(1)
	if err != nil {
		panic(err)
	}

	return &testDomains{
		entry:    NewEntryDomain(entryRepo, settingsRepo, winnerRepo, redisClient),
		settings: NewSettingsDomain(settingsRepo, entryRepo, winnerRepo),
		winner:   NewWinnerDomain(winnerRepo, entryRepo, settingsRepo, idGenerator, redisClient),
		raffle:   NewRaffleDomain(entryRepo, settingsRepo, winnerRepo, redisClient),
	}
}

// newRaffleContext returns an admin context whose raffle runs from t0 to
// t0PlusHour, with the clock at now.
func newRaffleContext(now time.Time, winnerCount int, names ...string) (context.Context, *testutil.Clock) {
	clock := testutil.NewClock(now)
	ctx := testutil.NewMockContextWithClock(clock)
	ctx = xcontext.WithAdmin(ctx, "admin")
	testutil.CreateFixtureDb(ctx, t0, t0PlusHour, winnerCount, names...)
	return ctx, clock
}
