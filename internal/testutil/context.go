package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/asolution/raffle/config"
	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/pkg/logger"
	"github.com/asolution/raffle/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Clock is a settable wall clock for raffle windows.
type Clock struct {
	mutex sync.Mutex
	now   time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = now
}

func (c *Clock) Add(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

// NewMockContext returns a context with a migrated in-memory database. The
// pool holds a single connection since every sqlite connection would open its
// own in-memory database.
func NewMockContext() context.Context {
	silent := logger.NewLogger(logger.SILENCE, "")
	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig(silent))
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Default()
	cfg.Auth.TokenSecret = "secret"
	cfg.Auth.TokenExpiration = time.Minute

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, silent)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

// NewMockContextWithClock is NewMockContext driven by clock.
func NewMockContextWithClock(clock *Clock) context.Context {
	return xcontext.WithClock(NewMockContext(), clock.Now)
}
