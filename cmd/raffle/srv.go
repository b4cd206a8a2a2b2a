package main

import (
	"context"
	"net/http"
	"time"

	"github.com/asolution/raffle/config"
	"github.com/asolution/raffle/internal/domain"
	"github.com/asolution/raffle/internal/model"
	"github.com/asolution/raffle/internal/repository"
	"github.com/asolution/raffle/pkg/authenticator"
	"github.com/asolution/raffle/pkg/idutil"
	"github.com/asolution/raffle/pkg/logger"
	"github.com/asolution/raffle/pkg/router"
	"github.com/asolution/raffle/pkg/xcontext"
	"github.com/asolution/raffle/pkg/xredis"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// drawNode is the snowflake node of this process. A single api process owns
// the draws.
const drawNode = 1

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client
	tokenEngine authenticator.TokenEngine[model.AdminToken]

	entryRepo    repository.EntryRepository
	settingsRepo repository.SettingsRepository
	winnerRepo   repository.WinnerRepository

	entryDomain    domain.EntryDomain
	settingsDomain domain.SettingsDomain
	winnerDomain   domain.WinnerDomain
	raffleDomain   domain.RaffleDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.configs = cfg
	s.ctx = xcontext.WithConfigs(cctx.Context, cfg)
	return nil
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.ParseLevel(s.configs.Log.Level), s.configs.Log.Format)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() error {
	var dialector gorm.Dialector
	switch s.configs.Database.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       s.configs.Database.DSN,
			DefaultStringSize:         256,
			SkipInitializeWithVersion: false,
		})
	default:
		dialector = sqlite.Open(s.configs.Database.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGormLogger(s.logger, logger.ParseLevel(s.configs.Log.Level)),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if s.configs.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(s.configs.Database.MaxOpenConns)
	}
	if s.configs.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(s.configs.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) loadRedis() error {
	if s.configs.Redis.Addr == "" {
		s.logger.Warnf("Redis address is empty, published results are not cached")
		s.redisClient = xredis.NewNoopClient()
		return nil
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		return err
	}

	s.redisClient = client
	return nil
}

func (s *srv) loadTokenEngine() {
	s.tokenEngine = authenticator.NewTokenEngine[model.AdminToken](s.configs.Auth)
}

func (s *srv) loadRepos() {
	s.entryRepo = repository.NewEntryRepository()
	s.settingsRepo = repository.NewSettingsRepository()
	s.winnerRepo = repository.NewWinnerRepository()
}

func (s *srv) loadDomains() error {
	idGenerator, err := idutil.NewSnowflakeGenerator(drawNode)
	if err != nil {
		return err
	}

	s.entryDomain = domain.NewEntryDomain(s.entryRepo, s.settingsRepo, s.winnerRepo, s.redisClient)
	s.settingsDomain = domain.NewSettingsDomain(s.settingsRepo, s.entryRepo, s.winnerRepo)
	s.winnerDomain = domain.NewWinnerDomain(
		s.winnerRepo, s.entryRepo, s.settingsRepo, idGenerator, s.redisClient)
	s.raffleDomain = domain.NewRaffleDomain(s.entryRepo, s.settingsRepo, s.winnerRepo, s.redisClient)
	return nil
}
