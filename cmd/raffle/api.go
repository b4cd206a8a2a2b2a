package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/asolution/raffle/internal/middleware"
	"github.com/asolution/raffle/pkg/prometheus"
	"github.com/asolution/raffle/pkg/router"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}
	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}
	if err := s.loadRedis(); err != nil {
		return err
	}
	s.loadTokenEngine()
	s.loadRepos()
	if err := s.loadDomains(); err != nil {
		return err
	}
	if err := s.loadRouter(); err != nil {
		return err
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port),
		Handler:           middleware.AllowCors(s.configs.ApiServer.AllowedOrigins)(s.router.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infof("Starting server on port: %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	s.logger.Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() error {
	var err error
	s.router, err = router.New(s.db, s.configs, s.logger)
	if err != nil {
		return err
	}

	s.router.Before(middleware.WithStartTime())
	s.router.Before(middleware.NewAuthVerifier(s.tokenEngine).Middleware())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	s.router.Handle(http.MethodGet, "/metrics", prometheus.NewHandler())

	// These following APIs need an admin token.
	adminRouter := s.router.Branch()
	adminRouter.Before(middleware.OnlyAdmin())
	{
		// Entry API
		router.GET(adminRouter, "/getEntries", s.entryDomain.GetEntries)
		router.POST(adminRouter, "/addEntry", s.entryDomain.Add)
		router.POST(adminRouter, "/deleteEntry", s.entryDomain.Delete)
		router.POST(adminRouter, "/importEntries", s.entryDomain.Import)
		router.POST(adminRouter, "/clearEntries", s.entryDomain.ClearAll)

		// Settings API
		router.POST(adminRouter, "/saveSettings", s.settingsDomain.SaveSettings)

		// Winner API
		router.POST(adminRouter, "/drawWinners", s.winnerDomain.Draw)
		router.POST(adminRouter, "/publishWinners", s.winnerDomain.Publish)
		router.POST(adminRouter, "/clearWinners", s.winnerDomain.Clear)

		// Raffle API
		router.POST(adminRouter, "/resetRaffle", s.raffleDomain.Reset)
		router.GET(adminRouter, "/exportEntries", s.raffleDomain.ExportEntries)
		router.GET(adminRouter, "/exportWinners", s.raffleDomain.ExportWinners)
	}

	// Public API. Unpublished winners are only returned to admins.
	router.POST(s.router, "/submitEntry", s.entryDomain.Submit)
	router.GET(s.router, "/getSettings", s.settingsDomain.GetSettings)
	router.GET(s.router, "/getStatus", s.settingsDomain.GetStatus)
	router.GET(s.router, "/getWinners", s.winnerDomain.GetWinners)

	return nil
}
