package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "raffle"
	s.app.Usage = "Time-boxed raffle service"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the TOML configuration file",
			EnvVars: []string{"RAFFLE_CONFIG"},
		},
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it serves the public and admin raffle apis.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database",
			Category:    "Database",
			Description: `Used to apply the database migrations before starting the api.`,
		},
		{
			Action:   s.issueToken,
			Name:     "token",
			Usage:    "Issue an admin token",
			Category: "Auth",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Usage:    "Name of the admin holding the token",
					Required: true,
				},
			},
			Description: `Used to issue a bearer token for the admin apis.`,
		},
	}
}
