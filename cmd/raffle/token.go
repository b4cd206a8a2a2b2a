package main

import (
	"fmt"

	"github.com/asolution/raffle/internal/model"
	"github.com/urfave/cli/v2"
)

func (s *srv) issueToken(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}
	s.loadTokenEngine()

	name := cctx.String("name")
	token, err := s.tokenEngine.Generate(name, model.AdminToken{Name: name})
	if err != nil {
		return err
	}

	fmt.Fprintln(cctx.App.Writer, token)
	return nil
}
