package middleware

import (
	"context"

	"github.com/asolution/raffle/pkg/errorx"
	"github.com/asolution/raffle/pkg/router"
	"github.com/asolution/raffle/pkg/xcontext"
)

// OnlyAdmin must run after AuthVerifier.
func OnlyAdmin() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.Admin(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate as an administrator")
		}

		return nil, nil
	}
}
