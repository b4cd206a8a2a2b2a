package middleware

import (
	"context"
	"strings"

	"github.com/asolution/raffle/internal/model"
	"github.com/asolution/raffle/pkg/authenticator"
	"github.com/asolution/raffle/pkg/router"
	"github.com/asolution/raffle/pkg/xcontext"
)

type AuthVerifier struct {
	tokenEngine authenticator.TokenEngine[model.AdminToken]
}

func NewAuthVerifier(tokenEngine authenticator.TokenEngine[model.AdminToken]) *AuthVerifier {
	return &AuthVerifier{tokenEngine: tokenEngine}
}

// Middleware marks the request as an admin request if it carries a valid
// bearer token. Requests without a valid token pass through unchanged.
func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return nil, nil
		}

		auth, token, found := strings.Cut(req.Header.Get("Authorization"), " ")
		if !found || auth != "Bearer" {
			return nil, nil
		}

		info, err := a.tokenEngine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid admin token: %v", err)
			return nil, nil
		}

		return xcontext.WithAdmin(ctx, info.Name), nil
	}
}
