package domain

import (
	"context"
	"html"
	"strings"

	"github.com/asolution/raffle/internal/common"
	"github.com/asolution/raffle/internal/model"
	"github.com/asolution/raffle/pkg/xcontext"
	"github.com/asolution/raffle/pkg/xredis"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// sanitize trims the input and escapes HTML so that stored names are safe to
// render as-is.
func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

func isEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// resultsCache keeps the latest published batch. Cache failures are logged and
// never fail the request.
type resultsCache struct {
	redisClient xredis.Client
}

func newResultsCache(redisClient xredis.Client) *resultsCache {
	if redisClient == nil {
		redisClient = xredis.NewNoopClient()
	}

	return &resultsCache{redisClient: redisClient}
}

func (c *resultsCache) get(ctx context.Context) (*model.GetWinnersResponse, bool) {
	var resp model.GetWinnersResponse
	err := c.redisClient.GetObj(ctx, common.RedisKeyPublishedWinners, &resp)
	if err != nil {
		if !xredis.IsNotFound(err) {
			xcontext.Logger(ctx).Warnf("Cannot get published winners from cache: %v", err)
		}

		common.PromCounters[common.ResultsCacheTotal].WithLabelValues("miss").Inc()
		return nil, false
	}

	common.PromCounters[common.ResultsCacheTotal].WithLabelValues("hit").Inc()
	return &resp, true
}

func (c *resultsCache) set(ctx context.Context, resp *model.GetWinnersResponse) {
	ttl := xcontext.Configs(ctx).Redis.ResultsTTL
	err := c.redisClient.SetObj(ctx, common.RedisKeyPublishedWinners, resp, ttl)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache published winners: %v", err)
	}
}

func (c *resultsCache) invalidate(ctx context.Context) {
	if err := c.redisClient.Del(ctx, common.RedisKeyPublishedWinners); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot invalidate published winners: %v", err)
	}
}
