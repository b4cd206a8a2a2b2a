package router

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/asolution/raffle/pkg/errorx"
	"github.com/asolution/raffle/pkg/xcontext"
	"github.com/gin-gonic/gin"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	// Snapshot middlewares so that later changes to the router do not leak
	// into routes registered before.
	befores := append([]MiddlewareFunc{}, router.befores...)
	afters := append([]MiddlewareFunc{}, router.afters...)
	closers := append([]CloserFunc{}, router.closers...)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = xcontext.WithConfigs(ctx, router.configs)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithDB(ctx, router.db)
		ctx = xcontext.WithHTTPRequest(ctx, c.Request)
		ctx = xcontext.WithClientIP(ctx, c.ClientIP())

		defer func() {
			for _, closer := range closers {
				closer(ctx)
			}
		}()

		ctx, err := runMiddlewares(ctx, befores)
		if err == nil {
			var resp *Response
			resp, err = callHandler(ctx, c, method, handler)
			if err == nil {
				ctx = xcontext.WithResponse(ctx, resp)
				ctx, err = runMiddlewares(ctx, afters)
			}
		}

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
		}

		writeResponse(ctx, c.Writer)
	}
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, middleware := range middlewares {
		newCtx, err := middleware(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func callHandler[Request, Response any](
	ctx context.Context,
	c *gin.Context,
	method string,
	handler HandlerFunc[Request, Response],
) (*Response, error) {
	var req Request
	var err error
	switch method {
	case http.MethodGet:
		err = c.ShouldBindQuery(&req)
	case http.MethodPost:
		err = c.ShouldBindJSON(&req)
		if errors.Is(err, io.EOF) {
			// Empty body.
			err = nil
		}
	default:
		err = errors.New("unsupported method")
	}

	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid request")
	}

	return handler(ctx, &req)
}
