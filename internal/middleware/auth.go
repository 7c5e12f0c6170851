package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/motivatchi/backend/api/transport"
	"github.com/motivatchi/backend/domain"
)

// SessionResolver validates a bearer token and returns the live session it
// names. Implemented by the auth use case.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// SessionAuth rejects requests without a live session and stamps the
// authenticated identity onto the request headers for downstream handlers.
func SessionAuth(resolver SessionResolver, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx)
				return
			}

			session, err := resolver.Resolve(ctx, tokenString)
			if err != nil {
				logger.Warn("rejected request token", zap.Error(err))
				unauthorized(ctx)
				return
			}

			ctx.Request.Header.Set("X-User-ID", session.UserID)
			ctx.Request.Header.Set("X-Username", session.Username)
			ctx.Request.Header.Set("X-Session-ID", session.ID)

			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), "authentication required", nil))
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
