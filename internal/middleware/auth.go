package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/timetracker/api/transport"
	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/pkg/httpcontext"
)

// Authenticator resolves a session token into the calling identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// SessionAuth admits requests carrying a valid session token in the named cookie
// (or, for API clients, an Authorization bearer header). Anything else gets 401.
func SessionAuth(auth Authenticator, cookieName string, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := extractToken(ctx, cookieName)
			if token == "" {
				unauthorized(ctx)
				return
			}

			stdCtx, cancel := adapter.Attach(ctx)
			identity, err := auth.Authenticate(stdCtx, token)
			cancel()
			if err != nil || identity == nil {
				if cause := errors.Unwrap(err); cause != nil {
					logger.Warn("session check failed",
						zap.String("request_id", httpcontext.RequestID(ctx)),
						zap.Error(err))
				}
				unauthorized(ctx)
				return
			}

			httpcontext.SetCaller(ctx, identity.UserID, identity.Email, identity.TokenID)
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx, cookieName string) string {
	if cookie := ctx.Request.Header.Cookie(cookieName); len(cookie) > 0 {
		return string(cookie)
	}
	header := string(ctx.Request.Header.Peek("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func unauthorized(ctx *fasthttp.RequestCtx) {
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), "Unauthorized"))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	ctx.SetBody(body)
}
