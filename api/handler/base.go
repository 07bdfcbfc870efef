package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/timetracker/api/transport"
	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/pkg/httpcontext"
)

const internalErrorMessage = "internal server error"

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("response encoding failed", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(transport.NewError(string(domain.ErrCodeInternal), internalErrorMessage))
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code, message := mapError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", httpcontext.RequestID(ctx)),
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, message))
}

// decode parses a JSON body. An empty body is accepted when allowEmpty is set.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}, allowEmpty bool) bool {
	body := ctx.PostBody()
	if len(body) == 0 && allowEmpty {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return false
	}
	return true
}

// userID returns the authenticated caller or answers 401.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID := httpcontext.UserID(ctx)
	if userID == "" {
		h.respondError(ctx, domain.ErrUnauthorized)
	}
	return userID
}

// mapError translates domain errors. Only the domain message reaches the client; wrapped
// causes and unclassified errors stay in the logs.
func mapError(err error) (int, string, string) {
	var dErr *domain.Error
	if !errors.As(err, &dErr) {
		return http.StatusInternalServerError, string(domain.ErrCodeInternal), internalErrorMessage
	}

	switch dErr.Code {
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized, string(dErr.Code), dErr.Message
	case domain.ErrCodeInvalid, domain.ErrCodeConflict:
		return http.StatusBadRequest, string(dErr.Code), dErr.Message
	case domain.ErrCodeNotFound:
		return http.StatusNotFound, string(dErr.Code), dErr.Message
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal), internalErrorMessage
	}
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	value, _ := ctx.UserValue(name).(string)
	return value
}
