package router

import (
	"encoding/json"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/timetracker/api/handler"
	"github.com/fastygo/timetracker/api/transport"
	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/internal/middleware"
	"github.com/fastygo/timetracker/pkg/httpcontext"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Task    *apiHandler.TaskHandler
	Timer   *apiHandler.TimerHandler
	Summary *apiHandler.SummaryHandler
	Health  *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New registers every route both at the root and under /api.
func New(handlers Handlers, authMiddleware Middleware, logger *zap.Logger) *router.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := router.New()

	for _, prefix := range []string{"", "/api"} {
		register(r, prefix, handlers, authMiddleware)
	}

	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		writeError(ctx, http.StatusNotFound, domain.ErrCodeNotFound, "route not found")
	}
	r.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		writeError(ctx, http.StatusMethodNotAllowed, domain.ErrCodeInvalid, "method not allowed")
	}
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, recovered interface{}) {
		logger.Error("handler panic",
			zap.String("request_id", httpcontext.RequestID(ctx)),
			zap.ByteString("path", ctx.Path()),
			zap.Any("panic", recovered))
		writeError(ctx, http.StatusInternalServerError, domain.ErrCodeInternal, "internal server error")
	}

	return r
}

// Handler wraps the router with the middleware every response goes through.
func Handler(r *router.Router, logger *zap.Logger) fasthttp.RequestHandler {
	return middleware.SecureHeaders(middleware.AccessLog(logger)(r.Handler))
}

func register(r *router.Router, prefix string, handlers Handlers, auth Middleware) {
	handle := func(method, path string, h fasthttp.RequestHandler) {
		r.Handle(method, prefix+path, h)
	}

	if handlers.Health != nil {
		handle(fasthttp.MethodGet, "/health", handlers.Health.Check)
	}

	handle(fasthttp.MethodPost, "/auth/signup", handlers.Auth.Signup)
	handle(fasthttp.MethodPost, "/auth/login", handlers.Auth.Login)
	handle(fasthttp.MethodPost, "/auth/logout", handlers.Auth.Logout)
	handle(fasthttp.MethodGet, "/auth/me", auth(handlers.Auth.Me))

	handle(fasthttp.MethodGet, "/tasks", auth(handlers.Task.GetTasks))
	handle(fasthttp.MethodPost, "/tasks", auth(handlers.Task.CreateTask))
	handle(fasthttp.MethodGet, "/tasks/{id}", auth(handlers.Task.GetTask))
	handle(fasthttp.MethodPut, "/tasks/{id}", auth(handlers.Task.UpdateTask))
	handle(fasthttp.MethodDelete, "/tasks/{id}", auth(handlers.Task.DeleteTask))

	handle(fasthttp.MethodGet, "/timelogs/{taskId}", auth(handlers.Timer.TaskLogs))

	handle(fasthttp.MethodGet, "/timer/active", auth(handlers.Timer.Active))
	handle(fasthttp.MethodPost, "/timer/start", auth(handlers.Timer.Start))
	handle(fasthttp.MethodPost, "/timer/stop", auth(handlers.Timer.Stop))

	handle(fasthttp.MethodGet, "/summary", auth(handlers.Summary.Daily))
}

func writeError(ctx *fasthttp.RequestCtx, status int, code domain.ErrorCode, message string) {
	body, _ := json.Marshal(transport.NewError(string(code), message))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
