package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/timetracker/api/transport"
	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/pkg/httpcontext"
	timerUC "github.com/fastygo/timetracker/usecase/timer"
)

type TimerHandler struct {
	baseHandler
	uc *timerUC.UseCase
}

func NewTimerHandler(uc *timerUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TimerHandler {
	return &TimerHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Running timer
// @Tags timer
// @Router /timer/active [get]
func (h *TimerHandler) Active(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	active, err := h.uc.Active(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	timers := active.Timers
	if timers == nil {
		timers = []domain.TimeLog{}
	}
	h.respondJSON(ctx, http.StatusOK, transport.ActiveTimerResponse{
		ActiveTimer:  active.Timer,
		ActiveTimers: timers,
	})
}

// @Summary Start a timer
// @Tags timer
// @Router /timer/start [post]
func (h *TimerHandler) Start(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TimerStartRequest
	if !h.decode(ctx, &req, false) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	log, err := h.uc.Start(stdCtx, userID, req.TaskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.TimeLogResponse{TimeLog: log})
}

// @Summary Stop a timer
// @Tags timer
// @Router /timer/stop [post]
func (h *TimerHandler) Stop(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TimerStopRequest
	if !h.decode(ctx, &req, true) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Stop(stdCtx, userID, req.TaskID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.TimerStopResponse{
		Message:  "Timer stopped successfully",
		Duration: result.Duration,
		TimeLog:  result.TimeLog,
	})
}

// @Summary Time logs of a task
// @Tags timelogs
// @Router /timelogs/{taskId} [get]
func (h *TimerHandler) TaskLogs(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	history, err := h.uc.History(stdCtx, userID, pathParam(ctx, "taskId"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.TimeLogsResponse{
		TimeLogs:  history.TimeLogs,
		TotalTime: history.TotalTime,
	})
}
