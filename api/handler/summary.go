package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/timetracker/pkg/httpcontext"
	summaryUC "github.com/fastygo/timetracker/usecase/summary"
)

type SummaryHandler struct {
	baseHandler
	uc *summaryUC.UseCase
}

func NewSummaryHandler(uc *summaryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SummaryHandler {
	return &SummaryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Daily summary
// @Tags summary
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Router /summary [get]
func (h *SummaryHandler) Daily(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.Daily(stdCtx, userID, string(ctx.QueryArgs().Peek("date")))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, summary)
}
