package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/motivatchi/backend/pkg/httpcontext"
	"github.com/motivatchi/backend/usecase/event"
)

// EventHandler serves the timed event leaderboard.
type EventHandler struct {
	baseHandler
	eventUC *event.UseCase
}

func NewEventHandler(eventUC *event.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		baseHandler: newBaseHandler(adapter, logger),
		eventUC:     eventUC,
	}
}

func (h *EventHandler) Leaderboard(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	standing, err := h.eventUC.Leaderboard(stdCtx, accountID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, standing)
}
