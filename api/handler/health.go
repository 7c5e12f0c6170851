package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/motivatchi/backend/internal/infrastructure/monitor"
	"github.com/motivatchi/backend/pkg/httpcontext"
)

// HealthHandler reports liveness of the service and its dependencies.
type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()

	code := http.StatusOK
	if !status.PostgreSQL || !status.Redis {
		code = http.StatusServiceUnavailable
	}

	h.respondSuccess(ctx, code, status)
}
