package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/motivatchi/backend/api/transport"
	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/pkg/httpcontext"
	"github.com/motivatchi/backend/repository"
	"github.com/motivatchi/backend/usecase/task"
)

// TaskHandler covers task CRUD, completion flows and analytics.
type TaskHandler struct {
	baseHandler
	taskUC *task.UseCase
}

func NewTaskHandler(taskUC *task.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		taskUC:      taskUC,
	}
}

func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	filter := repository.TaskFilter{
		AccountID: accountID,
		Status:    string(ctx.QueryArgs().Peek("status")),
	}

	tasks, err := h.taskUC.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	found, err := h.taskUC.Get(stdCtx, accountID, h.pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, found)
}

func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.TaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	deadline, ok := transport.ParseDeadline(req.Deadline)
	if !ok {
		h.respondError(ctx, domain.NewError(domain.ErrCodeInvalid, "invalid deadline"))
		return
	}

	accountID, _ := h.identity(ctx)
	created, err := h.taskUC.Create(stdCtx, &domain.Task{
		AccountID: accountID,
		Name:      req.Name,
		Category:  req.Category,
		Deadline:  deadline,
		Priority:  req.Priority,
		Notify:    req.Notify,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusCreated, created)
}

func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.TaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	deadline, ok := transport.ParseDeadline(req.Deadline)
	if !ok {
		h.respondError(ctx, domain.NewError(domain.ErrCodeInvalid, "invalid deadline"))
		return
	}

	accountID, _ := h.identity(ctx)
	updated, err := h.taskUC.Update(stdCtx, accountID, &domain.Task{
		ID:       h.pathParam(ctx, "id"),
		Name:     req.Name,
		Category: req.Category,
		Deadline: deadline,
		Priority: req.Priority,
		Notify:   req.Notify,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, updated)
}

func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	if err := h.taskUC.Delete(stdCtx, accountID, h.pathParam(ctx, "id")); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *TaskHandler) Complete(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	result, err := h.taskUC.Complete(stdCtx, accountID, h.pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, result)
}

func (h *TaskHandler) MarkIncomplete(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	result, err := h.taskUC.MarkIncomplete(stdCtx, accountID, h.pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, result)
}

func (h *TaskHandler) Analytics(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	period := string(ctx.QueryArgs().Peek("period"))
	if period == "" {
		period = "weekly"
	}

	accountID, _ := h.identity(ctx)
	analytics, err := h.taskUC.Analytics(stdCtx, accountID, period)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, analytics)
}
