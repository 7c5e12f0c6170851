package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/motivatchi/backend/pkg/httpcontext"
	"github.com/motivatchi/backend/usecase/challenge"
)

// ChallengeHandler exposes the weekly team challenge.
type ChallengeHandler struct {
	baseHandler
	challengeUC *challenge.UseCase
}

func NewChallengeHandler(challengeUC *challenge.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		baseHandler: newBaseHandler(adapter, logger),
		challengeUC: challengeUC,
	}
}

func (h *ChallengeHandler) Weekly(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	current, err := h.challengeUC.Current(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"id":         current.ID,
		"week_start": current.WeekStart,
		"deadline":   current.Deadline,
		"task_count": current.TaskCount,
		"priority":   current.Priority,
	})
}

func (h *ChallengeHandler) Join(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	participation, created, err := h.challengeUC.Join(stdCtx, accountID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"challenge_id":   participation.ChallengeID,
		"joined":         true,
		"already_joined": !created,
	})
}

func (h *ChallengeHandler) Status(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	joined, err := h.challengeUC.Joined(stdCtx, accountID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"joined": joined})
}

func (h *ChallengeHandler) TeamMembers(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, username := h.identity(ctx)
	members, err := h.challengeUC.TeamMembers(stdCtx, accountID, username)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"team_members": members})
}

func (h *ChallengeHandler) TeamProgress(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, username := h.identity(ctx)
	progress, err := h.challengeUC.TeamProgress(stdCtx, accountID, username)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, progress)
}
