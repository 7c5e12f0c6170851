package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/motivatchi/backend/api/transport"
	"github.com/motivatchi/backend/pkg/httpcontext"
	"github.com/motivatchi/backend/usecase/social"
)

// SocialHandler covers the follow graph and notifications.
type SocialHandler struct {
	baseHandler
	socialUC *social.UseCase
}

func NewSocialHandler(socialUC *social.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SocialHandler {
	return &SocialHandler{
		baseHandler: newBaseHandler(adapter, logger),
		socialUC:    socialUC,
	}
}

func (h *SocialHandler) Follow(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.FollowRequest
	if !h.decode(ctx, &req) {
		return
	}

	_, username := h.identity(ctx)
	created, err := h.socialUC.Follow(stdCtx, username, req.Username)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"following":        req.Username,
		"already_followed": !created,
	})
}

func (h *SocialHandler) Unfollow(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.FollowRequest
	if !h.decode(ctx, &req) {
		return
	}

	_, username := h.identity(ctx)
	if err := h.socialUC.Unfollow(stdCtx, username, req.Username); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"unfollowed": req.Username})
}

func (h *SocialHandler) RemoveFollower(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.FollowRequest
	if !h.decode(ctx, &req) {
		return
	}

	_, username := h.identity(ctx)
	if err := h.socialUC.RemoveFollower(stdCtx, username, req.Username); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"removed": req.Username})
}

func (h *SocialHandler) Connections(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, username := h.identity(ctx)
	connections, err := h.socialUC.Connections(stdCtx, username)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, connections)
}

// FollowedCoins shows a followed user's coin balance.
func (h *SocialHandler) FollowedCoins(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, username := h.identity(ctx)
	target := h.pathParam(ctx, "username")

	account, err := h.socialUC.FollowedCoins(stdCtx, username, target)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"username": account.Username,
		"coins":    account.Coins,
	})
}

func (h *SocialHandler) Notifications(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	notifications, err := h.socialUC.Notifications(stdCtx, accountID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, notifications)
}

func (h *SocialHandler) MarkNotificationRead(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	notificationID := h.pathParam(ctx, "id")

	if err := h.socialUC.MarkNotificationRead(stdCtx, accountID, notificationID); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"read": true})
}
