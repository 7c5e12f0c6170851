package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/motivatchi/backend/api/transport"
	"github.com/motivatchi/backend/pkg/httpcontext"
	"github.com/motivatchi/backend/usecase/auth"
)

// AuthHandler exposes registration, login and logout.
type AuthHandler struct {
	baseHandler
	authUC *auth.UseCase
}

func NewAuthHandler(authUC *auth.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		authUC:      authUC,
	}
}

func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.RegisterRequest
	if !h.decode(ctx, &req) {
		return
	}

	account, err := h.authUC.Register(stdCtx, req.Username, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusCreated, map[string]interface{}{
		"id":       account.ID,
		"username": account.Username,
		"coins":    account.Coins,
	})
}

func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.LoginRequest
	if !h.decode(ctx, &req) {
		return
	}

	token, session, err := h.authUC.Login(stdCtx, req.Username, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"token":      token,
		"username":   session.Username,
		"expires_at": session.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sessionID := string(ctx.Request.Header.Peek("X-Session-ID"))
	if err := h.authUC.Logout(stdCtx, sessionID); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"logged_out": true})
}
