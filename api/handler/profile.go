package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/motivatchi/backend/pkg/httpcontext"
	"github.com/motivatchi/backend/usecase/profile"
)

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	baseHandler
	profileUC *profile.UseCase
}

func NewProfileHandler(profileUC *profile.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		profileUC:   profileUC,
	}
}

func (h *ProfileHandler) Me(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	account, pet, err := h.profileUC.Me(stdCtx, accountID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"username": account.Username,
		"coins":    account.Coins,
		"tamagotchi": map[string]interface{}{
			"level":            pet.Level,
			"xp":               pet.XP,
			"health":           pet.Health,
			"outfit":           pet.Outfit,
			"unlocked_outfits": pet.UnlockedOutfits,
		},
	})
}
