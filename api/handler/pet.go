package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/motivatchi/backend/api/transport"
	"github.com/motivatchi/backend/pkg/httpcontext"
	"github.com/motivatchi/backend/usecase/pet"
)

// PetHandler exposes tamagotchi health, outfits and follower visibility.
type PetHandler struct {
	baseHandler
	petUC *pet.UseCase
}

func NewPetHandler(petUC *pet.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *PetHandler {
	return &PetHandler{
		baseHandler: newBaseHandler(adapter, logger),
		petUC:       petUC,
	}
}

func (h *PetHandler) GetHealth(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	accountID, _ := h.identity(ctx)
	health, err := h.petUC.Health(stdCtx, accountID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"health": health})
}

func (h *PetHandler) UpdateHealth(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.HealthActionRequest
	if !h.decode(ctx, &req) {
		return
	}

	accountID, _ := h.identity(ctx)
	health, err := h.petUC.ApplyHealthAction(stdCtx, accountID, req.Action)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"health": health})
}

func (h *PetHandler) PurchaseOutfit(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.OutfitRequest
	if !h.decode(ctx, &req) {
		return
	}

	accountID, _ := h.identity(ctx)
	coins, unlocked, err := h.petUC.PurchaseOutfit(stdCtx, accountID, req.OutfitID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"coins":            coins,
		"unlocked_outfits": unlocked,
	})
}

func (h *PetHandler) SetOutfit(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.OutfitRequest
	if !h.decode(ctx, &req) {
		return
	}

	accountID, _ := h.identity(ctx)
	outfit, err := h.petUC.SetOutfit(stdCtx, accountID, req.OutfitID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"outfit": outfit})
}

// FollowedPet shows a followed user's tamagotchi.
func (h *PetHandler) FollowedPet(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, username := h.identity(ctx)
	target := h.pathParam(ctx, "username")

	followedPet, err := h.petUC.FollowedPet(stdCtx, username, target)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"username": target,
		"tamagotchi": map[string]interface{}{
			"level":  followedPet.Level,
			"xp":     followedPet.XP,
			"health": followedPet.Health,
			"outfit": followedPet.Outfit,
		},
	})
}
