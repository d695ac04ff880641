package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/nestly/backend/pkg/httpcontext"
	suggestUC "github.com/nestly/backend/usecase/suggest"
)

type SuggestHandler struct {
	baseHandler
	svc *suggestUC.Service
}

func NewSuggestHandler(svc *suggestUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *SuggestHandler {
	return &SuggestHandler{
		baseHandler: newBaseHandler(adapter, logger),
		svc:         svc,
	}
}

// @Summary Daily task suggestions
// @Tags suggestions
// @Router /api/v1/suggestions/daily [get]
func (h *SuggestHandler) Daily(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	suggestions, err := h.svc.DailyForUser(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, suggestions)
}
