package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/nestly/backend/pkg/httpcontext"
	viewsUC "github.com/nestly/backend/usecase/views"
)

type ViewsHandler struct {
	baseHandler
	svc *viewsUC.Service
}

func NewViewsHandler(svc *viewsUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *ViewsHandler {
	return &ViewsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		svc:         svc,
	}
}

// @Summary Active tasks view
// @Tags views
// @Router /api/v1/views/active [get]
func (h *ViewsHandler) Active(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.svc.ActiveTasks(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Completed tasks view
// @Tags views
// @Router /api/v1/views/completed [get]
func (h *ViewsHandler) Completed(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.svc.CompletedTasks(stdCtx, userID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Live projects view
// @Tags views
// @Router /api/v1/views/projects [get]
func (h *ViewsHandler) Projects(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.svc.LiveProjects(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Past promises view
// @Tags views
// @Router /api/v1/views/past-promises [get]
func (h *ViewsHandler) PastPromises(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.svc.PastPromiseTasks(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Full dashboard (all views in one read)
// @Tags views
// @Router /api/v1/views/dashboard [get]
func (h *ViewsHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	limit := parseInt(string(ctx.QueryArgs().Peek("completed_limit")), 20)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	dashboard, err := h.svc.LoadDashboard(stdCtx, userID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, dashboard)
}
