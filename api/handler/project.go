package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/nestly/backend/api/transport"
	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/pkg/httpcontext"
	projectUC "github.com/nestly/backend/usecase/project"
)

type ProjectHandler struct {
	baseHandler
	uc *projectUC.UseCase
}

func NewProjectHandler(uc *projectUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Convert task to project
// @Tags projects
// @Router /api/v1/tasks/{id}/convert [post]
func (h *ProjectHandler) Convert(ctx *fasthttp.RequestCtx) {
	id, ok := h.projectID(ctx)
	if !ok {
		return
	}

	var req transport.ConvertProjectRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	inputs := make([]projectUC.SubtaskInput, 0, len(req.Subtasks))
	for _, st := range req.Subtasks {
		inputs = append(inputs, projectUC.SubtaskInput{Title: st.Title})
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Convert(stdCtx, id, inputs)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Append subtask
// @Tags projects
// @Router /api/v1/projects/{id}/subtasks [post]
func (h *ProjectHandler) AddSubtask(ctx *fasthttp.RequestCtx) {
	id, ok := h.projectID(ctx)
	if !ok {
		return
	}

	var req transport.SubtaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.AddSubtask(stdCtx, id, projectUC.SubtaskInput{Title: req.Title})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Patch subtask
// @Tags projects
// @Router /api/v1/projects/{id}/subtasks/{subtaskId} [put]
func (h *ProjectHandler) UpdateSubtask(ctx *fasthttp.RequestCtx) {
	id, ok := h.projectID(ctx)
	if !ok {
		return
	}

	rawSubtaskID, _ := ctx.UserValue("subtaskId").(string)
	subtaskID, err := strconv.Atoi(rawSubtaskID)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "subtask id must be an integer", nil))
		return
	}

	var req transport.SubtaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateSubtask(stdCtx, id, subtaskID, projectUC.SubtaskPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

func (h *ProjectHandler) projectID(ctx *fasthttp.RequestCtx) (string, bool) {
	if userID := h.userID(ctx); userID == "" {
		return "", false
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing project id", nil))
		return "", false
	}
	return id, true
}
