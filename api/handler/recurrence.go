package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/nestly/backend/api/transport"
	"github.com/nestly/backend/domain"
	"github.com/nestly/backend/pkg/httpcontext"
)

// RecurrenceHandler exposes the stateless recurrence evaluator so the
// scheduling collaborator can ask "should an instance exist on this date".
type RecurrenceHandler struct {
	baseHandler
}

func NewRecurrenceHandler(adapter *httpcontext.Adapter, logger *zap.Logger) *RecurrenceHandler {
	return &RecurrenceHandler{baseHandler: newBaseHandler(adapter, logger)}
}

// @Summary Evaluate a recurrence rule for a date
// @Tags recurrence
// @Router /api/v1/recurrence/evaluate [post]
func (h *RecurrenceHandler) Evaluate(ctx *fasthttp.RequestCtx) {
	var req transport.RecurrenceEvaluateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	rule := domain.RecurrenceRule{
		Type:    domain.RecurrenceType(req.Type),
		WeekDay: time.Weekday(req.WeekDay),
	}
	for _, d := range req.Days {
		rule.Days = append(rule.Days, time.Weekday(d))
	}
	if !rule.Valid() {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "unknown recurrence type", nil))
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		date, err = time.Parse("2006-01-02", req.Date)
	}
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "date must be RFC3339 or YYYY-MM-DD", nil))
		return
	}

	h.respondSuccess(ctx, http.StatusOK, map[string]bool{
		"should_create": rule.ShouldCreateOn(date),
	})
}
