package handler

import (
	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"savings-engine/internal/engine"
	"savings-engine/internal/limits"
	"savings-engine/internal/model"
)

// Handler serves planning requests against an immutable limits table set.
type Handler struct {
	limits *limits.Limits
}

func New(lim *limits.Limits) *Handler {
	return &Handler{limits: lim}
}

// HandlePlan is the fasthttp entry point: POST with a PlanRequest body,
// PlanResponse out.
func (h *Handler) HandlePlan(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusBadRequest, "Method not allowed")
		return
	}

	var req model.PlanRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Profile == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "A profile is required")
		return
	}

	resp := engine.Process(&req, h.limits)

	ctx.SetContentType("application/json")
	body, err := json.Marshal(resp)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response")
		return
	}
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(model.ErrorResponse{Status: status, Message: message})
	ctx.SetBody(body)
}
