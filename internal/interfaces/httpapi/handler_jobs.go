package httpapi

import (
	"fmt"
	"net/http"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/usecase"
)

type jobRunDTO struct {
	Job     string `json:"job"`
	Skipped bool   `json:"skipped"`
	Result  any    `json:"result,omitempty"`
}

// The job endpoints share the scheduler's running guards, so a manual
// trigger never overlaps a ticker-driven run of the same job.

func (h *Handler) RunRefreshOddsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshOddsJob")
	defer span.End()

	if h.scheduler == nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduler is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, ran, err := h.scheduler.RunRefresh(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh odds job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ran {
		writeSuccess(ctx, w, http.StatusAccepted, jobRunDTO{Job: "refresh-odds", Skipped: true})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, jobRunDTO{Job: "refresh-odds", Result: result})
}

func (h *Handler) RunComputePredictionsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunComputePredictionsJob")
	defer span.End()

	if h.scheduler == nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduler is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, ran, err := h.scheduler.RunCompute(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "compute predictions job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ran {
		writeSuccess(ctx, w, http.StatusAccepted, jobRunDTO{Job: "compute-predictions", Skipped: true})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, jobRunDTO{Job: "compute-predictions", Result: result})
}

func (h *Handler) RunVerifyResultsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunVerifyResultsJob")
	defer span.End()

	if h.scheduler == nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduler is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, ran, err := h.scheduler.RunVerify(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "verify results job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ran {
		writeSuccess(ctx, w, http.StatusAccepted, jobRunDTO{Job: "verify-results", Skipped: true})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, jobRunDTO{Job: "verify-results", Result: result})
}
