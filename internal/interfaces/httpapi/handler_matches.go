package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/FUN-BET-ME/Funbet-ai-27-sub000/internal/usecase"
)

type listMatchesRequest struct {
	Sport  string `validate:"omitempty,oneof=football basketball tennis hockey"`
	Window string `validate:"omitempty,oneof=all upcoming live results"`
	Limit  int    `validate:"gte=0,lte=50"`
	Skip   int    `validate:"gte=0"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	query := r.URL.Query()
	req := listMatchesRequest{
		Sport:  strings.ToLower(strings.TrimSpace(query.Get("sport"))),
		Window: strings.ToLower(strings.TrimSpace(query.Get("window"))),
	}

	var err error
	if req.Limit, err = parseQueryInt(query.Get("limit"), 0); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
		return
	}
	if req.Skip, err = parseQueryInt(query.Get("skip"), 0); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: skip must be an integer", usecase.ErrInvalidInput))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.matchQueryService.ListMatches(ctx, usecase.ListMatchesInput{
		Sport:  req.Sport,
		Window: req.Window,
		Limit:  req.Limit,
		Skip:   req.Skip,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "sport", req.Sport, "window", req.Window, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(out.Matches))
	for _, view := range out.Matches {
		items = append(items, matchViewToDTO(view))
	}

	nextSkip := out.Skip + len(items)
	writeSuccess(ctx, w, http.StatusOK, matchListDTO{
		Matches: items,
		Pagination: paginationDTO{
			Total:    out.Total,
			Limit:    out.Limit,
			HasMore:  nextSkip < out.Total,
			NextSkip: nextSkip,
		},
	})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	key := strings.TrimSpace(r.PathValue("matchKey"))
	view, err := h.matchQueryService.GetMatch(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_key", key, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchViewToDTO(view))
}

func parseQueryInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
