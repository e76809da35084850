package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchKey}", handler.GetMatch)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh-odds", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshOddsJob)))
	mux.Handle("POST /v1/internal/jobs/compute-predictions", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunComputePredictionsJob)))
	mux.Handle("POST /v1/internal/jobs/verify-results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunVerifyResultsJob)))
}
