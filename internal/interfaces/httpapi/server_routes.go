package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerSessionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/sessions", RequireAuth(verifier, http.HandlerFunc(handler.CreateSession)))
	mux.Handle("GET /v1/sessions/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMySessions)))
	mux.Handle("GET /v1/sessions/{sessionID}", RequireAuth(verifier, http.HandlerFunc(handler.GetSession)))
	mux.Handle("POST /v1/sessions/{sessionID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinSession)))
	mux.Handle("POST /v1/sessions/{sessionID}/withdraw", RequireAuth(verifier, http.HandlerFunc(handler.WithdrawSession)))
	mux.Handle("POST /v1/sessions/{sessionID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelSession)))
	mux.Handle("PUT /v1/sessions/{sessionID}/outcome", RequireAuth(verifier, http.HandlerFunc(handler.RecordOutcome)))
	mux.Handle("PUT /v1/sessions/{sessionID}/participants/{userID}/side", RequireAuth(verifier, http.HandlerFunc(handler.AssignSide)))
	mux.Handle("POST /v1/sessions/{sessionID}/attendance", RequireAuth(verifier, http.HandlerFunc(handler.SubmitAttendance)))
}

func registerReliabilityRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/reliability/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyReliability)))
	mux.Handle("GET /v1/users/{userID}/reliability", RequireAuth(verifier, http.HandlerFunc(handler.GetUserReliability)))
}

func registerBadgeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/badges/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyBadges)))
	mux.Handle("POST /v1/badges/me/evaluate", RequireAuth(verifier, http.HandlerFunc(handler.EvaluateMyBadges)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalToken string) {
	mux.Handle("POST /v1/internal/referrals", RequireInternalToken(internalToken, http.HandlerFunc(handler.RecordReferral)))
}
