package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetMyReliability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyReliability")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	account, err := h.reliabilityService.GetReliability(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get reliability failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, reliabilityToDTO(account))
}

func (h *Handler) GetUserReliability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserReliability")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	account, err := h.reliabilityService.GetReliability(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get reliability failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, reliabilityToDTO(account))
}

// RecordReferral is called by the signup flow once a referred user has
// registered.
func (h *Handler) RecordReferral(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordReferral")
	defer span.End()

	var req recordReferralRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	account, err := h.reliabilityService.RecordReferral(ctx, req.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "record referral failed", "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, reliabilityToDTO(account))
}
