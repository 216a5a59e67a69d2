package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/kickabout/internal/usecase"
)

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSession")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createSessionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.sessionService.CreateSession(ctx, usecase.CreateSessionInput{
		OrganizerID:    principal.UserID,
		Title:          req.Title,
		Sport:          req.Sport,
		Venue:          req.Venue,
		SeatsTotal:     req.SeatsTotal,
		ScheduledStart: req.ScheduledStart,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create session failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, sessionToDTO(created))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	view, err := h.sessionService.GetSession(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get session failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionViewToDTO(view))
}

func (h *Handler) ListMySessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMySessions")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.sessionService.ListUserSessions(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list sessions failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]sessionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, sessionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) JoinSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinSession")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	sessionID := strings.TrimSpace(r.PathValue("sessionID"))

	participant, err := h.sessionService.JoinSession(ctx, sessionID, principal.UserID)
	if err != nil {
		h.logger.InfoContext(ctx, "join session rejected", "session_id", sessionID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participantToDTO(participant))
}

func (h *Handler) WithdrawSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WithdrawSession")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	sessionID := strings.TrimSpace(r.PathValue("sessionID"))

	if err := h.sessionService.Withdraw(ctx, sessionID, principal.UserID); err != nil {
		h.logger.InfoContext(ctx, "withdraw rejected", "session_id", sessionID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelSession")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	sessionID := strings.TrimSpace(r.PathValue("sessionID"))

	if err := h.sessionService.CancelSession(ctx, sessionID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "cancel session failed", "session_id", sessionID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordOutcome")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	sessionID := strings.TrimSpace(r.PathValue("sessionID"))

	var req outcomeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	outcome := req.toDomain()

	updated, err := h.sessionService.RecordOutcome(ctx, usecase.RecordOutcomeInput{
		SessionID:   sessionID,
		OrganizerID: principal.UserID,
		WinningSide: outcome.WinningSide,
		SetScores:   outcome.SetScores,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record outcome failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(updated))
}

func (h *Handler) AssignSide(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignSide")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	userID := strings.TrimSpace(r.PathValue("userID"))

	var req assignSideRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	participant, err := h.sessionService.AssignSide(ctx, sessionID, principal.UserID, userID, req.Side)
	if err != nil {
		h.logger.WarnContext(ctx, "assign side failed", "session_id", sessionID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participantToDTO(participant))
}
