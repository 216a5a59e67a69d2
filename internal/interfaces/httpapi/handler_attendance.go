package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/riskibarqy/kickabout/internal/usecase"
)

func (h *Handler) SubmitAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitAttendance")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	sessionID := strings.TrimSpace(r.PathValue("sessionID"))

	var req submitAttendanceRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.SubmitAttendanceInput{
		SessionID:   sessionID,
		OrganizerID: principal.UserID,
		Attendance:  req.Attendance,
	}
	if req.Outcome != nil {
		outcome := req.Outcome.toDomain()
		input.Outcome = &outcome
	}

	result, err := h.attendanceService.SubmitAttendance(ctx, input)
	if err != nil {
		if errors.Is(err, usecase.ErrAlreadyConfirmed) {
			h.logger.InfoContext(ctx, "attendance resubmitted", "session_id", sessionID)
		} else {
			h.logger.WarnContext(ctx, "submit attendance failed", "session_id", sessionID, "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "attendance confirmed",
		"session_id", sessionID,
		"participants", len(result.Lines),
		"status", string(result.Session.Status),
	)
	writeSuccess(ctx, w, http.StatusOK, reconciliationToDTO(result))
}
