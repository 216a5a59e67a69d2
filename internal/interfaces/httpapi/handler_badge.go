package httpapi

import "net/http"

func (h *Handler) EvaluateMyBadges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EvaluateMyBadges")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	awarded, err := h.badgeService.EvaluateBadges(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "evaluate badges failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]badgeDTO, 0, len(awarded))
	for _, def := range awarded {
		items = append(items, badgeToDTO(def))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyBadges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyBadges")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	progress, err := h.badgeService.ListBadgeProgress(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list badge progress failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]badgeProgressDTO, 0, len(progress))
	for _, p := range progress {
		items = append(items, badgeProgressDTO{
			Badge:   badgeToDTO(p.Definition),
			Current: p.Current,
			Percent: p.Percent,
			Held:    p.Held,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
