package summary

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/smart-budget/internal/transport"
)

type ServiceAPI interface {
	ComputeSummary(ctx context.Context, userID int64, start, end time.Time) (*Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// GetSummary handles GET /transactions/summary?user_id=&start_date=&end_date=
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, appErr := h.QueryUserID(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	start, appErr := h.QueryDate(r, "start_date")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	end, appErr := h.QueryDate(r, "end_date")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	s, err := h.Service.ComputeSummary(r.Context(), userID, start.Time, end.Time)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, s.ToResponse())
}
