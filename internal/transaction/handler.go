package transaction

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/transport"
)

const maxPageSize = 500

type ServiceAPI interface {
	Save(ctx context.Context, dto SaveTransactionDTO) (*Transaction, error)
	Update(ctx context.Context, id int64, dto SaveTransactionDTO) (*Transaction, error)
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	ListByUser(ctx context.Context, userID int64) ([]*Transaction, error)
	ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*Transaction, error)
	List(ctx context.Context, f Filter) ([]*Transaction, error)
	Delete(ctx context.Context, id int64) error
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

func (h *Handler) decode(r *http.Request) (SaveTransactionDTO, *errors.AppError) {
	var dto SaveTransactionDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		return dto, appErr
	}
	if dto.UserID == 0 {
		dto.UserID = errors.UserIDFromContext(r.Context())
	}
	return dto, dto.Validate()
}

// CreateTransaction handles POST /transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	dto, appErr := h.decode(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	t, err := h.Service.Save(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, t.ToResponse())
}

// GetTransactions handles GET /transactions?user_id=
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, appErr := h.QueryUserID(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var transactions []*Transaction
	var err error
	if limit, offset := pagination(r); limit > 0 || offset > 0 {
		transactions, err = h.Service.List(r.Context(), Filter{UserID: userID, Limit: limit, Offset: offset})
	} else {
		transactions, err = h.Service.ListByUser(r.Context(), userID)
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.writeList(w, transactions)
}

// GetTransactionsInRange handles
// GET /transactions/range?user_id=&start_date=&end_date=[&type=&category_id=]
func (h *Handler) GetTransactionsInRange(w http.ResponseWriter, r *http.Request) {
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
	typ, appErr := h.OptionalQueryType(r, "type")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	categoryID, appErr := h.OptionalQueryInt64(r, "category_id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var (
		transactions []*Transaction
		err          error
	)
	if typ == nil && categoryID == nil {
		transactions, err = h.Service.ListByUserAndDateRange(r.Context(), userID, start.Time, end.Time)
	} else {
		transactions, err = h.Service.List(r.Context(), Filter{
			UserID:     userID,
			Start:      start.Time,
			End:        end.Time,
			Type:       typ,
			CategoryID: categoryID,
		})
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.writeList(w, transactions)
}

// GetTransaction handles GET /transactions/{id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.PathID(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	t, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t.ToResponse())
}

// UpdateTransaction handles PUT /transactions/{id}
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.PathID(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	dto, appErr := h.decode(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	t, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t.ToResponse())
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.PathID(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeList(w http.ResponseWriter, transactions []*Transaction) {
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, t.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, TransactionsResponse{
		Transactions: responses,
		Count:        len(responses),
	})
}

// pagination reads optional limit/offset. Without a limit every row after offset is returned.
func pagination(r *http.Request) (limit, offset int) {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= maxPageSize {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}
