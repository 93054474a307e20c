package category

import (
	"context"
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/smart-budget/internal"
	"github.com/frahmantamala/smart-budget/internal/core/ledger"
	"github.com/frahmantamala/smart-budget/internal/transport"
)

type ServiceAPI interface {
	Save(ctx context.Context, dto SaveCategoryDTO) (*Category, error)
	Update(ctx context.Context, id int64, dto SaveCategoryDTO) (*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	ListByUser(ctx context.Context, userID int64, typ *ledger.EntryType) ([]*Category, error)
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

func (h *Handler) decode(r *http.Request) (SaveCategoryDTO, *errors.AppError) {
	var dto SaveCategoryDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		return dto, appErr
	}
	if dto.UserID == 0 {
		dto.UserID = errors.UserIDFromContext(r.Context())
	}
	return dto, dto.Validate()
}

// CreateCategory handles POST /categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	dto, appErr := h.decode(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	c, err := h.Service.Save(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c.ToResponse())
}

// GetCategories handles GET /categories?user_id=&type=
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, appErr := h.QueryUserID(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	typ, appErr := h.OptionalQueryType(r, "type")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	categories, err := h.Service.ListByUser(r.Context(), userID, typ)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, c.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Categories: responses,
		Count:      len(responses),
	})
}

// GetCategory handles GET /categories/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.PathID(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	c, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c.ToResponse())
}

// UpdateCategory handles PUT /categories/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
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

	c, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c.ToResponse())
}

// DeleteCategory handles DELETE /categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
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
