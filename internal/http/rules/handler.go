package rules

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/category"
	"github.com/MrJamesThe3rd/paisa/internal/http/render"
	"github.com/MrJamesThe3rd/paisa/internal/rules"
)

type Service interface {
	Learn(ctx context.Context, pattern string, subcategoryID uuid.UUID) (*rules.Mapping, error)
	List(ctx context.Context) ([]*rules.Mapping, error)
}

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.learn)
}

type mappingResponse struct {
	ID            uuid.UUID `json:"id"`
	Pattern       string    `json:"pattern"`
	SubcategoryID uuid.UUID `json:"subcategory_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResponse(m *rules.Mapping) mappingResponse {
	return mappingResponse{
		ID:            m.ID,
		Pattern:       m.Pattern,
		SubcategoryID: m.SubcategoryID,
		CreatedAt:     m.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Error("listing merchant rules", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]mappingResponse, len(mappings))
	for i, m := range mappings {
		resp[i] = toResponse(m)
	}

	render.JSON(w, h.logger, http.StatusOK, resp)
}

type learnRequest struct {
	Pattern       string    `json:"pattern"`
	SubcategoryID uuid.UUID `json:"subcategory_id"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.SubcategoryID == uuid.Nil {
		http.Error(w, "pattern and subcategory_id are required", http.StatusBadRequest)
		return
	}

	m, err := h.svc.Learn(r.Context(), req.Pattern, req.SubcategoryID)
	switch {
	case errors.Is(err, rules.ErrEmptyPattern), errors.Is(err, category.ErrUnknownSubcategory):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, rules.ErrDuplicate):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("learning merchant rule", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	render.JSON(w, h.logger, http.StatusCreated, toResponse(m))
}
