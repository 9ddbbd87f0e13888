package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/category"
	"github.com/MrJamesThe3rd/paisa/internal/http/render"
)

type Handler struct {
	taxonomy *category.Taxonomy
	logger   *zap.Logger
}

func NewHandler(taxonomy *category.Taxonomy, logger *zap.Logger) *Handler {
	return &Handler{taxonomy: taxonomy, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.tree)
}

type subcategoryResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Path              string    `json:"path"`
	IsReimbursable    bool      `json:"is_reimbursable"`
	ExcludeFromBudget bool      `json:"exclude_from_budget"`
}

type categoryResponse struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Subcategories []subcategoryResponse `json:"subcategories"`
}

func (h *Handler) tree(w http.ResponseWriter, _ *http.Request) {
	cats := h.taxonomy.Categories()
	resp := make([]categoryResponse, 0, len(cats))

	for _, c := range cats {
		cr := categoryResponse{
			ID:            c.ID,
			Name:          c.Name,
			Subcategories: make([]subcategoryResponse, 0, len(c.Subcategories)),
		}

		for _, s := range c.Subcategories {
			cr.Subcategories = append(cr.Subcategories, subcategoryResponse{
				ID:                s.ID,
				Name:              s.Name,
				Path:              s.Path(),
				IsReimbursable:    s.IsReimbursable,
				ExcludeFromBudget: s.ExcludeFromBudget,
			})
		}

		resp = append(resp, cr)
	}

	render.JSON(w, h.logger, http.StatusOK, resp)
}
