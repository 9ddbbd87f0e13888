package account

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	"github.com/MrJamesThe3rd/paisa/internal/http/render"
)

type Service interface {
	List(ctx context.Context) ([]*account.Account, error)
	Create(ctx context.Context, params account.CreateParams) (*account.Account, error)
	Update(ctx context.Context, id uuid.UUID, params account.UpdateParams) (*account.Account, bool, error)
}

// Recomputer re-derives the status of an account's transactions after its type changes.
type Recomputer interface {
	RecomputeForAccount(ctx context.Context, accountID uuid.UUID) (int, error)
}

type Handler struct {
	svc        Service
	recomputer Recomputer
	logger     *zap.Logger
}

func NewHandler(svc Service, recomputer Recomputer, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, recomputer: recomputer, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{id}", h.update)
}

type accountResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      account.Type    `json:"type"`
	Purpose   account.Purpose `json:"purpose"`
	BankName  string          `json:"bank_name"`
	Last4     string          `json:"last4"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toResponse(acc *account.Account) accountResponse {
	return accountResponse{
		ID:        acc.ID,
		Name:      acc.Name,
		Type:      acc.Type,
		Purpose:   acc.Purpose,
		BankName:  acc.BankName,
		Last4:     acc.Last4,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accs, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]accountResponse, len(accs))
	for i, acc := range accs {
		resp[i] = toResponse(acc)
	}

	render.JSON(w, h.logger, http.StatusOK, resp)
}

type createAccountRequest struct {
	Name     string          `json:"name"`
	Type     account.Type    `json:"type"`
	Purpose  account.Purpose `json:"purpose"`
	BankName string          `json:"bank_name"`
	Last4    string          `json:"last4"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.BankName == "" || len(req.Last4) != 4 {
		http.Error(w, "bank_name and a 4-digit last4 are required", http.StatusBadRequest)
		return
	}

	acc, err := h.svc.Create(r.Context(), account.CreateParams{
		Name:     req.Name,
		Type:     req.Type,
		Purpose:  req.Purpose,
		BankName: req.BankName,
		Last4:    req.Last4,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	render.JSON(w, h.logger, http.StatusCreated, toResponse(acc))
}

type updateAccountRequest struct {
	Name    *string          `json:"name,omitempty"`
	Type    *account.Type    `json:"type,omitempty"`
	Purpose *account.Purpose `json:"purpose,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateAccountRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	acc, typeChanged, err := h.svc.Update(r.Context(), id, account.UpdateParams{
		Name:    req.Name,
		Type:    req.Type,
		Purpose: req.Purpose,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if typeChanged {
		n, err := h.recomputer.RecomputeForAccount(r.Context(), acc.ID)
		if err != nil {
			h.writeError(w, err)
			return
		}

		h.logger.Info("account type changed",
			zap.String("account_id", acc.ID.String()),
			zap.String("type", string(acc.Type)),
			zap.Int("transactions_updated", n),
		)
	}

	render.JSON(w, h.logger, http.StatusOK, toResponse(acc))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrNotFound):
		http.Error(w, "account not found", http.StatusNotFound)
	case errors.Is(err, account.ErrDuplicate):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, account.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("account request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
