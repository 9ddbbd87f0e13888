// Package miniapp serves the chat mini-app. Every route is scoped to the single
// transaction whose hash the bearer token grants.
package miniapp

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/auth"
	"github.com/MrJamesThe3rd/paisa/internal/http/render"
	httptx "github.com/MrJamesThe3rd/paisa/internal/http/transaction"
	"github.com/MrJamesThe3rd/paisa/internal/notify"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

type Service interface {
	FindByHash(ctx context.Context, hash string) (*transaction.Transaction, error)
	EnrichByHash(ctx context.Context, hash string, params transaction.UpdateParams) (*transaction.Transaction, error)
	Details(ctx context.Context, tx *transaction.Transaction) (*transaction.Details, error)
}

type Handler struct {
	svc      Service
	notifier httptx.Notifier
	logger   *zap.Logger
}

// NewHandler builds the handler. notifier may be nil when chat delivery is off.
func NewHandler(svc Service, notifier httptx.Notifier, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, notifier: notifier, logger: logger}
}

// Routes must be mounted behind auth.RequireToken.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/transaction", h.get)
	r.Patch("/transaction", h.update)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	hash, ok := auth.TxnHash(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)
		return
	}

	tx, err := h.svc.FindByHash(r.Context(), hash)
	if err != nil {
		httptx.WriteError(w, h.logger, err)
		return
	}

	h.respond(w, r, tx)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	hash, ok := auth.TxnHash(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)
		return
	}

	var req httptx.UpdateRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := req.Params()
	if params.Empty() {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.EnrichByHash(r.Context(), hash, params)
	if err != nil {
		httptx.WriteError(w, h.logger, err)
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(tx.ID, notify.KindUpdated)
	}

	h.respond(w, r, tx)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, tx *transaction.Transaction) {
	d, err := h.svc.Details(r.Context(), tx)
	if err != nil {
		httptx.WriteError(w, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, httptx.ToDetailsResponse(d))
}
