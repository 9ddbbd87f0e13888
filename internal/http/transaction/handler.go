package transaction

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/http/render"
	"github.com/MrJamesThe3rd/paisa/internal/notify"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	Enrich(ctx context.Context, id uuid.UUID, params transaction.UpdateParams) (*transaction.Transaction, error)
	Details(ctx context.Context, tx *transaction.Transaction) (*transaction.Details, error)
}

type Notifier interface {
	Dispatch(id uuid.UUID, kind notify.Kind)
}

type Handler struct {
	svc      Service
	notifier Notifier
	logger   *zap.Logger
}

// NewHandler builds the handler. notifier may be nil when chat delivery is off.
func NewHandler(svc Service, notifier Notifier, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, notifier: notifier, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		status := transaction.Status(s)
		if !status.Valid() {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		filter.Status = &status
	}

	if s := q.Get("account_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid account_id", http.StatusBadRequest)
			return
		}

		filter.AccountID = &id
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("listing transactions", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	render.JSON(w, h.logger, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	d, err := h.svc.Details(r.Context(), tx)
	if err != nil {
		h.writeError(w, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, ToDetailsResponse(d))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req UpdateRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := req.Params()
	if params.Empty() {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Enrich(r.Context(), id, params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(tx.ID, notify.KindUpdated)
	}

	d, err := h.svc.Details(r.Context(), tx)
	if err != nil {
		h.writeError(w, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, ToDetailsResponse(d))
}

// WriteError maps service errors onto status codes.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrInvalidReference):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		logger.Error("transaction request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	WriteError(w, h.logger, err)
}
