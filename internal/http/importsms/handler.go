package importsms

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/http/render"
	"github.com/MrJamesThe3rd/paisa/internal/smsimport"
)

const maxUploadBytes = 32 << 20

type Importer interface {
	Import(ctx context.Context, r io.Reader, source string) (*smsimport.Summary, error)
}

type Handler struct {
	importer Importer
	logger   *zap.Logger
}

func NewHandler(importer Importer, logger *zap.Logger) *Handler {
	return &Handler{importer: importer, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importBackup)
}

// importBackup takes a multipart "file" field holding an SMS backup CSV and an optional "source" label.
func (h *Handler) importBackup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	summary, err := h.importer.Import(r.Context(), file, r.FormValue("source"))
	switch {
	case errors.Is(err, smsimport.ErrUnknownFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("importing sms backup", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	render.JSON(w, h.logger, http.StatusOK, summary)
}
