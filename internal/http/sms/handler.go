package sms

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/encoding"
	"github.com/MrJamesThe3rd/paisa/internal/http/render"
	httptx "github.com/MrJamesThe3rd/paisa/internal/http/transaction"
	"github.com/MrJamesThe3rd/paisa/internal/ingest"
)

const maxBodyBytes = 64 << 10

type Ingester interface {
	Ingest(ctx context.Context, raw, source string) (*ingest.Result, error)
}

type Handler struct {
	ingester Ingester
	logger   *zap.Logger
}

func NewHandler(ingester Ingester, logger *zap.Logger) *Handler {
	return &Handler{ingester: ingester, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.receive)
}

type smsRequest struct {
	SMSContent string `json:"sms_content"`
}

type smsResponse struct {
	Outcome          ingest.Outcome   `json:"outcome"`
	Parser           string           `json:"parser,omitempty"`
	AmbiguousAccount bool             `json:"ambiguous_account,omitempty"`
	Transaction      *httptx.Response `json:"transaction,omitempty"`
}

// receive accepts {"sms_content": "..."} or a text/plain body.
func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	content, err := readContent(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(content) == "" {
		http.Error(w, "sms_content is required", http.StatusBadRequest)
		return
	}

	res, err := h.ingester.Ingest(r.Context(), content, "api")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := smsResponse{
		Outcome:          res.Outcome,
		Parser:           res.Parser,
		AmbiguousAccount: res.AmbiguousAccount,
	}

	if res.Transaction != nil {
		resp.Transaction = new(httptx.ToResponse(res.Transaction))
	}

	status := http.StatusUnprocessableEntity

	switch res.Outcome {
	case ingest.OutcomeCreated:
		status = http.StatusCreated
	case ingest.OutcomeDuplicate:
		status = http.StatusOK
	}

	render.JSON(w, h.logger, status, resp)
}

func readContent(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "text/plain" {
		text, _, err := encoding.DecodeText(r.Body)
		return text, err
	}

	var req smsRequest
	if err := render.Decode(r, &req); err != nil {
		return "", err
	}

	return req.SMSContent, nil
}
