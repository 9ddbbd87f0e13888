package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrJamesThe3rd/paisa/internal/resilience"
)

var tracer = otel.Tracer("notify")

const openInAppText = "📲 Open in App"

// Telegram sends messages through the Bot API.
type Telegram struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	chatID     string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

func NewTelegram(
	httpClient *http.Client,
	baseURL, botToken, chatID string,
	cb *gobreaker.CircuitBreaker,
	cfg resilience.Config,
) *Telegram {
	return &Telegram{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		botToken:   botToken,
		chatID:     chatID,
		cb:         cb,
		cfg:        cfg,
	}
}

type webApp struct {
	URL string `json:"url"`
}

type inlineButton struct {
	Text   string `json:"text"`
	WebApp webApp `json:"web_app"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID      string       `json:"chat_id"`
	Text        string       `json:"text"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Send posts msg to the configured chat and returns its message id.
// Client errors other than 429 are not retried.
func (t *Telegram) Send(ctx context.Context, msg Message) (int64, error) {
	ctx, span := tracer.Start(ctx, "Telegram.Send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	reqBody := sendMessageRequest{ChatID: t.chatID, Text: msg.Text}
	if msg.ButtonURL != "" {
		reqBody.ReplyMarkup = &replyMarkup{InlineKeyboard: [][]inlineButton{
			{{Text: openInAppText, WebApp: webApp{URL: msg.ButtonURL}}},
		}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("encoding message: %w", err)
	}

	var messageID int64

	_, err = t.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, t.cfg, func() error {
			id, err := t.post(ctx, payload)
			if err != nil {
				return err
			}

			messageID = id

			return nil
		})
	})
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("sending telegram message: %w", err)
	}

	span.SetAttributes(attribute.Int64("telegram.message_id", messageID))

	return messageID, nil
}

func (t *Telegram) post(ctx context.Context, payload []byte) (int64, error) {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, &resilience.Permanent{Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var body sendMessageResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("telegram returned status %d: %s", resp.StatusCode, body.Description)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return 0, &resilience.Permanent{Err: err}
		}

		return 0, err
	}

	if decodeErr != nil {
		return 0, fmt.Errorf("decoding telegram response: %w", decodeErr)
	}

	if !body.OK {
		return 0, &resilience.Permanent{Err: errors.New("telegram rejected message: " + body.Description)}
	}

	return body.Result.MessageID, nil
}
