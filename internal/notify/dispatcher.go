package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/paisa/internal/observability"
)

type DispatcherConfig struct {
	Workers   int
	QueueSize int
	// Timeout bounds one delivery, retries included.
	Timeout time.Duration
	// MiniAppBaseURL is where the "Open in App" button points. Empty disables the button.
	MiniAppBaseURL string
}

type job struct {
	id   uuid.UUID
	kind Kind
}

// Dispatcher delivers notifications on a fixed pool of background workers.
type Dispatcher struct {
	cfg     DispatcherConfig
	source  Source
	sender  Sender
	tokens  TokenIssuer
	logger  *zap.Logger
	metrics *observability.Metrics

	jobs   chan job
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher returns a dispatcher that queues until Run is called. tokens may be nil.
func NewDispatcher(
	cfg DispatcherConfig,
	source Source,
	sender Sender,
	tokens TokenIssuer,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return &Dispatcher{
		cfg:     cfg,
		source:  source,
		sender:  sender,
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
		jobs:    make(chan job, cfg.QueueSize),
	}
}

// Dispatch queues a notification without blocking. A full queue drops it with a warning.
func (d *Dispatcher) Dispatch(id uuid.UUID, kind Kind) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(id, "dispatcher closed")
		return
	}

	select {
	case d.jobs <- job{id: id, kind: kind}:
	default:
		d.drop(id, "queue full")
	}
}

func (d *Dispatcher) drop(id uuid.UUID, reason string) {
	d.metrics.IncrNotification("dropped")
	d.logger.Warn("dropping notification", zap.String("transaction_id", id.String()), zap.String("reason", reason))
}

// Close stops accepting notifications. Run returns once the queue is drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
}

// Run consumes the queue until Close is called and the queue is empty, or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for range d.cfg.Workers {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case j, ok := <-d.jobs:
					if !ok {
						return nil
					}

					d.deliver(ctx, j)
				}
			}
		})
	}

	return g.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	logger := d.logger.With(zap.String("transaction_id", j.id.String()))

	if err := d.send(ctx, j); err != nil {
		d.metrics.IncrNotification("failed")
		logger.Error("notification failed", zap.Error(err))

		return
	}

	d.metrics.IncrNotification("sent")
	logger.Debug("notification sent")
}

func (d *Dispatcher) send(ctx context.Context, j job) error {
	tx, err := d.source.Get(ctx, j.id)
	if err != nil {
		return fmt.Errorf("loading transaction: %w", err)
	}

	details, err := d.source.Details(ctx, tx)
	if err != nil {
		return fmt.Errorf("loading transaction details: %w", err)
	}

	msg := Message{Text: Format(details, j.kind)}

	if d.tokens != nil && d.cfg.MiniAppBaseURL != "" {
		token, err := d.tokens.Issue(tx.UniqueHash)
		if err != nil {
			return fmt.Errorf("issuing edit token: %w", err)
		}

		msg.ButtonURL = strings.TrimRight(d.cfg.MiniAppBaseURL, "/") + "/edit-transaction?token=" + url.QueryEscape(token)
	}

	messageID, err := d.sender.Send(ctx, msg)
	if err != nil {
		return err
	}

	if j.kind != KindNew {
		return nil
	}

	if err := d.source.SetChatMessageID(ctx, tx.ID, messageID); err != nil {
		return fmt.Errorf("storing chat message id: %w", err)
	}

	return nil
}
