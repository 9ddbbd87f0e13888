// Package smsimport replays SMS backup exports through the ingest pipeline.
package smsimport

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/ingest"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=smsimport

// Ingester is the part of ingest.Pipeline the importer drives.
type Ingester interface {
	IngestReceived(ctx context.Context, raw, source string, receivedAt time.Time) (*ingest.Result, error)
}

// RowError is a message the pipeline failed on.
type RowError struct {
	Row int    `json:"row"`
	Err string `json:"error"`
}

// Summary counts what happened to every message of one backup.
type Summary struct {
	Format   string                 `json:"format"`
	Messages int                    `json:"messages"`
	Outcomes map[ingest.Outcome]int `json:"outcomes"`
	Failed   []RowError             `json:"failed,omitempty"`
}

// Created is the number of new transactions.
func (s *Summary) Created() int {
	return s.Outcomes[ingest.OutcomeCreated]
}

type Service struct {
	ingester Ingester
	logger   *zap.Logger
}

func NewService(ingester Ingester, logger *zap.Logger) *Service {
	return &Service{
		ingester: ingester,
		logger:   logger,
	}
}

// Import reads a backup and ingests each incoming message in file order. A failed message is
// recorded and the import carries on; only an unreadable file or a cancelled context stop it.
// Re-importing the same backup only yields duplicates.
func (s *Service) Import(ctx context.Context, r io.Reader, source string) (*Summary, error) {
	profile, msgs, err := Read(r)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Format:   profile.Name,
		Messages: len(msgs),
		Outcomes: make(map[ingest.Outcome]int),
	}

	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("import interrupted at row %d: %w", msg.Row, err)
		}

		res, err := s.ingester.IngestReceived(ctx, msg.Body, messageSource(source, msg.Sender), msg.ReceivedAt)
		if err != nil {
			summary.Failed = append(summary.Failed, RowError{Row: msg.Row, Err: err.Error()})
			continue
		}

		summary.Outcomes[res.Outcome]++
	}

	s.logger.Info("sms backup imported",
		zap.String("source", source),
		zap.String("format", summary.Format),
		zap.Int("messages", summary.Messages),
		zap.Int("created", summary.Created()),
		zap.Int("failed", len(summary.Failed)),
	)

	return summary, nil
}

func messageSource(source, sender string) string {
	label := "import"
	if source != "" {
		label += ":" + source
	}

	if sender != "" {
		label += " (" + sender + ")"
	}

	return label
}
