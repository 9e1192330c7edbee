package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrDeferred is returned by a Payer that accepts an instruction without
// settling it. The payout stays pending in the journal and is not retried.
var ErrDeferred = errors.New("payout deferred")

// Payer moves value to a recipient.
//
//go:generate mockgen -source=payer.go -destination=mock_payer_test.go -package=payout -mock_names=Payer=MockPayer
type Payer interface {
	// Pay settles one instruction. id is stable across retries so the
	// receiving side can deduplicate.
	Pay(ctx context.Context, id string, p tx.PaymentInstruction) error
}

// JournalPayer only records instructions as owed.
type JournalPayer struct {
	log *zap.Logger
}

// NewJournalPayer returns a payer that defers every instruction.
func NewJournalPayer(log *zap.Logger) *JournalPayer {
	if log == nil {
		log = zap.NewNop()
	}
	return &JournalPayer{log: log}
}

func (j *JournalPayer) Pay(_ context.Context, id string, p tx.PaymentInstruction) error {
	j.log.Info("payout owed",
		zap.String("id", id),
		zap.String("reason", string(p.Reason)),
		zap.String("to", p.To),
		zap.String("amount", p.Amount.Dec()),
	)
	return ErrDeferred
}

// WebhookPayer posts every instruction as JSON to a URL. 5xx and 429
// responses are retried; any other non-2xx status is final.
type WebhookPayer struct {
	url    string
	client *http.Client
}

type webhookBody struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
	To     string `json:"to"`
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// NewWebhookPayer creates a payer posting to url.
func NewWebhookPayer(url string, timeout time.Duration) *WebhookPayer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookPayer{url: url, client: &http.Client{Timeout: timeout}}
}

func (w *WebhookPayer) Pay(ctx context.Context, id string, p tx.PaymentInstruction) error {
	body, err := json.Marshal(webhookBody{
		ID:     id,
		Reason: string(p.Reason),
		To:     p.To,
		Token:  p.Token,
		Amount: p.Amount.Dec(),
	})
	if err != nil {
		return backoff.Permanent(fmt.Errorf("marshal payout: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", id)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post payout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("payout endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return err
	}
	return backoff.Permanent(err)
}
