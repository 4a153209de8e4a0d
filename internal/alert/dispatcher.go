package alert

import (
	"context"
	"errors"
	"time"

	"github.com/wonny/quantum-leap/backend/internal/contracts"
	"github.com/wonny/quantum-leap/backend/internal/external/telegram"
	"github.com/wonny/quantum-leap/backend/pkg/logger"
)

// Sender delivers a formatted message to the alert channel
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Dispatcher formats and sends alerts. Send failures are logged and
// swallowed — a broken alert channel must never abort a scan.
type Dispatcher struct {
	sender Sender
	logger *logger.Logger
	now    func() time.Time
}

// DispatcherOption configures the dispatcher
type DispatcherOption func(*Dispatcher)

// WithClock injects the time source (tests)
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher creates an alert dispatcher
func NewDispatcher(sender Sender, log *logger.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewsAlert sends one urgent-news message. Returns true only when the
// message actually went out.
func (d *Dispatcher) NewsAlert(ctx context.Context, item contracts.NewsItem, quote *contracts.Quote) bool {
	return d.send(ctx, FormatNewsAlert(item, quote, d.now()))
}

// Summary sends the batched signal report. No entries → no message.
func (d *Dispatcher) Summary(ctx context.Context, entries []SignalEntry) bool {
	text := FormatSummary(entries)
	if text == "" {
		return false
	}
	return d.send(ctx, text)
}

func (d *Dispatcher) send(ctx context.Context, text string) bool {
	err := d.sender.Send(ctx, text)
	if err == nil {
		return true
	}

	if errors.Is(err, telegram.ErrNotConfigured) {
		d.logger.Debug("Alert channel not configured, message dropped")
		return false
	}

	d.logger.WithError(err).Error("Alert send failed")
	return false
}
