package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Alerter delivers error notifications to an operational channel.
// Implemented by the mail service.
type Alerter interface {
	SendErrorAlert(ctx context.Context, subject, body string) error
}

// AlertHandler is a slog.Handler that forwards Error-level records to an
// Alerter in addition to the wrapped handler. Delivery happens in a
// goroutine so request handling is never blocked on SMTP.
type AlertHandler struct {
	inner   slog.Handler
	alerter Alerter
}

func NewAlertHandler(inner slog.Handler, alerter Alerter) *AlertHandler {
	return &AlertHandler{inner: inner, alerter: alerter}
}

func (h *AlertHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *AlertHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelError {
		var b strings.Builder
		fmt.Fprintf(&b, "Error:   %s\nTime:    %s\n\n%s\n",
			record.Level, record.Time.Format("2006-01-02 15:04:05"), record.Message)
		record.Attrs(func(attr slog.Attr) bool {
			fmt.Fprintf(&b, "%s: %v\n", attr.Key, attr.Value)
			return true
		})

		go func(subject, body string) {
			_ = h.alerter.SendErrorAlert(context.Background(), subject, body)
		}(record.Message, b.String())
	}

	return h.inner.Handle(ctx, record)
}

func (h *AlertHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AlertHandler{inner: h.inner.WithAttrs(attrs), alerter: h.alerter}
}

func (h *AlertHandler) WithGroup(name string) slog.Handler {
	return &AlertHandler{inner: h.inner.WithGroup(name), alerter: h.alerter}
}
