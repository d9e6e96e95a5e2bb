package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/observability"
	"github.com/spec-kit/helpdesk-client/internal/session"
	"github.com/spec-kit/helpdesk-client/internal/store"
)

// AuditWorker logs every store change at debug level.
type AuditWorker struct {
	logger *zap.Logger
}

// StartAuditWorker subscribes the worker to all store events.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) *AuditWorker {
	w := &AuditWorker{logger: observability.Named(logger, "audit")}
	if dispatcher == nil {
		return w
	}
	dispatcher.Subscribe(events.EventSessionChanged, w.handleSessionChanged)
	dispatcher.Subscribe(events.EventTicketStoreChanged, w.handleTicketStoreChanged)
	dispatcher.Subscribe(events.EventLocaleChanged, w.handleLocaleChanged)
	return w
}

func (w *AuditWorker) handleSessionChanged(_ context.Context, event events.Event) error {
	snap, ok := event.Payload.(session.Snapshot)
	if !ok {
		return nil
	}
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Bool("authenticated", snap.Authenticated),
		zap.Strings("roles", snap.Roles),
		zap.Bool("loading", snap.Loading),
	}
	if snap.User != nil {
		fields = append(fields, zap.String("user_id", snap.User.ID))
	}
	if snap.Error != "" {
		fields = append(fields, zap.String("error", snap.Error))
	}
	w.logger.Debug("SessionChanged", fields...)
	return nil
}

func (w *AuditWorker) handleTicketStoreChanged(_ context.Context, event events.Event) error {
	snap, ok := event.Payload.(store.TicketSnapshot)
	if !ok {
		return nil
	}
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Int("tickets", len(snap.Tickets)),
		zap.Int("page", snap.CurrentPage),
		zap.Int("total_pages", snap.TotalPages),
		zap.Bool("loading", snap.Loading),
	}
	if snap.Current != nil {
		fields = append(fields, zap.String("ticket_id", snap.Current.ID))
	}
	if snap.Error != "" {
		fields = append(fields, zap.String("error", snap.Error))
	}
	w.logger.Debug("TicketStoreChanged", fields...)
	return nil
}

func (w *AuditWorker) handleLocaleChanged(_ context.Context, event events.Event) error {
	locale, _ := event.Payload.(string)
	w.logger.Debug("LocaleChanged", zap.String("event_id", event.ID), zap.String("locale", locale))
	return nil
}
