package worker

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/session"
	"github.com/spec-kit/helpdesk-client/internal/store"
)

func TestAuditWorker_LogsChanges(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, zap.New(core))

	ctx := context.Background()
	_ = dispatcher.Publish(ctx, events.NewEvent(events.EventSessionChanged, session.Snapshot{
		User:          &domain.UserInfo{ID: "u-1"},
		AccessToken:   "secret-token",
		Authenticated: true,
	}))
	_ = dispatcher.Publish(ctx, events.NewEvent(events.EventTicketStoreChanged, store.TicketSnapshot{
		Tickets:     []domain.TicketSummary{{ID: "a"}},
		CurrentPage: 1,
		Error:       "ticket not found",
	}))
	_ = dispatcher.Publish(ctx, events.NewEvent(events.EventLocaleChanged, "en"))

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("log entries = %d, want 3", len(entries))
	}
	wantMsgs := []string{"SessionChanged", "TicketStoreChanged", "LocaleChanged"}
	for i, e := range entries {
		if e.Message != wantMsgs[i] {
			t.Errorf("entry %d message = %q, want %q", i, e.Message, wantMsgs[i])
		}
		for _, f := range e.Context {
			if strings.Contains(f.String, "secret-token") {
				t.Errorf("access token leaked into field %s", f.Key)
			}
		}
	}
	if got := entries[0].ContextMap()["user_id"]; got != "u-1" {
		t.Errorf("user_id = %v", got)
	}
	if got := entries[1].ContextMap()["error"]; got != "ticket not found" {
		t.Errorf("error = %v", got)
	}
}

func TestStartAuditWorker_NilDispatcher(t *testing.T) {
	if StartAuditWorker(nil, nil) == nil {
		t.Fatal("worker should still be returned")
	}
}
