package i18n

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/persistence"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "ko"},
		{"ko", "ko"},
		{"ko-KR", "ko"},
		{"en", "en"},
		{"en-US", "en"},
		{"en-GB", "en"},
		{"fr-CA, en;q=0.8", "en"},
		{"de", "ko"},
		{"!!!", "ko"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLocales_PersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	kv := persistence.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()

	var published []string
	dispatcher.Subscribe(events.EventLocaleChanged, func(_ context.Context, e events.Event) error {
		published = append(published, e.Payload.(string))
		return nil
	})

	l, err := NewLocales(ctx, kv, dispatcher, "")
	if err != nil {
		t.Fatalf("NewLocales: %v", err)
	}
	if l.Get() != "ko" {
		t.Errorf("default locale = %q", l.Get())
	}

	got, err := l.Set(ctx, "en-US")
	if err != nil || got != "en" {
		t.Fatalf("Set = %q, %v", got, err)
	}
	if stored, _, _ := kv.Get(ctx, persistence.KeyLocale); stored != "en" {
		t.Errorf("stored locale = %q", stored)
	}
	if len(published) != 1 || published[0] != "en" {
		t.Errorf("published = %v", published)
	}

	reloaded, err := NewLocales(ctx, kv, nil, "")
	if err != nil {
		t.Fatalf("NewLocales: %v", err)
	}
	if reloaded.Get() != "en" {
		t.Errorf("reloaded locale = %q", reloaded.Get())
	}
}

func TestSupported(t *testing.T) {
	got := Supported()
	if len(got) != 2 || got[0] != "ko" || got[1] != "en" {
		t.Errorf("Supported = %v", got)
	}
}

func TestNewLocales_Fallback(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		stored   string
		fallback string
		want     string
	}{
		{"configured english", "", "en", "en"},
		{"configured region", "", "en-GB", "en"},
		{"unsupported fallback", "", "de", "ko"},
		{"empty fallback", "", "", "ko"},
		{"stored wins", "ko", "en", "ko"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := persistence.NewMemoryStore()
			if tt.stored != "" {
				if err := kv.Set(ctx, persistence.KeyLocale, tt.stored); err != nil {
					t.Fatalf("Set: %v", err)
				}
			}
			l, err := NewLocales(ctx, kv, nil, tt.fallback)
			if err != nil {
				t.Fatalf("NewLocales: %v", err)
			}
			if got := l.Get(); got != tt.want {
				t.Errorf("Get = %q, want %q", got, tt.want)
			}
		})
	}
}
