// Package i18n tracks the active UI locale.
package i18n

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/text/language"

	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/persistence"
)

// Supported locales. The first entry is the fallback.
var supported = []language.Tag{language.Korean, language.English}

var matcher = language.NewMatcher(supported)

// Locales holds the active locale and persists changes under persistence.KeyLocale.
type Locales struct {
	mu         sync.RWMutex
	current    string
	kv         persistence.KeyValueStore
	dispatcher events.Dispatcher
}

// NewLocales loads the persisted locale. When none is stored, fallback is
// matched against the supported locales; an empty fallback selects Korean.
func NewLocales(ctx context.Context, kv persistence.KeyValueStore, dispatcher events.Dispatcher, fallback string) (*Locales, error) {
	l := &Locales{current: Normalize(fallback), kv: kv, dispatcher: dispatcher}
	if kv == nil {
		return l, nil
	}
	stored, ok, err := kv.Get(ctx, persistence.KeyLocale)
	if err != nil {
		return nil, fmt.Errorf("load locale: %w", err)
	}
	if ok {
		l.current = Normalize(stored)
	}
	return l, nil
}

// Get returns the active locale code, "ko" or "en".
func (l *Locales) Get() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Set matches tag against the supported locales, persists the result and
// publishes locale_changed. It returns the locale actually selected.
func (l *Locales) Set(ctx context.Context, tag string) (string, error) {
	code := Normalize(tag)

	l.mu.Lock()
	l.current = code
	l.mu.Unlock()

	if l.kv != nil {
		if err := l.kv.Set(ctx, persistence.KeyLocale, code); err != nil {
			return code, fmt.Errorf("persist locale: %w", err)
		}
	}
	if l.dispatcher != nil {
		if err := l.dispatcher.Publish(ctx, events.NewEvent(events.EventLocaleChanged, code)); err != nil {
			return code, err
		}
	}
	return code, nil
}

// Supported lists the selectable locale codes.
func Supported() []string {
	out := make([]string, 0, len(supported))
	for _, t := range supported {
		out = append(out, t.String())
	}
	return out
}

// Normalize maps any BCP 47 tag, or a comma separated Accept-Language list,
// onto a supported locale code.
func Normalize(tag string) string {
	if tag == "" {
		return supported[0].String()
	}
	desired, _, err := language.ParseAcceptLanguage(tag)
	if err != nil || len(desired) == 0 {
		return supported[0].String()
	}
	_, idx, conf := matcher.Match(desired...)
	if conf == language.No {
		return supported[0].String()
	}
	return supported[idx].String()
}
