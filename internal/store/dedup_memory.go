package store

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-nest-keeper/models"
)

// memoryDedupLedger is the in-process implementation of [DedupLedger], used
// when no redis instance is configured. Entries expire lazily on lookup.
// Suitable for a single server process only.
type memoryDedupLedger struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]memoryDedupEntry
	now     func() time.Time
}

type memoryDedupEntry struct {
	ack       models.EventAck
	expiresAt time.Time
}

// NewMemoryDedupLedger constructs an in-process [DedupLedger] with the given
// dedup window.
func NewMemoryDedupLedger(window time.Duration) DedupLedger {
	return &memoryDedupLedger{
		window:  window,
		entries: make(map[string]memoryDedupEntry),
		now:     time.Now,
	}
}

// Lookup returns the acknowledgement recorded for the event id, if it has
// not expired.
func (l *memoryDedupLedger) Lookup(_ context.Context, eventID string) (models.EventAck, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[eventID]
	if !ok {
		return models.EventAck{}, false, nil
	}

	if l.now().After(entry.expiresAt) {
		delete(l.entries, eventID)
		return models.EventAck{}, false, nil
	}

	return entry.ack, true, nil
}

// Record stores the acknowledgement for the event id for the dedup window.
func (l *memoryDedupLedger) Record(_ context.Context, eventID string, ack models.EventAck) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[eventID] = memoryDedupEntry{
		ack:       ack,
		expiresAt: l.now().Add(l.window),
	}

	return nil
}
