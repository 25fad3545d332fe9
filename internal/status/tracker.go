package status

import (
	"sync"
	"sync/atomic"

	"github.com/mr1hm/go-air-alerts/internal/models"
)

const subscriberBuffer = 16

// Tracker keeps the most recent cycle reports and fans new ones out to
// subscribers.
type Tracker struct {
	mu          sync.RWMutex
	history     []models.CycleReport
	capacity    int
	subscribers map[uint64]chan models.CycleReport
	nextID      atomic.Uint64
}

func NewTracker(capacity int) *Tracker {
	if capacity < 1 {
		capacity = 1
	}
	return &Tracker{
		capacity:    capacity,
		subscribers: make(map[uint64]chan models.CycleReport),
	}
}

// Record stores r and delivers it to every subscriber with room in its buffer.
func (t *Tracker) Record(r models.CycleReport) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = append(t.history, r)
	if len(t.history) > t.capacity {
		t.history = t.history[len(t.history)-t.capacity:]
	}

	for _, ch := range t.subscribers {
		select {
		case ch <- r:
		default:
			// Skip slow subscribers
		}
	}
}

// Latest returns the newest report.
func (t *Tracker) Latest() (models.CycleReport, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.history) == 0 {
		return models.CycleReport{}, false
	}
	return t.history[len(t.history)-1], true
}

// Recent returns up to limit reports, newest first.
func (t *Tracker) Recent(limit int) []models.CycleReport {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if limit <= 0 || limit > len(t.history) {
		limit = len(t.history)
	}
	out := make([]models.CycleReport, 0, limit)
	for i := len(t.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, t.history[i])
	}
	return out
}

func (t *Tracker) Subscribe() (uint64, <-chan models.CycleReport) {
	id := t.nextID.Add(1)
	ch := make(chan models.CycleReport, subscriberBuffer)

	t.mu.Lock()
	t.subscribers[id] = ch
	t.mu.Unlock()

	return id, ch
}

func (t *Tracker) Unsubscribe(id uint64) {
	t.mu.Lock()
	if ch, ok := t.subscribers[id]; ok {
		close(ch)
		delete(t.subscribers, id)
	}
	t.mu.Unlock()
}

func (t *Tracker) SubscriberCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subscribers)
}

// Close closes all subscriber channels so streams exit.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, ch := range t.subscribers {
		close(ch)
		delete(t.subscribers, id)
	}
}
