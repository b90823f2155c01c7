package notify

import (
	"context"
	"sync"

	"github.com/corepath-impact/storefront-client/pkg/enums"
)

// Recorded is one captured notification.
type Recorded struct {
	Type    enums.NotificationType
	Title   string
	Message string
}

// Recorder is the Notifier test double used across service tests.
type Recorder struct {
	mu       sync.Mutex
	Recorded []Recorded
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Success(_ context.Context, title, message string) {
	r.record(enums.NotificationSuccess, title, message)
}

func (r *Recorder) Error(_ context.Context, title, message string) {
	r.record(enums.NotificationError, title, message)
}

func (r *Recorder) Warning(_ context.Context, title, message string) {
	r.record(enums.NotificationWarning, title, message)
}

func (r *Recorder) Info(_ context.Context, title, message string) {
	r.record(enums.NotificationInfo, title, message)
}

func (r *Recorder) record(kind enums.NotificationType, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Recorded = append(r.Recorded, Recorded{Type: kind, Title: title, Message: message})
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Recorded, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Recorded) == 0 {
		return Recorded{}, false
	}
	return r.Recorded[len(r.Recorded)-1], true
}

// CountOf returns how many notifications of the given type were recorded.
func (r *Recorder) CountOf(kind enums.NotificationType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, rec := range r.Recorded {
		if rec.Type == kind {
			count++
		}
	}
	return count
}
