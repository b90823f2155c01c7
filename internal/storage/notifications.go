package storage

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/corepath-impact/storefront-client/pkg/enums"
)

const maxNotifications = 50

// Notification is one user-visible message. IDs are ULIDs so insertion order
// survives sorting by ID.
type Notification struct {
	ID          string                 `json:"id"`
	Type        enums.NotificationType `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Timestamp   time.Time              `json:"timestamp"`
	Read        bool                   `json:"read"`
	ActionLabel string                 `json:"action_label,omitempty"`
	ActionURL   string                 `json:"action_url,omitempty"`
}

// NotificationStore is a bounded in-memory feed, newest first. It is
// deliberately volatile; stale toasts have no value after a restart.
type NotificationStore struct {
	mu            sync.RWMutex
	notifications []Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

// Add prepends a notification and returns its generated ID. The feed keeps at
// most fifty entries; the oldest fall off the end.
func (s *NotificationStore) Add(n Notification) string {
	if n.ID == "" {
		n.ID = ulid.Make().String()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append([]Notification{n}, s.notifications...)
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[:maxNotifications]
	}
	return n.ID
}

func (s *NotificationStore) List() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

func (s *NotificationStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *NotificationStore) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return
		}
	}
}

func (s *NotificationStore) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

func (s *NotificationStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
}

func (s *NotificationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}
