package notify

import (
	"log/slog"
	"sync"
)

// LogSink writes notifications to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

// Deliver logs the notification at info level.
func (s LogSink) Deliver(n Notification) error {
	if s.Logger == nil {
		return nil
	}
	s.Logger.Info(n.Message, "event", n.Event, "data", n.Data)
	return nil
}

// MemorySink collects notifications in memory, mainly for tests and the TUI.
type MemorySink struct {
	mu            sync.Mutex
	notifications []Notification
}

// Deliver appends the notification.
func (s *MemorySink) Deliver(n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

// Notifications returns a copy of the collected notifications.
func (s *MemorySink) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Reset discards collected notifications.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}
