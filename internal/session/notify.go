package session

import (
	"sync"
	"time"
)

// Level is the severity of a notification
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a transient message for the user
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier delivers notifications to the user
type Notifier interface {
	Notify(n Notification)
}

// Queue buffers notifications until the host-side bridge drains them. The
// oldest are dropped once limit is reached.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

// NewQueue creates a queue holding at most limit notifications
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = 100
	}
	return &Queue{limit: limit}
}

func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n.Time.IsZero() {
		n.Time = time.Now()
	}
	q.items = append(q.items, n)
	if over := len(q.items) - q.limit; over > 0 {
		q.items = append([]Notification(nil), q.items[over:]...)
	}
}

// Drain returns and forgets every queued notification
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.items
	q.items = nil
	return out
}
