package view

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level is a toast severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Toast is a transient message shown to the user.
type Toast struct {
	Level   Level
	Message string
	At      time.Time
}

// Notifier collects toasts until the front-end drains them.
type Notifier struct {
	mu     sync.Mutex
	toasts []Toast
	max    int
	now    func() time.Time
	log    *zap.Logger
}

// NewNotifier keeps at most max pending toasts, dropping the oldest.
func NewNotifier(max int, log *zap.Logger) *Notifier {
	if max <= 0 {
		max = 20
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{max: max, now: time.Now, log: log}
}

func (n *Notifier) Notify(level Level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, Toast{Level: level, Message: msg, At: n.now()})
	if len(n.toasts) > n.max {
		n.toasts = n.toasts[len(n.toasts)-n.max:]
	}
	n.log.Debug("toast", zap.String("level", string(level)), zap.String("message", msg))
}

func (n *Notifier) Info(msg string)    { n.Notify(LevelInfo, msg) }
func (n *Notifier) Success(msg string) { n.Notify(LevelSuccess, msg) }
func (n *Notifier) Warning(msg string) { n.Notify(LevelWarning, msg) }
func (n *Notifier) Error(msg string)   { n.Notify(LevelError, msg) }

// Drain returns and clears the pending toasts.
func (n *Notifier) Drain() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.toasts
	n.toasts = nil
	return out
}

// Last returns the newest pending toast.
func (n *Notifier) Last() (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return Toast{}, false
	}
	return n.toasts[len(n.toasts)-1], true
}
