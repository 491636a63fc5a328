// Package kiosk holds the launcher behaviour that sits directly on top of
// the preference store: the inactivity monitor that drives the screensaver
// and the admin password check.
package kiosk

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"kiosk/internal/logging"
	"kiosk/internal/prefs"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ActivityStore is the part of prefs.Store the monitor needs.
type ActivityStore interface {
	GetLastActivity(ctx context.Context) prefs.Result[int64]
	GetAdminSettings(ctx context.Context) prefs.Result[prefs.AdminSettings]
	UpdateLastActivity(ctx context.Context) prefs.Outcome
}

// EventKind is an idle-state transition.
type EventKind int

const (
	EventIdle EventKind = iota + 1
	EventActive
)

func (k EventKind) String() string {
	switch k {
	case EventIdle:
		return "idle"
	case EventActive:
		return "active"
	default:
		return "unknown"
	}
}

// Event reports a transition between active and idle.
type Event struct {
	Kind         EventKind
	At           time.Time
	LastActivity time.Time
	Timeout      time.Duration
}

// IdleFor is how long the kiosk had been untouched when the event fired.
func (e Event) IdleFor() time.Duration {
	return e.At.Sub(e.LastActivity)
}

// MonitorOptions configures a Monitor.
type MonitorOptions struct {
	// Interval between checks. Defaults to one second.
	Interval time.Duration
	// WatchPath, when set, is a storage file whose changes trigger an
	// immediate check.
	WatchPath string
	// OnEvent receives transitions on the goroutine that ran the check: the
	// monitor goroutine for ticks and storage changes, the caller for Check
	// and Touch.
	OnEvent func(Event)
	// Now overrides the clock.
	Now func() time.Time
	Logger *zap.Logger
}

// Monitor is the launcher's single UI timer. It compares the stored last
// activity against the admin inactivity timeout and reports transitions.
// A timeout of zero disables idling.
type Monitor struct {
	store     ActivityStore
	interval  time.Duration
	watchPath string
	onEvent   func(Event)
	now       func() time.Time
	log       *zap.Logger

	mu      sync.Mutex
	idle    bool
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewMonitor returns a stopped monitor over store.
func NewMonitor(store ActivityStore, opts MonitorOptions) *Monitor {
	m := &Monitor{
		store:     store,
		interval:  opts.Interval,
		watchPath: opts.WatchPath,
		onEvent:   opts.OnEvent,
		now:       opts.Now,
		log:       opts.Logger,
	}
	if m.interval <= 0 {
		m.interval = time.Second
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.log == nil {
		m.log = logging.Get(logging.CategoryMonitor)
	}
	m.doneCh = make(chan struct{})
	close(m.doneCh)
	return m
}

// Start runs an initial check and then checks on every tick and every
// relevant storage change until ctx ends or Stop is called. It does not block.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}

	var watcher *fsnotify.Watcher
	if m.watchPath != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			m.mu.Unlock()
			return err
		}
		// Watch the directory: atomic renames and sqlite -wal files replace
		// or sit beside the storage file.
		if err := w.Add(filepath.Dir(m.watchPath)); err != nil {
			w.Close()
			m.mu.Unlock()
			return err
		}
		watcher = w
	}

	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	m.log.Info("idle monitor started",
		zap.Duration("interval", m.interval),
		zap.String("watch", m.watchPath))
	go m.run(ctx, watcher, m.stopCh, m.doneCh)
	return nil
}

// Stop halts the monitor and waits for its goroutine to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	done := m.doneCh
	m.mu.Unlock()

	<-done
	m.log.Info("idle monitor stopped")
}

// Done is closed when the monitor goroutine exits. Before the first Start
// it is already closed.
func (m *Monitor) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doneCh
}

func (m *Monitor) run(ctx context.Context, watcher *fsnotify.Watcher, stop <-chan struct{}, done chan struct{}) {
	defer close(done)

	var (
		fsEvents <-chan fsnotify.Event
		fsErrors <-chan error
	)
	if watcher != nil {
		defer watcher.Close()
		fsEvents = watcher.Events
		fsErrors = watcher.Errors
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			if m.doneCh == done {
				m.running = false
			}
			m.mu.Unlock()
			return
		case <-stop:
			return
		case <-ticker.C:
			m.Check(ctx)
		case ev, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if m.relevant(ev) {
				m.log.Debug("storage changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
				m.Check(ctx)
			}
		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			m.log.Warn("storage watch error", zap.Error(err))
		}
	}
}

func (m *Monitor) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), filepath.Base(m.watchPath))
}

// Check evaluates idleness once and fires OnEvent on a transition.
// It returns the transition, if any.
func (m *Monitor) Check(ctx context.Context) (Event, bool) {
	settings := m.store.GetAdminSettings(ctx).Value
	last := time.UnixMilli(m.store.GetLastActivity(ctx).Value)
	now := m.now()
	timeout := settings.InactivityTimeout()

	idle := timeout > 0 && now.Sub(last) >= timeout

	m.mu.Lock()
	changed := idle != m.idle
	m.idle = idle
	m.mu.Unlock()

	if !changed {
		return Event{}, false
	}

	ev := Event{Kind: EventActive, At: now, LastActivity: last, Timeout: timeout}
	if idle {
		ev.Kind = EventIdle
	}
	m.log.Info("idle state changed",
		zap.Stringer("state", ev.Kind),
		zap.Duration("idle_for", ev.IdleFor()),
		zap.Duration("timeout", timeout))
	if m.onEvent != nil {
		m.onEvent(ev)
	}
	return ev, true
}

// Touch records user activity and re-checks so an idle kiosk wakes at once.
func (m *Monitor) Touch(ctx context.Context) prefs.Outcome {
	out := m.store.UpdateLastActivity(ctx)
	m.Check(ctx)
	return out
}

// IsIdle reports the state seen by the last check.
func (m *Monitor) IsIdle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idle
}
