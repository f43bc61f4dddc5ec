package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalConfig configures the in-process notifier.
type LocalConfig struct {
	// PollInterval is how often pending triggers are checked for due
	// ones. Defaults to one second.
	PollInterval time.Duration

	// DenyPermission makes RequestPermission report a denied grant,
	// mirroring a user who declined the platform prompt.
	DenyPermission bool
}

type pendingTrigger struct {
	at      time.Time
	payload Payload
}

// Local is an in-process Notifier. Pending triggers live in memory and a
// polling loop fires the due ones, in the same way the platform scheduler
// would deliver them.
type Local struct {
	cfg    LocalConfig
	logger *zap.Logger

	mu       sync.Mutex
	pending  map[string]pendingTrigger
	channels map[string]ChannelConfig
	subs     []func(Delivery)

	quit chan struct{}
	done chan struct{}
}

// NewLocal creates a local notifier. Call Start to begin delivering.
func NewLocal(cfg LocalConfig, logger *zap.Logger) *Local {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Local{
		cfg:      cfg,
		logger:   logger,
		pending:  make(map[string]pendingTrigger),
		channels: make(map[string]ChannelConfig),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the polling loop in a background goroutine.
func (l *Local) Start() {
	go l.run()
}

// Stop halts the polling loop. Pending triggers are dropped.
func (l *Local) Stop() {
	close(l.quit)
	<-l.done
}

func (l *Local) run() {
	defer close(l.done)

	ticker := time.NewTicker(l.cfg.PollInterval)
	defer ticker.Stop()

	l.logger.Info("Local notifier started",
		zap.Duration("poll_interval", l.cfg.PollInterval))

	// Initial poll so triggers already due fire without waiting a tick
	l.fireDue(time.Now())

	for {
		select {
		case now := <-ticker.C:
			l.fireDue(now)
		case <-l.quit:
			l.logger.Info("Local notifier stopping")
			return
		}
	}
}

func (l *Local) fireDue(now time.Time) {
	l.mu.Lock()
	var due []Delivery
	for id, p := range l.pending {
		if !p.at.After(now) {
			due = append(due, Delivery{ReminderID: id, FiredAt: now, Payload: p.payload})
			delete(l.pending, id)
		}
	}
	subs := make([]func(Delivery), len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	for _, d := range due {
		l.logger.Info("Reminder fired",
			zap.String("reminder_id", d.ReminderID),
			zap.String("task_id", d.Payload.Data.TaskID))
		for _, fn := range subs {
			fn(d)
		}
	}
}

// RequestPermission reports the configured grant state.
func (l *Local) RequestPermission(context.Context) (bool, error) {
	return !l.cfg.DenyPermission, nil
}

// EnsureChannel registers the channel and returns its id.
func (l *Local) EnsureChannel(_ context.Context, cfg ChannelConfig) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.channels[cfg.ID] = cfg
	return cfg.ID, nil
}

// ScheduleAt registers a one-shot trigger and returns its id.
func (l *Local) ScheduleAt(_ context.Context, at time.Time, p Payload) (string, error) {
	id := uuid.New().String()

	l.mu.Lock()
	l.pending[id] = pendingTrigger{at: at, payload: p}
	l.mu.Unlock()

	l.logger.Debug("Reminder scheduled",
		zap.String("reminder_id", id),
		zap.Time("at", at),
		zap.String("task_id", p.Data.TaskID))
	return id, nil
}

// Cancel removes a pending trigger; unknown ids are a no-op.
func (l *Local) Cancel(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.pending, id)
	return nil
}

// OnDelivered registers a delivery callback.
func (l *Local) OnDelivered(fn func(Delivery)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.subs = append(l.subs, fn)
}

// PendingCount reports the number of triggers not yet fired.
func (l *Local) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.pending)
}
