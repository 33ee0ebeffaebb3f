package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"venue-booking/pkg/metrics"
)

// Sender delivers a message over one channel.
type Sender interface {
	Channel() string
	Accepts(msg Message) bool
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	RetryDelay  time.Duration
	SendTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 100
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 30 * time.Second
	}
	return c
}

// Dispatcher is a bounded in-memory queue drained by a fixed worker pool.
type Dispatcher struct {
	cfg     Config
	senders []Sender
	metrics *metrics.Metrics
	log     *zap.Logger

	queue chan Message
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	// cancelled when Close gives up waiting, aborting pending retries
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher starts the workers immediately.
func NewDispatcher(cfg Config, senders []Sender, m *metrics.Metrics, log *zap.Logger) *Dispatcher {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		cfg:     cfg,
		senders: senders,
		metrics: m,
		log:     log.With(zap.String("component", "notify_dispatcher")),
		queue:   make(chan Message, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// Enqueue hands msg to the workers without blocking. It reports false when
// the message was dropped because the queue is full or closed.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("Notification dropped, dispatcher closed", zap.String("kind", string(msg.Kind)))
		return false
	}

	select {
	case d.queue <- msg:
		return true
	default:
		d.metrics.NotificationDropped()
		d.log.Error("Notification dropped, queue full",
			zap.String("kind", string(msg.Kind)),
			zap.String("booking_id", msg.Booking.ID),
			zap.Int("queue_size", d.cfg.QueueSize),
		)
		return false
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
// If ctx ends first, outstanding retries are abandoned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.dispatch(msg)
	}
}

func (d *Dispatcher) dispatch(msg Message) {
	for _, sender := range d.senders {
		if !sender.Accepts(msg) {
			continue
		}
		d.deliver(sender, msg)
	}
}

func (d *Dispatcher) deliver(sender Sender, msg Message) {
	channel := sender.Channel()
	log := d.log.With(
		zap.String("channel", channel),
		zap.String("kind", string(msg.Kind)),
		zap.String("booking_id", msg.Booking.ID),
	)

	var err error
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(d.ctx, d.cfg.SendTimeout)
		err = sender.Send(ctx, msg)
		cancel()

		if err == nil {
			d.metrics.Notification(channel, string(msg.Kind), "sent")
			log.Info("Notification sent", zap.Int("attempt", attempt))
			return
		}

		log.Warn("Notification attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		if attempt < d.cfg.MaxAttempts && !d.wait(d.cfg.RetryDelay*time.Duration(attempt)) {
			err = errors.Join(err, d.ctx.Err())
			break
		}
	}

	d.metrics.Notification(channel, string(msg.Kind), "failed")
	log.Error("Notification gave up", zap.Int("max_attempts", d.cfg.MaxAttempts), zap.Error(err))
}

// wait sleeps for delay and reports false if the dispatcher was cancelled meanwhile.
func (d *Dispatcher) wait(delay time.Duration) bool {
	if delay <= 0 {
		return d.ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-d.ctx.Done():
		return false
	}
}
