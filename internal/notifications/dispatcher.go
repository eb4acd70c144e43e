package notifications

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher delivers mail from a bounded queue on a fixed set of workers so
// request handlers never wait on the mail provider.
type Dispatcher struct {
	mailer  Mailer
	log     *slog.Logger
	timeout time.Duration
	jobs    chan Message

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(mailer Mailer, log *slog.Logger, queueSize, workers int, timeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{
		mailer:  mailer,
		log:     log,
		timeout: timeout,
		jobs:    make(chan Message, queueSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Enqueue hands msg to the workers without blocking. It reports false when the
// queue is full or the dispatcher is shutting down; the message is dropped.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("mail dispatch: dispatcher closed, message dropped", slog.String("to", msg.To))
		return false
	}
	select {
	case d.jobs <- msg:
		return true
	default:
		d.log.Warn("mail dispatch: queue full, message dropped",
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
		)
		return false
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.jobs {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	messageID, err := d.mailer.Send(ctx, msg)
	if err != nil {
		d.log.Warn("mail dispatch: send failed",
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
			slog.String("error", err.Error()),
		)
		return
	}
	d.log.Info("mail dispatch: sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("message_id", messageID),
	)
}

// Close stops accepting messages and waits for queued ones until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
