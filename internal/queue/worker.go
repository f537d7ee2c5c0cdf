// Package queue contains the background worker that renders ticket
// documents for purchase.confirmed messages.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/thereceipt/ticket-engine/internal/assembler"
	"github.com/thereceipt/ticket-engine/internal/registry"
	"github.com/thereceipt/ticket-engine/pkg/ticketformat"
)

// DefaultQueue is the queue the worker consumes by default
const DefaultQueue = "purchase.confirmed"

// ErrMalformed marks messages that can never be processed
var ErrMalformed = errors.New("malformed message")

// Config configures a Worker
type Config struct {
	URL       string
	Queue     string
	Prefetch  int
	OutputDir string
}

// Worker consumes purchases and writes one PDF per purchase
type Worker struct {
	cfg        Config
	assembler  *assembler.Assembler
	registry   *registry.Registry
	onRendered func(*registry.Entry)
	logger     *log.Logger
	now        func() time.Time
}

// Option configures a Worker
type Option func(*Worker)

// WithRegistry records every written document
func WithRegistry(reg *registry.Registry) Option {
	return func(w *Worker) { w.registry = reg }
}

// OnRendered is called after a document was written and recorded
func OnRendered(fn func(*registry.Entry)) Option {
	return func(w *Worker) { w.onRendered = fn }
}

// WithLogger sets the worker logger
func WithLogger(l *log.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker creates a worker
func NewWorker(cfg Config, asm *assembler.Assembler, opts ...Option) *Worker {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 4
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	w := &Worker{
		cfg:       cfg,
		assembler: asm,
		logger:    log.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run connects to the broker and consumes until ctx is cancelled. Lost
// connections are retried with exponential backoff.
func (w *Worker) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(w.cfg.URL)
		if err != nil {
			w.logger.Printf("render-worker: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = w.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.logger.Printf("render-worker: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (w *Worker) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(w.cfg.Prefetch, 0, false); err != nil {
		w.logger.Printf("render-worker: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(w.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(w.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			w.deliver(d)
		}
	}
}

func (w *Worker) deliver(d amqp.Delivery) {
	_, err := w.Handle(d.Body)
	if err == nil {
		_ = d.Ack(false)
		return
	}

	requeue := Requeue(err, d.Redelivered)
	w.logger.Printf("render-worker: handle message failed (requeue=%t): %v", requeue, err)
	_ = d.Nack(false, requeue)
}

// Requeue decides whether a failed message goes back on the queue.
// Malformed messages never do; render failures get one more attempt.
func Requeue(err error, redelivered bool) bool {
	if errors.Is(err, ErrMalformed) {
		return false
	}
	return !redelivered
}

// Handle renders one message body and writes the document. The returned
// entry is nil when no registry is configured.
func (w *Worker) Handle(body []byte) (*registry.Entry, error) {
	p, err := ticketformat.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	name, err := FileName(p.Reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc, err := w.assembler.Assemble(p.Tickets, *p)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", p.Reference, err)
	}

	if err := os.MkdirAll(w.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir output: %w", err)
	}
	path := filepath.Join(w.cfg.OutputDir, name)
	if err := writeFileAtomic(path, doc.Bytes); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	w.logger.Printf("render-worker: wrote %s (%d pages)", path, doc.Pages)

	if w.registry == nil {
		return nil, nil
	}

	entry, err := w.registry.Record(registry.Document{
		ID:        doc.ID,
		Reference: p.Reference,
		Email:     p.Email,
		Path:      path,
		Pages:     doc.Pages,
		Bytes:     doc.Bytes,
	}, w.now())
	if err != nil {
		return nil, err
	}

	if w.onRendered != nil {
		w.onRendered(entry)
	}
	return entry, nil
}

// FileName maps a purchase reference to a safe file name
func FileName(reference string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(reference) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "", fmt.Errorf("reference %q has no usable characters", reference)
	}
	return name + ".pdf", nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
