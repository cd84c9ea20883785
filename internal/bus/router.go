// Package bus is an in-process publish/subscribe router. It decouples
// change detection from file processing: producers enqueue messages,
// a single consumer loop dispatches them to the handler registered for
// the message's topic. One handler per topic; the last subscription wins.
package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"drivewatch/internal/logger"
)

type Message struct {
	Topic   string
	Payload any
}

// Handler processes one message. A returned error is logged and does
// not stop the run loop.
type Handler func(ctx context.Context, payload any) error

type Router struct {
	mu       sync.Mutex
	handlers map[string]Handler
	queue    []Message
	wake     chan struct{}
}

func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]Handler),
		wake:     make(chan struct{}, 1),
	}
}

func (r *Router) Subscribe(topic string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[topic] = h
}

func (r *Router) Unsubscribe(topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, topic)
}

// Publish enqueues a message if a handler is registered for the topic.
// Without a live handler the message is dropped: the queue is a handoff
// to a listener, not a durable log.
func (r *Router) Publish(topic string, payload any) {
	r.mu.Lock()
	if _, ok := r.handlers[topic]; !ok {
		r.mu.Unlock()
		slog.Debug("dropping message without subscriber", "topic", topic)
		return
	}
	r.queue = append(r.queue, Message{Topic: topic, Payload: payload})
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Depth reports the number of queued, undispatched messages.
func (r *Router) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Run dispatches queued messages in FIFO order until ctx is cancelled.
// Handlers run one at a time; an in-flight handler finishes before the
// loop observes cancellation.
func (r *Router) Run(ctx context.Context) error {
	for {
		msg, ok := r.next(ctx)
		if !ok {
			return ctx.Err()
		}
		r.dispatch(ctx, msg)
	}
}

func (r *Router) next(ctx context.Context) (Message, bool) {
	for {
		r.mu.Lock()
		if len(r.queue) > 0 {
			msg := r.queue[0]
			r.queue = r.queue[1:]
			r.mu.Unlock()
			return msg, true
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return Message{}, false
		case <-r.wake:
		}
	}
}

func (r *Router) dispatch(ctx context.Context, msg Message) {
	r.mu.Lock()
	h, ok := r.handlers[msg.Topic]
	r.mu.Unlock()
	if !ok {
		// Subscriber went away while the message was queued.
		slog.Debug("dropping queued message without subscriber", "topic", msg.Topic)
		return
	}

	ctx = logger.WithCorrelationID(ctx, "")

	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "handler panicked", "topic", msg.Topic, "panic", fmt.Sprintf("%v", rec))
		}
	}()

	if err := h(ctx, msg.Payload); err != nil {
		slog.ErrorContext(ctx, "handler failed", "topic", msg.Topic, "error", err)
	}
}
