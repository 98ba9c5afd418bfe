// Package signal cancels in-flight generation when the user interrupts forge.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler owns a context that is canceled on the first SIGINT or SIGTERM.
// Role calls started under that context observe the cancellation through the
// transport, so an interrupted run stops issuing provider requests.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	sigChan     chan os.Signal
	onInterrupt func()
	fireOnce    sync.Once
	stopOnce    sync.Once
}

// Option configures a Handler.
type Option func(*Handler)

// WithOnInterrupt registers fn to run once, right after the context is canceled
// by a signal. It is not called when Stop cancels the context.
func WithOnInterrupt(fn func()) Option {
	return func(h *Handler) {
		h.onInterrupt = fn
	}
}

// NewHandler starts listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	outcome, err := pipeline.Handle(h.Context(), turn)
func NewHandler(parent context.Context, opts ...Option) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		sigChan:     make(chan os.Signal, 1),
	}
	for _, opt := range opts {
		opt(h)
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled on interrupt or Stop.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// WasInterrupted reports whether a signal has been received.
func (h *Handler) WasInterrupted() bool {
	select {
	case <-h.interrupted:
		return true
	default:
		return false
	}
}

// Stop releases the signal subscription and cancels the context. It is idempotent.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

// fire cancels the context and closes the interrupted channel. Only the first
// call has any effect.
func (h *Handler) fire() {
	h.fireOnce.Do(func() {
		h.cancel()
		close(h.interrupted)
		if h.onInterrupt != nil {
			h.onInterrupt()
		}
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case <-h.sigChan:
			// Later signals are drained and ignored.
			h.fire()
		}
	}
}
