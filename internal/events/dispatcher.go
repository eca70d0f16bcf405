package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/linkdao/reputation/internal/database/models"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ErrUnknownMode indicates an unrecognized dispatch mode string.
var ErrUnknownMode = errors.New("unknown dispatch mode")

// Mode selects how dispatched events reach their handlers.
type Mode int

const (
	// ModeSync delivers events inline, immediately after the originating
	// transaction commits. A handler error surfaces to the caller but cannot
	// roll the committed write back; deployments that need atomic coupling
	// between the write and the event use ModeOutbox.
	ModeSync Mode = iota
	// ModeOutbox persists events in the same transaction as the originating
	// write; the outbox worker delivers them later with retries.
	ModeOutbox
)

// ParseMode converts a config string into a dispatch mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "sync":
		return ModeSync, nil
	case "outbox":
		return ModeOutbox, nil
	default:
		return ModeSync, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Handler processes one event payload.
type Handler func(ctx context.Context, payload []byte) error

// Dispatcher fans dispatched events out to registered handlers, either
// inline or through the outbox table.
type Dispatcher struct {
	mode     Mode
	outbox   *models.EventModel
	handlers map[string][]Handler
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher. The outbox model may be nil in sync
// mode.
func NewDispatcher(mode Mode, outbox *models.EventModel, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mode:     mode,
		outbox:   outbox,
		handlers: make(map[string][]Handler),
		logger:   logger.Named("dispatcher"),
	}
}

// SetOutbox attaches the outbox model once the database connection exists.
// Required before dispatching in outbox mode.
func (d *Dispatcher) SetOutbox(outbox *models.EventModel) {
	d.outbox = outbox
}

// Register subscribes a handler to an event name.
func (d *Dispatcher) Register(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[name] = append(d.handlers[name], handler)
}

// Dispatch stages an event inside the originating transaction. In outbox
// mode the event is persisted on the given db handle (pass the transaction
// of the originating write) for later delivery; in sync mode this is a
// no-op and the caller invokes Publish after the transaction commits.
func (d *Dispatcher) Dispatch(ctx context.Context, db bun.IDB, name string, payload any) error {
	if d.mode != ModeOutbox {
		return nil
	}

	data, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", name, err)
	}

	event := &types.OutboxEvent{
		ID:      uuid.New().String(),
		Name:    name,
		Payload: data,
	}

	return d.outbox.Insert(ctx, db, event)
}

// Publish delivers an event after the originating transaction has
// committed. In sync mode handlers run inline and the first handler error
// is returned; the committed write stands either way. In outbox mode this
// is a no-op since the outbox worker delivers the staged event.
func (d *Dispatcher) Publish(ctx context.Context, name string, payload any) error {
	if d.mode != ModeSync {
		return nil
	}

	data, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", name, err)
	}

	return d.Deliver(ctx, name, data)
}

// Deliver runs the handlers registered for an event name against a payload.
// Used directly by the outbox worker.
func (d *Dispatcher) Deliver(ctx context.Context, name string, payload []byte) error {
	d.mu.RLock()
	handlers := d.handlers[name]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.logger.Debug("No handlers registered for event", zap.String("event", name))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, payload); err != nil {
			return fmt.Errorf("handler for %s failed: %w", name, err)
		}
	}

	return nil
}
