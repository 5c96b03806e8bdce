package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	ws "quizhub/pkg/http/ws"
)

// Sweeper periodically evicts idle sessions from the manager and
// disconnects their observers.
type Sweeper struct {
	manager  *Manager
	hub      *ws.Hub
	interval time.Duration
	logger   zerolog.Logger
}

func NewSweeper(manager *Manager, hub *ws.Hub, interval time.Duration, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{
		manager:  manager,
		hub:      hub,
		interval: interval,
		logger:   logger.With().Str("component", "session_sweeper").Logger(),
	}
}

// Run blocks until context cancellation.
func (w *Sweeper) Run(ctx context.Context) error {
	if w.manager == nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// run immediately
	w.sweep()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *Sweeper) sweep() {
	for _, id := range w.manager.Sweep(time.Now()) {
		w.closeObservers(id)
	}
}

// closeObservers tells watchers why their stream ended, matching the
// explicit-delete path.
func (w *Sweeper) closeObservers(id uuid.UUID) {
	if w.hub == nil {
		return
	}
	msg, err := ws.NewMessage(ws.TypeSessionClosed, ws.SessionClosedPayload{
		SessionID: id.String(),
		Reason:    "session expired",
	})
	if err != nil {
		return
	}
	w.hub.CloseSession(id.String(), msg)
}
