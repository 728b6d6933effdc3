package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ahscorp/hiring-hive-platform/internal/logging"
)

// ErrDisabled is returned by a sink that has nothing configured to deliver to.
var ErrDisabled = errors.New("sink disabled")

// Sink is a notification destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, p Payload) error
}

// Fanout dispatches a payload to every sink in the background. Delivery
// failures are logged and never reported to the caller.
type Fanout struct {
	sinks   []Sink
	timeout time.Duration
	log     *log.Entry
	wg      sync.WaitGroup
}

// NewFanout returns a dispatcher bounding each delivery by timeout.
func NewFanout(timeout time.Duration, sinks ...Sink) *Fanout {
	return &Fanout{
		sinks:   sinks,
		timeout: timeout,
		log:     logging.For("notify"),
	}
}

// Notify starts delivery and returns immediately. Delivery outlives ctx
// cancellation but keeps its values.
func (f *Fanout) Notify(ctx context.Context, p Payload) {
	base := context.WithoutCancel(ctx)
	for _, s := range f.sinks {
		f.wg.Add(1)
		go func(s Sink) {
			defer f.wg.Done()
			f.deliver(base, s, p)
		}(s)
	}
}

func (f *Fanout) deliver(ctx context.Context, s Sink, p Payload) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	entry := f.log.WithFields(log.Fields{"sink": s.Name(), "form": p.Get(KeyFormName)})
	err := s.Send(ctx, p)
	switch {
	case errors.Is(err, ErrDisabled):
		entry.Debug("Notification sink disabled, skipping")
	case err != nil:
		entry.WithError(err).Warn("Notification delivery failed")
	default:
		entry.Info("Notification delivered")
	}
}

// Wait blocks until every dispatched delivery has finished.
func (f *Fanout) Wait() {
	f.wg.Wait()
}
