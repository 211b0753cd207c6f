package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/api/metrics"
	"github.com/huntsmart/client-engine/internal/core/bus"
	"github.com/huntsmart/client-engine/internal/core/ports"
)

// CrossTabRelay turns storage changes written by other tabs into bus signals,
// so both stores' observers follow writes from anywhere in the profile.
type CrossTabRelay struct {
	storage ports.ProfileStorage
	bus     *bus.Bus
	log     zerolog.Logger
}

func NewCrossTabRelay(storage ports.ProfileStorage, b *bus.Bus, log zerolog.Logger) *CrossTabRelay {
	return &CrossTabRelay{storage: storage, bus: b, log: log}
}

// Start begins relaying until ctx is done.
func (r *CrossTabRelay) Start(ctx context.Context) error {
	changes, err := r.storage.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for ch := range changes {
			r.relay(ctx, ch)
		}
	}()
	return nil
}

func (r *CrossTabRelay) relay(ctx context.Context, ch ports.StorageChange) {
	topic, ok := topicForKey(ch.Key)
	if !ok {
		return
	}
	metrics.CrossTabChangesTotal.WithLabelValues(ch.Key).Inc()
	r.log.Debug().Str("key", ch.Key).Str("origin", ch.Origin).Msg("cross-tab change")
	r.bus.Publish(ctx, bus.Event{Topic: topic, Origin: ch.Origin})
}

func topicForKey(key string) (bus.Topic, bool) {
	switch {
	case key == KeyUser:
		return bus.TopicSession, true
	case strings.HasPrefix(key, "huntsmart_"):
		return bus.TopicEntitlement, true
	default:
		return "", false
	}
}
