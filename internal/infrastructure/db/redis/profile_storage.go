package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/core/ports"
)

// ProfileStore keeps profile key-value areas in Redis.
// Key format: profile:<profile_id>:<key>
// Change channel: profile:<profile_id>:storage
type ProfileStore struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewProfileStore wraps the given Redis client.
func NewProfileStore(client *redis.Client, log zerolog.Logger) *ProfileStore {
	return &ProfileStore{client: client, log: log}
}

// Open returns a tab handle on profileID. Each handle gets its own origin so
// that it can ignore its own change announcements.
func (s *ProfileStore) Open(profileID string) ports.ProfileStorage {
	return &profileTab{
		client:  s.client,
		log:     s.log,
		profile: profileID,
		id:      uuid.NewString(),
	}
}

type profileTab struct {
	client  *redis.Client
	log     zerolog.Logger
	profile string
	id      string
}

type changeMessage struct {
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
	Origin  string `json:"origin"`
}

// encodeChanges renders the announcements published alongside a write.
func encodeChanges(origin string, changes []ports.StorageChange) ([]string, error) {
	msgs := make([]string, 0, len(changes))
	for _, c := range changes {
		b, err := json.Marshal(changeMessage{Key: c.Key, Value: c.Value, Deleted: c.Deleted, Origin: origin})
		if err != nil {
			return nil, fmt.Errorf("encode change %s: %w", c.Key, err)
		}
		msgs = append(msgs, string(b))
	}
	return msgs, nil
}

// decodeChange parses an announcement. ok is false for changes written by
// the tab named self.
func decodeChange(payload, self string) (ports.StorageChange, bool, error) {
	var cm changeMessage
	if err := json.Unmarshal([]byte(payload), &cm); err != nil {
		return ports.StorageChange{}, false, err
	}
	if cm.Key == "" {
		return ports.StorageChange{}, false, errors.New("change without key")
	}
	if cm.Origin == self {
		return ports.StorageChange{}, false, nil
	}
	return ports.StorageChange{Key: cm.Key, Value: cm.Value, Deleted: cm.Deleted, Origin: cm.Origin}, true, nil
}

func (t *profileTab) Tab() string { return t.id }

func (t *profileTab) key(k string) string {
	return fmt.Sprintf("profile:%s:%s", t.profile, k)
}

func (t *profileTab) channel() string {
	return fmt.Sprintf("profile:%s:storage", t.profile)
}

func (t *profileTab) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := t.client.Get(ctx, t.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("profile get %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes every pair and its change announcement in one MULTI/EXEC.
func (t *profileTab) Set(ctx context.Context, pairs map[string]string) error {
	if len(pairs) == 0 {
		return nil
	}
	flat := make([]any, 0, len(pairs)*2)
	changes := make([]ports.StorageChange, 0, len(pairs))
	for k, v := range pairs {
		flat = append(flat, t.key(k), v)
		changes = append(changes, ports.StorageChange{Key: k, Value: v})
	}
	msgs, err := encodeChanges(t.id, changes)
	if err != nil {
		return fmt.Errorf("profile set: %w", err)
	}

	_, err = t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.MSet(ctx, flat...)
		for _, m := range msgs {
			pipe.Publish(ctx, t.channel(), m)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("profile set: %w", err)
	}
	return nil
}

func (t *profileTab) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	changes := make([]ports.StorageChange, 0, len(keys))
	for _, k := range keys {
		full = append(full, t.key(k))
		changes = append(changes, ports.StorageChange{Key: k, Deleted: true})
	}
	msgs, err := encodeChanges(t.id, changes)
	if err != nil {
		return fmt.Errorf("profile delete: %w", err)
	}

	_, err = t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, full...)
		for _, m := range msgs {
			pipe.Publish(ctx, t.channel(), m)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("profile delete: %w", err)
	}
	return nil
}

// Watch subscribes to the profile's change channel and forwards changes made
// by other tabs. The returned channel closes when ctx is done.
func (t *profileTab) Watch(ctx context.Context) (<-chan ports.StorageChange, error) {
	sub := t.client.Subscribe(ctx, t.channel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("profile watch: %w", err)
	}

	out := make(chan ports.StorageChange, 64)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				change, ok, err := decodeChange(m.Payload, t.id)
				if err != nil {
					t.log.Warn().Err(err).Str("profile_id", t.profile).Msg("malformed storage change skipped")
					continue
				}
				if !ok {
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
