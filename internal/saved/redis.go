// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package saved

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/pdiddy/sentiment-dashboard/internal/logging"
	"github.com/pdiddy/sentiment-dashboard/pkg/types"
)

// Redis is a Store shared by every process and device that points at the
// same server. Each record is a JSON string at Key(namespace, user, id); a
// sorted set at the collection key orders ids by save time; writes publish
// on the collection's change channel so subscribers re-read.
type Redis struct {
	client    *redis.Client
	namespace string
	logger    *slog.Logger
	hub       *hub
}

// NewRedis connects using a redis:// URL. A nil logger discards.
func NewRedis(ctx context.Context, cfg types.StoreConfig, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Redis{
		client:    client,
		namespace: cfg.Namespace,
		logger:    logging.OrDiscard(logger),
		hub:       newHub(),
	}, nil
}

// Close ends open subscriptions with ErrClosed and closes the Redis
// connection.
func (r *Redis) Close() error {
	r.hub.closeAll()
	return r.client.Close()
}

func changesChannel(collection string) string {
	return collection + ":changes"
}

// publishChange wakes subscribers of collection. The write has already
// committed, so a failed publish is logged rather than returned; other
// clients catch up on their next change.
func (r *Redis) publishChange(ctx context.Context, collection, articleID string) {
	if err := r.client.Publish(ctx, changesChannel(collection), articleID).Err(); err != nil {
		r.logger.WarnContext(ctx, "publishing saved-article change",
			"collection", collection, "article", articleID, "error", err)
	}
}

// Upsert stamps rec with the Redis server clock and writes it.
func (r *Redis) Upsert(ctx context.Context, userID string, rec types.SavedRecord) error {
	if err := validate(userID, rec.ID); err != nil {
		return err
	}

	now, err := r.client.Time(ctx).Result()
	if err != nil {
		return fmt.Errorf("reading server time: %w", err)
	}
	rec.SavedAt = now.UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding saved article %s: %w", rec.ID, err)
	}

	collection := collectionKey(r.namespace, userID)
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, Key(r.namespace, userID, rec.ID), data, 0)
		p.ZAdd(ctx, collection, redis.Z{Score: float64(rec.SavedAt.UnixMicro()), Member: rec.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("upserting saved article %s: %w", rec.ID, err)
	}
	r.publishChange(ctx, collection, rec.ID)
	return nil
}

func (r *Redis) Delete(ctx context.Context, userID, articleID string) error {
	if err := validate(userID, articleID); err != nil {
		return err
	}

	collection := collectionKey(r.namespace, userID)
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, Key(r.namespace, userID, articleID))
		p.ZRem(ctx, collection, articleID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting saved article %s: %w", articleID, err)
	}
	r.publishChange(ctx, collection, articleID)
	return nil
}

// Subscribe listens on the collection's change channel, re-reading the
// snapshot whenever any client writes.
func (r *Redis) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	collection := collectionKey(r.namespace, userID)
	pubsub := r.client.Subscribe(ctx, changesChannel(collection))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", collection, err)
	}

	kick := make(chan struct{}, 1)
	go func() {
		for range pubsub.Channel() {
			select {
			case kick <- struct{}{}:
			default:
			}
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	var sub *Subscription
	sub = newSubscription(func() {
		cancel()
		pubsub.Close()
		r.hub.untrack(sub)
		<-done
	})
	r.hub.track(sub)

	go func() {
		defer close(done)
		watch(ctx, sub, kick, 0, func(ctx context.Context) (Snapshot, error) {
			return r.snapshot(ctx, userID)
		})
	}()
	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.Done():
		}
	}()
	return sub, nil
}

func (r *Redis) snapshot(ctx context.Context, userID string) (Snapshot, error) {
	collection := collectionKey(r.namespace, userID)
	ids, err := r.client.ZRevRange(ctx, collection, 0, -1).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading %s: %w", collection, err)
	}

	recs := []types.SavedRecord{}
	if len(ids) == 0 {
		return Snapshot{Records: recs}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = Key(r.namespace, userID, id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading saved articles: %w", err)
	}

	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// Index entry without a record: a delete raced this read.
			continue
		}
		var rec types.SavedRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return Snapshot{}, fmt.Errorf("decoding %s: %w", keys[i], err)
		}
		recs = append(recs, rec)
	}
	sortRecords(recs)
	return Snapshot{Records: recs}, nil
}
