package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "relay:session:"
	redisMaxAttempts = 16
)

// RedisStore keeps sessions in Redis as JSON values that expire ttl after
// their last write. Appends use optimistic transactions, so several relay
// instances can share one Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a store on client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Create(ctx context.Context, st *Status) error {
	data, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}
	ok, err := s.client.SetNX(ctx, redisKey(st.ID), data, s.ttl).Result()
	if err != nil {
		return errors.Wrap(err, "failed to save session")
	}
	if !ok {
		return errors.Errorf("relay: session %s exists", st.ID)
	}
	return nil
}

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) get(ctx context.Context, c redisGetter, id string) (*Status, error) {
	data, err := c.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.Wrap(ErrSessionNotFound, id)
		}
		return nil, errors.Wrap(err, "failed to get session")
	}
	var st Status
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session")
	}
	return &st, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Status, error) {
	return s.get(ctx, s.client, id)
}

// update applies fn to session id inside an optimistic transaction,
// retrying when another writer got there first. fn returns whether the
// session should be removed instead of saved.
func (s *RedisStore) update(ctx context.Context, id string, fn func(st *Status) (remove bool, err error)) (*Status, error) {
	key := redisKey(id)
	var out *Status

	txf := func(tx *redis.Tx) error {
		st, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		remove, err := fn(st)
		if err != nil {
			return err
		}
		data, err := json.Marshal(st)
		if err != nil {
			return errors.Wrap(err, "failed to marshal session")
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if remove {
				pipe.Del(ctx, key)
			} else {
				pipe.Set(ctx, key, data, s.ttl)
			}
			return nil
		})
		if err == nil {
			out = st
		}
		return err
	}

	for i := 0; i < redisMaxAttempts; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, errors.Errorf("relay: too much contention on session %s", id)
}

func (s *RedisStore) Append(ctx context.Context, id string, kind Kind, value string) (*Status, error) {
	return s.update(ctx, id, func(st *Status) (bool, error) {
		return false, st.add(kind, value)
	})
}

func (s *RedisStore) Finish(ctx context.Context, id, identity string) error {
	_, err := s.update(ctx, id, func(st *Status) (bool, error) {
		return st.finish(identity)
	})
	return err
}
