package redis_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

const (
	sessionKeyPrefix  = "draft_session:"
	maxUpdateAttempts = 5
)

// SessionStore keeps draft sessions in Redis so any instance can serve them.
// Updates are optimistic (WATCH/MULTI); a mutation may run more than once.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionStore(client *redis.Client, ttl time.Duration) (*SessionStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	return &SessionStore{client: client, ttl: ttl, now: time.Now}, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func encodeSession(s *domain.Session) ([]byte, error) {
	return json.Marshal(snapshotOf(s))
}

func decodeSession(raw []byte) (*domain.Session, error) {
	var snap sessionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return snap.session()
}

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, sessionKey(session.ID), data, s.ttl).Result()
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to store session", err, port.Fields{
			"component":  "RedisSessionStore",
			"method":     "Create",
			"session_id": session.ID,
		})
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: id %s already taken", domain.ErrSessionConflict, session.ID)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeSession(raw)
}

func (s *SessionStore) Update(ctx context.Context, id string, mutate port.SessionMutator) (*domain.Session, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "RedisSessionStore",
		"method":     "Update",
		"session_id": id,
	})
	key := sessionKey(id)

	var updated *domain.Session
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		session, err := decodeSession(raw)
		if err != nil {
			return err
		}
		if err := mutate(session); err != nil {
			return err
		}
		session.UpdatedAt = s.now().UTC()

		data, err := encodeSession(session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			updated = session
		}
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		logger.Debug("Session changed during update, retrying", port.Fields{"attempt": attempt})
	}
	logger.Warn("Session update gave up after concurrent changes", nil)
	return nil, domain.ErrSessionConflict
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
