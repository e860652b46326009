package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"phoneinput_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix       = "phonefield:session:"
	sessionNotFoundMessage = "field session not found"
	maxUpdateAttempts      = 5
)

// RedisSessionStore keeps sessions as JSON documents that expire after the
// configured TTL. Every write refreshes the TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a session store on an existing client.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

var _ SessionStore = (*RedisSessionStore)(nil)

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

// CreateSession stores a new session. IDs are never reused.
func (s *RedisSessionStore) CreateSession(ctx context.Context, session Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	created, err := s.client.SetNX(ctx, sessionKey(session.ID), payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !created {
		return apperr.Conflict("field session already exists")
	}
	return nil
}

// GetSession loads a session.
func (s *RedisSessionStore) GetSession(ctx context.Context, id uuid.UUID) (Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, apperr.NotFound(sessionNotFoundMessage)
		}
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return decodeSession(data)
}

// UpdateSession applies fn under WATCH so concurrent writers never
// interleave. A transaction that loses the race is retried with fresh data.
func (s *RedisSessionStore) UpdateSession(ctx context.Context, id uuid.UUID, fn func(*Session) error) (Session, error) {
	key := sessionKey(id)

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var updated Session
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return apperr.NotFound(sessionNotFoundMessage)
				}
				return err
			}

			session, err := decodeSession(data)
			if err != nil {
				return err
			}
			if err := fn(&session); err != nil {
				return err
			}

			payload, err := json.Marshal(session)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, s.ttl)
				return nil
			})
			if err == nil {
				updated = session
			}
			return err
		}, key)

		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case apperr.GetKind(err) != apperr.KindUnknown:
			return Session{}, err
		default:
			return Session{}, fmt.Errorf("update session: %w", err)
		}
	}

	return Session{}, apperr.Conflict("field session is busy, retry")
}

// DeleteSession removes a session.
func (s *RedisSessionStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	removed, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if removed == 0 {
		return apperr.NotFound(sessionNotFoundMessage)
	}
	return nil
}

func decodeSession(data []byte) (Session, error) {
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}
