package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pratyush-06/Barista-Agent/internal/logging"
)

// RedisCaseStore stores each case as a JSON string under
// "<prefix>:fraud:case:<id>" and keeps the ids in a set.
type RedisCaseStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCaseStore wraps an existing client. An empty prefix becomes "agent".
func NewRedisCaseStore(client *redis.Client, prefix string) *RedisCaseStore {
	if prefix == "" {
		prefix = "agent"
	}
	return &RedisCaseStore{client: client, prefix: prefix}
}

// DialRedisCaseStore connects to addr and checks the connection.
func DialRedisCaseStore(ctx context.Context, addr string, db int, prefix string) (*RedisCaseStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", addr, err)
	}
	logging.Store("Connected to redis case store at %s (db=%d)", addr, db)
	return NewRedisCaseStore(client, prefix), nil
}

func (s *RedisCaseStore) caseKey(id string) string {
	return fmt.Sprintf("%s:fraud:case:%s", s.prefix, id)
}

func (s *RedisCaseStore) indexKey() string {
	return s.prefix + ":fraud:cases"
}

// Get implements CaseStore.
func (s *RedisCaseStore) Get(ctx context.Context, id string) (*FraudCase, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	data, err := s.client.Get(ctx, s.caseKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var c FraudCase
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal case: %w", err)
	}
	return &c, nil
}

// FindPendingByUser implements CaseStore.
func (s *RedisCaseStore) FindPendingByUser(ctx context.Context, userName string) (*FraudCase, error) {
	cases, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cases {
		if strings.EqualFold(c.UserName, userName) && c.Status == StatusPending {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// List implements CaseStore.
func (s *RedisCaseStore) List(ctx context.Context) ([]*FraudCase, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}
	sort.Strings(ids)

	cases := make([]*FraudCase, 0, len(ids))
	for _, id := range ids {
		c, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// Put implements CaseStore.
// Uses a pipeline to write the document and the id index in one round-trip.
func (s *RedisCaseStore) Put(ctx context.Context, c *FraudCase) error {
	if c == nil || c.ID == "" {
		return ErrInvalidID
	}
	c.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal case: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.caseKey(c.ID), data, 0)
	pipe.SAdd(ctx, s.indexKey(), c.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	logging.StoreDebug("Stored case %s in redis (status=%s)", c.ID, c.Status)
	return nil
}

// Close implements CaseStore.
func (s *RedisCaseStore) Close() error {
	return s.client.Close()
}
