package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/harut-11/Emotional/apperrors"
)

// 临时request token的有效期
// Twitter侧的request token本身约15分钟过期
const requestTokenTTL = 10 * time.Minute

// RequestTokenStore OAuth握手期间的临时request token存储
// 以request token为键保存对应的secret，回调时取回后即删除
type RequestTokenStore interface {
	Put(ctx context.Context, token, secret string) error
	Take(ctx context.Context, token string) (string, error)
}

// RedisRequestTokenStore 基于Redis的实现，条目带TTL自动过期
type RedisRequestTokenStore struct {
	client *redis.Client
}

func NewRedisRequestTokenStore(client *redis.Client) *RedisRequestTokenStore {
	return &RedisRequestTokenStore{client: client}
}

func (s *RedisRequestTokenStore) Put(ctx context.Context, token, secret string) error {
	return s.client.Set(ctx, "oauth:request_token:"+token, secret, requestTokenTTL).Err()
}

// Take 取出并删除secret，不存在或已过期时返回ErrNotFound
func (s *RedisRequestTokenStore) Take(ctx context.Context, token string) (string, error) {
	key := "oauth:request_token:" + token
	secret, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	s.client.Del(ctx, key)
	return secret, nil
}

// MemoryRequestTokenStore 内存实现，用于测试和未配置Redis的开发环境
type MemoryRequestTokenStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	secret    string
	expiresAt time.Time
}

func NewMemoryRequestTokenStore() *MemoryRequestTokenStore {
	return &MemoryRequestTokenStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryRequestTokenStore) Put(ctx context.Context, token, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memoryEntry{secret: secret, expiresAt: time.Now().Add(requestTokenTTL)}
	return nil
}

func (s *MemoryRequestTokenStore) Take(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[token]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, token)
		return "", apperrors.ErrNotFound
	}
	delete(s.entries, token)
	return entry.secret, nil
}
