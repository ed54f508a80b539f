package discovery

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "discovery:services:"

// RedisResolver resolves services from a shared Redis registry. Each service
// is a set of instance addresses under discovery:services:<name>; instances
// register themselves and the resolver rotates through the members.
type RedisResolver struct {
	client *redis.Client

	mu   sync.Mutex
	next map[string]int
}

func NewRedisResolver(client *redis.Client) *RedisResolver {
	return &RedisResolver{
		client: client,
		next:   make(map[string]int),
	}
}

func serviceKey(service string) string {
	return keyPrefix + service
}

func (r *RedisResolver) Resolve(ctx context.Context, service string) (string, error) {
	members, err := r.client.SMembers(ctx, serviceKey(service)).Result()
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", service, err)
	}
	if len(members) == 0 {
		return "", ErrUnknownService
	}

	// SMEMBERS order is unspecified; sort so rotation is stable.
	sort.Strings(members)

	r.mu.Lock()
	addr := members[r.next[service]%len(members)]
	r.next[service]++
	r.mu.Unlock()

	return addr, nil
}

// Register adds an instance address for a service.
func (r *RedisResolver) Register(ctx context.Context, service, addr string) error {
	return r.client.SAdd(ctx, serviceKey(service), addr).Err()
}

// Deregister removes an instance address for a service.
func (r *RedisResolver) Deregister(ctx context.Context, service, addr string) error {
	return r.client.SRem(ctx, serviceKey(service), addr).Err()
}
