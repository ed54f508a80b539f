package discovery

import (
	"context"
	"errors"
	"sync"
)

// ErrUnknownService is returned when no instance of the requested service is
// registered.
var ErrUnknownService = errors.New("unknown service")

// Resolver maps a logical service name to the address of a live instance,
// load-balanced across the registered instances.
type Resolver interface {
	Resolve(ctx context.Context, service string) (string, error)
}

// StaticResolver serves addresses from a fixed in-memory table, rotating
// through the instances of each service round-robin. Useful for local setups
// and tests where no registry is running.
type StaticResolver struct {
	mu    sync.Mutex
	addrs map[string][]string
	next  map[string]int
}

func NewStaticResolver(addrs map[string][]string) *StaticResolver {
	table := make(map[string][]string, len(addrs))
	for service, instances := range addrs {
		table[service] = append([]string(nil), instances...)
	}
	return &StaticResolver{
		addrs: table,
		next:  make(map[string]int),
	}
}

func (r *StaticResolver) Resolve(ctx context.Context, service string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	instances := r.addrs[service]
	if len(instances) == 0 {
		return "", ErrUnknownService
	}

	addr := instances[r.next[service]%len(instances)]
	r.next[service]++
	return addr, nil
}
