package userclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/example/ec-order-pipeline/internal/discovery"
)

// ServiceName is the logical name the user service registers under.
const ServiceName = "user-service"

// DefaultTimeout bounds a single lookup, including discovery resolution.
const DefaultTimeout = 3 * time.Second

// User is the subset of user-service data this pipeline consumes.
type User struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Role      string   `json:"role"`
	Address   *Address `json:"address,omitempty"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

// Outcome classifies a lookup. A definitive 404 is NotFound, which is ordinary
// business data; everything that prevents an answer (resolver failure,
// transport error, timeout, 5xx) is Unreachable. The two must never be
// collapsed: NotFound rejects the caller, Unreachable means the dependency is
// down and the caller may retry.
type Outcome int

const (
	Found Outcome = iota
	NotFound
	Unreachable
)

// LookupResult is the tri-state answer of a user lookup. User is set only for
// Found; Cause only for Unreachable.
type LookupResult struct {
	Outcome Outcome
	User    *User
	Cause   error
}

func found(u *User) LookupResult     { return LookupResult{Outcome: Found, User: u} }
func notFound() LookupResult         { return LookupResult{Outcome: NotFound} }
func unreachable(err error) LookupResult {
	return LookupResult{Outcome: Unreachable, Cause: err}
}

// Client looks up users over HTTP, resolving the service address through
// discovery on every call.
type Client struct {
	resolver discovery.Resolver
	http     *http.Client
	service  string
	timeout  time.Duration
}

func NewClient(resolver discovery.Resolver, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		resolver: resolver,
		http:     &http.Client{},
		service:  ServiceName,
		timeout:  timeout,
	}
}

// Lookup fetches user details by ID and classifies the outcome.
func (c *Client) Lookup(ctx context.Context, userID string) LookupResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addr, err := c.resolver.Resolve(ctx, c.service)
	if err != nil {
		return unreachable(fmt.Errorf("resolve %s: %w", c.service, err))
	}

	endpoint := fmt.Sprintf("http://%s/api/users/%s", addr, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return unreachable(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return unreachable(fmt.Errorf("user service request: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return notFound()
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var u User
		if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
			return unreachable(fmt.Errorf("decode user response: %w", err))
		}
		return found(&u)
	default:
		return unreachable(fmt.Errorf("user service returned status %d", resp.StatusCode))
	}
}
