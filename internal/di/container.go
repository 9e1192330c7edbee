// Package di wires marketd's services together and owns their lifetime.
package di

import (
	"errors"
	"fmt"
	"sync"
)

// Container is the dependency injection container.
// Services are built lazily on first Get and closed in reverse build order.
type Container struct {
	mu       sync.Mutex
	services map[string]interface{}
	builders map[string]Builder
	closers  []closer
	building map[string]bool
}

// Builder is a function that creates a service instance. A builder may
// return a nil service for an optional component that is disabled.
type Builder func(c *Container) (interface{}, error)

type closer struct {
	name string
	fn   func() error
}

// ErrServiceNotFound is returned for a name with no service or builder.
var ErrServiceNotFound = errors.New("service not found")

// New creates a new dependency injection container.
func New() *Container {
	return &Container{
		services: make(map[string]interface{}),
		builders: make(map[string]Builder),
		building: make(map[string]bool),
	}
}

// Register registers a service instance.
func (c *Container) Register(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

// RegisterBuilder registers a builder function for lazy instantiation.
func (c *Container) RegisterBuilder(name string, builder Builder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builders[name] = builder
}

// OnClose registers fn to run when the container is closed. Builders call
// it for the resources they open.
func (c *Container) OnClose(name string, fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, closer{name: name, fn: fn})
}

// Get retrieves a service by name, building it if needed.
func (c *Container) Get(name string) (interface{}, error) {
	c.mu.Lock()
	if service, exists := c.services[name]; exists {
		c.mu.Unlock()
		return service, nil
	}
	builder, hasBuilder := c.builders[name]
	if !hasBuilder {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}
	if c.building[name] {
		c.mu.Unlock()
		return nil, fmt.Errorf("dependency cycle at %s", name)
	}
	c.building[name] = true
	c.mu.Unlock()

	// Builders resolve their own dependencies, so the lock is not held here.
	service, err := builder(c)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.building, name)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	c.services[name] = service
	return service, nil
}

// MustGet retrieves a service or panics if not found.
func (c *Container) MustGet(name string) interface{} {
	service, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return service
}

// Has checks if a service is registered.
func (c *Container) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.services[name]; exists {
		return true
	}
	_, exists := c.builders[name]
	return exists
}

// Close runs the registered closers, most recent first, and returns their
// joined errors.
func (c *Container) Close() error {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", closers[i].name, err))
		}
	}
	return errors.Join(errs...)
}

// Resolve gets a service and asserts its type. A disabled optional service
// resolves to the zero value of T.
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	service, err := c.Get(name)
	if err != nil || service == nil {
		return zero, err
	}
	typed, ok := service.(T)
	if !ok {
		return zero, fmt.Errorf("service %s has type %T, want %T", name, service, zero)
	}
	return typed, nil
}

// Service names constants for type-safe access.
const (
	ServiceConfig      = "config"
	ServiceLogger      = "logger"
	ServiceStorage     = "storage"
	ServiceLedger      = "ledger"
	ServiceMetrics     = "metrics"
	ServiceEventLog    = "events.log"
	ServiceEventHub    = "events.hub"
	ServiceEventNATS   = "events.nats"
	ServiceJournal     = "payout.journal"
	ServicePayer       = "payout.payer"
	ServiceDispatcher  = "payout.dispatcher"
	ServiceTxEngine    = "tx.engine"
	ServiceRPCServer   = "rpc.server"
	ServiceHTTPHandler = "rpc.http"
)
