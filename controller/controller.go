// Package controller drives the list/create/update/delete flows of the
// console's resources.
//
// A Controller is owned by a single request. It holds the last fetched list,
// the current State and the user-visible message produced by the most recent
// operation. Every error is converted into that message at this boundary;
// callers only decide how to render it.
package controller

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"

	"github.com/eringen/pubadmin/apiclient"
)

var logger = log.New("controller")

// Logger returns the package logger so callers can adjust its level.
func Logger() *log.Logger {
	return logger
}

// State is the phase a Controller is in.
type State int

const (
	Idle State = iota
	Loading
	Submitting
	Deleting
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Submitting:
		return "submitting"
	case Deleting:
		return "deleting"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Resource is the remote collection a Controller manages.
type Resource[T any, K comparable] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, key K, v T) (T, error)
	Delete(ctx context.Context, key K) error
	// Key identifies v within the collection.
	Key(v T) K
	// Validate checks required fields before anything is sent.
	Validate(v T) error
}

// Getter is implemented by resources that can fetch one entity directly.
type Getter[T any, K comparable] interface {
	Get(ctx context.Context, key K) (T, error)
}

// ErrNotFound is returned by Edit when the key is not in the collection.
var ErrNotFound = errors.New("not found")

// Controller runs the operations of one resource and records their outcome.
type Controller[T any, K comparable] struct {
	res        Resource[T, K]
	items      []T
	state      State
	message    string
	needsLogin bool

	// OnMutate runs after every successful create, update, delete or patch.
	OnMutate func()
}

// New returns an idle Controller over res.
func New[T any, K comparable](res Resource[T, K]) *Controller[T, K] {
	return &Controller[T, K]{res: res}
}

// Items returns the last known collection.
func (c *Controller[T, K]) Items() []T { return c.items }

// State returns the current phase.
func (c *Controller[T, K]) State() State { return c.state }

// Message returns the message left by the last failed operation.
func (c *Controller[T, K]) Message() string { return c.message }

// NeedsLogin reports whether an operation failed because the session is gone.
func (c *Controller[T, K]) NeedsLogin() bool { return c.needsLogin }

// Find returns the listed entity with the given key.
func (c *Controller[T, K]) Find(key K) (T, bool) {
	for _, v := range c.items {
		if c.res.Key(v) == key {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Load fetches the collection. On failure the previous items are kept and the
// controller moves to Error.
func (c *Controller[T, K]) Load(ctx context.Context) error {
	c.state = Loading
	items, err := c.res.List(ctx)
	if err != nil {
		c.fail(Error, err)
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.state = Idle
	c.message = ""
	return nil
}

// Create validates v, sends it and re-fetches the collection once the
// create has been answered.
func (c *Controller[T, K]) Create(ctx context.Context, v T) error {
	if err := c.res.Validate(v); err != nil {
		c.fail(Idle, err)
		return err
	}
	c.state = Submitting
	if _, err := c.res.Create(ctx, v); err != nil {
		c.fail(Idle, err)
		return err
	}
	c.mutated()
	return c.Load(ctx)
}

// Update validates v, replaces the entity identified by key and re-fetches
// the collection.
func (c *Controller[T, K]) Update(ctx context.Context, key K, v T) error {
	if err := c.res.Validate(v); err != nil {
		c.fail(Idle, err)
		return err
	}
	c.state = Submitting
	if _, err := c.res.Update(ctx, key, v); err != nil {
		c.fail(Idle, err)
		return err
	}
	c.mutated()
	return c.Load(ctx)
}

// Delete removes the entity identified by key when confirm is true. A
// declined confirmation is a no-op. On success the entity is dropped from the
// local list without re-fetching.
func (c *Controller[T, K]) Delete(ctx context.Context, key K, confirm bool) error {
	if !confirm {
		return nil
	}
	c.state = Deleting
	if err := c.res.Delete(ctx, key); err != nil {
		c.fail(Idle, err)
		return err
	}
	kept := c.items[:0:0]
	for _, v := range c.items {
		if c.res.Key(v) != key {
			kept = append(kept, v)
		}
	}
	c.items = kept
	c.state = Idle
	c.message = ""
	c.mutated()
	return nil
}

// Patch applies a change the server has already confirmed to the listed
// entity with the given key.
func (c *Controller[T, K]) Patch(key K, fn func(*T)) bool {
	for i := range c.items {
		if c.res.Key(c.items[i]) == key {
			fn(&c.items[i])
			c.mutated()
			return true
		}
	}
	return false
}

// Edit returns the entity to populate an edit form with. Resources that
// implement Getter are asked directly; others are looked up in the list,
// loading it first if needed.
func (c *Controller[T, K]) Edit(ctx context.Context, key K) (T, error) {
	var zero T
	if g, ok := c.res.(Getter[T, K]); ok {
		c.state = Loading
		v, err := g.Get(ctx, key)
		if err != nil {
			c.fail(Error, err)
			return zero, err
		}
		c.state = Idle
		return v, nil
	}
	if c.items == nil {
		if err := c.Load(ctx); err != nil {
			return zero, err
		}
	}
	if v, ok := c.Find(key); ok {
		return v, nil
	}
	return zero, ErrNotFound
}

// Fail records err as if an operation had failed with it. Handlers use it
// for checks that happen outside the controller, such as pending uploads.
func (c *Controller[T, K]) Fail(err error) {
	c.fail(Idle, err)
}

func (c *Controller[T, K]) fail(next State, err error) {
	c.state = next
	c.message = Message(err)
	if isUnauthenticated(err) {
		c.needsLogin = true
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		logger.Warnf("operation failed: %v", err)
	}
}

func (c *Controller[T, K]) mutated() {
	if c.OnMutate != nil {
		c.OnMutate()
	}
}

func isUnauthenticated(err error) bool {
	return errors.Is(err, apiclient.ErrUnauthenticated)
}

// Message converts err into the text shown to the admin.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		ve     *ValidationError
		apiErr *apiclient.APIError
		netErr *apiclient.NetworkError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Msg
	case errors.Is(err, apiclient.ErrUnauthenticated):
		return apiclient.ErrUnauthenticated.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &netErr):
		return netErr.Error()
	case errors.Is(err, apiclient.ErrEmptyResponse):
		return apiclient.ErrEmptyResponse.Error()
	case errors.Is(err, apiclient.ErrMalformedResponse):
		return apiclient.ErrMalformedResponse.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "the request timed out"
	case errors.Is(err, context.Canceled):
		return "the request was cancelled"
	}
	return err.Error()
}
