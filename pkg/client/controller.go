package client

import (
	"context"
	"errors"
	"sync"
)

// Hooks let the view layer react to controller state changes.
type Hooks struct {
	// OnUnauthorized fires after any call comes back 401: the session has
	// already been cleared and the view should navigate to login.
	OnUnauthorized func()
	// OnChange delivers a fresh snapshot after every successful resync.
	OnChange func([]Sweet)
}

// Controller keeps one view's catalog snapshot in sync with the backend.
//
// The consistency model is refetch-after-mutation: every successful
// create/update/delete/restock/purchase unconditionally re-runs the last
// active fetch instead of patching the snapshot locally, so the displayed
// list never diverges from server truth once an action completes. Mutations
// are single-flight per row id, with one extra lock for the shared
// create/edit form.
type Controller struct {
	api   *Client
	hooks Hooks

	mu       sync.Mutex
	sweets   []Sweet
	query    *Query // last active search; nil means plain list
	gen      uint64 // fetch generation, latest started fetch wins
	busy     map[string]bool
	formBusy bool
	loading  bool
}

func NewController(api *Client, hooks Hooks) *Controller {
	return &Controller{
		api:   api,
		hooks: hooks,
		busy:  make(map[string]bool),
	}
}

// List fetches the full catalog, dropping any active search filters.
func (c *Controller) List(ctx context.Context) error {
	c.mu.Lock()
	c.query = nil
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Search fetches a server-side filtered catalog and makes q the active
// filter set for subsequent resyncs. An empty result is a success.
func (c *Controller) Search(ctx context.Context, q Query) error {
	c.mu.Lock()
	c.query = &q
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// ClearFilters drops the active search without fetching. Bumping the
// generation here invalidates any in-flight fetch for the old filter set.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	c.query = nil
	c.gen++
	c.mu.Unlock()
}

// Refresh re-runs the last active fetch (list or search). When several
// fetches overlap, only the latest-started one may install its result;
// superseded completions are discarded, success or failure alike.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	query := c.query
	c.loading = true
	c.mu.Unlock()

	var sweets []Sweet
	var err error
	if query == nil {
		sweets, err = c.api.ListSweets(ctx)
	} else {
		sweets, err = c.api.SearchSweets(ctx, *query)
	}

	c.mu.Lock()
	if c.gen != gen {
		// A newer fetch started while this one was in flight; its result,
		// stale by definition, must not overwrite anything.
		c.mu.Unlock()
		return nil
	}
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		return c.fail(err)
	}
	if sweets == nil {
		sweets = []Sweet{}
	}
	c.sweets = sweets
	snapshot := append([]Sweet(nil), sweets...)
	c.mu.Unlock()

	if c.hooks.OnChange != nil {
		c.hooks.OnChange(snapshot)
	}
	return nil
}

// Create adds a catalog item. Holds the shared form lock.
func (c *Controller) Create(ctx context.Context, input SweetInput) error {
	return c.withFormLock(ctx, func(ctx context.Context) error {
		_, err := c.api.CreateSweet(ctx, input)
		return err
	})
}

// Update replaces a catalog item. Holds the shared form lock.
func (c *Controller) Update(ctx context.Context, id string, input SweetInput) error {
	return c.withFormLock(ctx, func(ctx context.Context) error {
		_, err := c.api.UpdateSweet(ctx, id, input)
		return err
	})
}

// Delete removes a catalog item. Holds the row lock for id.
func (c *Controller) Delete(ctx context.Context, id string) error {
	return c.withRowLock(ctx, id, func(ctx context.Context) error {
		return c.api.DeleteSweet(ctx, id)
	})
}

// Restock increases stock for id. The quantity guard is advisory UX; the
// backend still validates.
func (c *Controller) Restock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return c.withRowLock(ctx, id, func(ctx context.Context) error {
		_, err := c.api.RestockSweet(ctx, id, quantity)
		return err
	})
}

// Purchase buys one unit of id. When the cached row already shows zero
// stock the purchase is rejected locally without a network call; the
// backend remains the authority for the race where stock ran out after the
// last resync.
func (c *Controller) Purchase(ctx context.Context, id string) error {
	c.mu.Lock()
	for i := range c.sweets {
		if c.sweets[i].ID == id && c.sweets[i].Quantity <= 0 {
			c.mu.Unlock()
			return ErrOutOfStock
		}
	}
	c.mu.Unlock()

	return c.withRowLock(ctx, id, func(ctx context.Context) error {
		_, err := c.api.PurchaseSweet(ctx, id)
		return err
	})
}

// Snapshot returns a copy of the current catalog view.
func (c *Controller) Snapshot() []Sweet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sweet(nil), c.sweets...)
}

// Busy reports whether an action is outstanding for the given row.
func (c *Controller) Busy(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy[id]
}

// FormBusy reports whether the shared create/edit form lock is held.
func (c *Controller) FormBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formBusy
}

// Loading reports whether a fetch is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// withRowLock runs fn under the single-flight lock for id, then resyncs.
// The lock is released on every path, success or failure, so the user can
// retry; the snapshot is only ever replaced by the post-mutation refetch.
func (c *Controller) withRowLock(ctx context.Context, id string, fn func(context.Context) error) error {
	c.mu.Lock()
	if c.busy[id] {
		c.mu.Unlock()
		return ErrActionInFlight
	}
	c.busy[id] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.busy, id)
		c.mu.Unlock()
	}()

	if err := fn(ctx); err != nil {
		return c.fail(err)
	}
	return c.Refresh(ctx)
}

// withFormLock is withRowLock for the shared create/edit form.
func (c *Controller) withFormLock(ctx context.Context, fn func(context.Context) error) error {
	c.mu.Lock()
	if c.formBusy {
		c.mu.Unlock()
		return ErrActionInFlight
	}
	c.formBusy = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.formBusy = false
		c.mu.Unlock()
	}()

	if err := fn(ctx); err != nil {
		return c.fail(err)
	}
	return c.Refresh(ctx)
}

// fail applies the error taxonomy's side effects. A 401 from any operation
// invalidates the session and pushes the view back to login; everything else
// is surfaced as-is with the snapshot left untouched.
func (c *Controller) fail(err error) error {
	if errors.Is(err, ErrUnauthorized) {
		_ = c.api.Session().Clear()
		if c.hooks.OnUnauthorized != nil {
			c.hooks.OnUnauthorized()
		}
	}
	return err
}
