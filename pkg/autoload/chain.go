// SPDX-License-Identifier: MPL-2.0

package autoload

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
)

type (
	// HookFunc is called with the name of an identifier the host could not
	// find. It reports whether the name has been handled.
	HookFunc func(name string) bool

	// HookID identifies a registered hook for Unregister.
	HookID uint64

	// Chain is an ordered list of lookup-failure hooks. It is safe for
	// concurrent use.
	Chain struct {
		mu     sync.RWMutex
		hooks  []hook
		nextID HookID
		logger *slog.Logger
	}

	hook struct {
		id HookID
		fn HookFunc
	}
)

// NewChain creates an empty Chain. A nil logger discards output.
func NewChain(logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Chain{logger: logger}
}

// Register adds fn to the chain, in front of every existing hook with
// prepend, otherwise behind them.
func (c *Chain) Register(fn HookFunc, prepend bool) HookID {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	h := hook{id: c.nextID, fn: fn}
	if prepend {
		c.hooks = slices.Insert(c.hooks, 0, h)
	} else {
		c.hooks = append(c.hooks, h)
	}
	return h.id
}

// Unregister removes the hook registered under id and reports whether it
// was present.
func (c *Chain) Unregister(id HookID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.hooks, func(h hook) bool { return h.id == id })
	if i < 0 {
		return false
	}
	c.hooks = slices.Delete(c.hooks, i, i+1)
	return true
}

// Len returns the number of registered hooks.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.hooks)
}

// Lookup calls the hooks in order until one handles name. A panicking hook
// counts as not having handled it.
func (c *Chain) Lookup(name string) bool {
	c.mu.RLock()
	hooks := slices.Clone(c.hooks)
	c.mu.RUnlock()

	for _, h := range hooks {
		if c.call(h, name) {
			return true
		}
	}
	return false
}

func (c *Chain) call(h hook, name string) (handled bool) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("lookup hook panicked", "hook", h.id, "name", name, "panic", fmt.Sprint(rec))
			handled = false
		}
	}()
	return h.fn(name)
}
