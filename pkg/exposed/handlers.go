package exposed

import (
	"context"
	"sync"
)

// PropertyReadHandler produces the current value of a property.
type PropertyReadHandler func(ctx context.Context, name string) (any, error)

// PropertyWriteHandler applies a new value to a property.
type PropertyWriteHandler func(ctx context.Context, name string, value any) error

// ActionHandler executes an action and returns its result.
type ActionHandler func(ctx context.Context, name string, input any) (any, error)

// handlerTable resolves the handler for an interaction: the per-name
// override when one is installed, else the global handler. The global slots
// are never empty; fallback is silent.
type handlerTable struct {
	mu sync.RWMutex

	globalRead   PropertyReadHandler
	globalWrite  PropertyWriteHandler
	globalInvoke ActionHandler

	reads   map[string]PropertyReadHandler
	writes  map[string]PropertyWriteHandler
	invokes map[string]ActionHandler
}

func newHandlerTable(read PropertyReadHandler, write PropertyWriteHandler, invoke ActionHandler) *handlerTable {
	return &handlerTable{
		globalRead:   read,
		globalWrite:  write,
		globalInvoke: invoke,
		reads:        make(map[string]PropertyReadHandler),
		writes:       make(map[string]PropertyWriteHandler),
		invokes:      make(map[string]ActionHandler),
	}
}

// read returns the read handler for the named property.
func (h *handlerTable) read(name string) PropertyReadHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if fn, ok := h.reads[name]; ok {
		return fn
	}
	return h.globalRead
}

// write returns the write handler for the named property.
func (h *handlerTable) write(name string) PropertyWriteHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if fn, ok := h.writes[name]; ok {
		return fn
	}
	return h.globalWrite
}

// invoke returns the invoke handler for the named action.
func (h *handlerTable) invoke(name string) ActionHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if fn, ok := h.invokes[name]; ok {
		return fn
	}
	return h.globalInvoke
}

// setRead installs a per-name read override. A nil handler clears it.
func (h *handlerTable) setRead(name string, fn PropertyReadHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if fn == nil {
		delete(h.reads, name)
		return
	}
	h.reads[name] = fn
}

// setWrite installs a per-name write override. A nil handler clears it.
func (h *handlerTable) setWrite(name string, fn PropertyWriteHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if fn == nil {
		delete(h.writes, name)
		return
	}
	h.writes[name] = fn
}

// setInvoke installs a per-name invoke override. A nil handler clears it.
func (h *handlerTable) setInvoke(name string, fn ActionHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if fn == nil {
		delete(h.invokes, name)
		return
	}
	h.invokes[name] = fn
}

func (h *handlerTable) setGlobalRead(fn PropertyReadHandler) error {
	if fn == nil {
		return ErrNilHandler
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.globalRead = fn
	return nil
}

func (h *handlerTable) setGlobalWrite(fn PropertyWriteHandler) error {
	if fn == nil {
		return ErrNilHandler
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.globalWrite = fn
	return nil
}

func (h *handlerTable) setGlobalInvoke(fn ActionHandler) error {
	if fn == nil {
		return ErrNilHandler
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.globalInvoke = fn
	return nil
}

// clearProperty purges the read/write overrides of a removed property, so a
// later re-add starts clean.
func (h *handlerTable) clearProperty(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.reads, name)
	delete(h.writes, name)
}

// clearAction purges the invoke override of a removed action.
func (h *handlerTable) clearAction(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.invokes, name)
}
