package creator

import (
	"fmt"
	"sync"
)

// Replacement is a single (base, replacement) association in a
// ReplacementRegistry snapshot.
type Replacement struct {
	Base        Base
	Replacement Base
}

// ReplacementRegistry maps base types that are unsafe to extend directly to
// drop-in replacements with correct construction and copy semantics.
type ReplacementRegistry struct {
	mu    sync.RWMutex
	bases map[Base]Base
	order []Base
}

func NewReplacementRegistry() *ReplacementRegistry {
	return &ReplacementRegistry{
		bases: make(map[Base]Base),
	}
}

// Register makes Create substitute replacement whenever base is requested.
// Registering the same base again replaces the previous association.
// Bases are used as map keys: Register panics on a base that is not
// comparable.
func (r *ReplacementRegistry) Register(base, replacement Base) {
	if base == nil || replacement == nil {
		panic("creator: Register: base and replacement must be non-nil")
	}
	if !comparableBase(base) {
		panic(fmt.Sprintf("creator: Register: base %s of type %T is not comparable and cannot be a registry key", base.BaseName(), base))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bases[base]; !exists {
		r.order = append(r.order, base)
	}
	r.bases[base] = replacement
}

// Lookup returns the replacement registered for base, or base itself.
// A base that is not comparable has no replacement.
func (r *ReplacementRegistry) Lookup(base Base) Base {
	if !comparableBase(base) {
		return base
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if repl, ok := r.bases[base]; ok {
		return repl
	}
	return base
}

// Delete removes the association for base, if any.
func (r *ReplacementRegistry) Delete(base Base) {
	if !comparableBase(base) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bases[base]; !ok {
		return
	}
	delete(r.bases, base)
	for i, b := range r.order {
		if b == base {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Entries returns the associations in registration order.
func (r *ReplacementRegistry) Entries() []Replacement {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Replacement, 0, len(r.order))
	for _, b := range r.order {
		out = append(out, Replacement{Base: b, Replacement: r.bases[b]})
	}
	return out
}

func (r *ReplacementRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bases)
}

// Replacements is the process-wide registry consulted by the Default namespace.
var Replacements = NewReplacementRegistry()

func init() {
	Replacements.Register(NDArray, numericArrayReplacement)
	Replacements.Register(Array, typedArrayReplacement)
}
