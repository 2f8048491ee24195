package pulse

import (
	"fmt"
	"sort"
	"sync"
)

// EntryDef seeds one group entry at construction.
type EntryDef struct {
	Name  string
	Value any
	Opts  []PropertyOption
}

// Entry is the typed handle for one named group member, exposing explicit
// Get/Set accessors instead of synthesized per-name methods. Handles stay
// valid references after RemoveEntry but every operation on a retracted
// handle fails with ErrUnknownName.
type Entry struct {
	mu      sync.Mutex
	name    string
	prop    *Property[any]
	derived *Derived[any]
	removed bool
}

// Name returns the entry's registration name.
func (e *Entry) Name() string {
	return e.name
}

// IsDerived reports whether the entry holds a derived property.
func (e *Entry) IsDerived() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.derived != nil
}

// target snapshots the underlying property under the entry lock. The
// returned references are used without the lock so that notifications
// triggered through them can reenter the entry.
func (e *Entry) target() (*Property[any], *Derived[any], error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, nil, ErrUnknownName
	}
	return e.prop, e.derived, nil
}

// dep returns the underlying dependency, or nil if retracted.
func (e *Entry) dep() Dependency {
	p, d, err := e.target()
	if err != nil {
		return nil
	}
	if d != nil {
		return d
	}
	return p
}

// Get returns the entry's current value.
func (e *Entry) Get() (any, error) {
	p, d, err := e.target()
	if err != nil {
		return nil, err
	}
	if d != nil {
		return d.Get(), nil
	}
	return p.Get(), nil
}

// Set forwards to the underlying property's Set. Derived entries fail with
// ErrInvalidOperation.
func (e *Entry) Set(value any) error {
	p, d, err := e.target()
	if err != nil {
		return err
	}
	if d != nil {
		return ErrInvalidOperation
	}
	return p.Set(value)
}

// Reset restores the entry's initial value. Derived entries fail with
// ErrInvalidOperation.
func (e *Entry) Reset() error {
	p, d, err := e.target()
	if err != nil {
		return err
	}
	if d != nil {
		return ErrInvalidOperation
	}
	return p.Reset()
}

// Link registers an observer on the entry, with the immediate initial
// invocation.
func (e *Entry) Link(fn func(newValue any, oldValue *any)) (*Listener[Change], error) {
	p, d, err := e.target()
	if err != nil {
		return nil, err
	}
	if d != nil {
		return d.Link(fn)
	}
	return p.Link(fn)
}

// LazyLink registers an observer without the initial invocation.
func (e *Entry) LazyLink(fn func(newValue any, oldValue *any)) (*Listener[Change], error) {
	p, d, err := e.target()
	if err != nil {
		return nil, err
	}
	if d != nil {
		return d.LazyLink(fn)
	}
	return p.LazyLink(fn)
}

// Unlink removes a listener handle from the entry.
func (e *Entry) Unlink(l *Listener[Change]) error {
	p, d, err := e.target()
	if err != nil {
		return err
	}
	if d != nil {
		return d.Unlink(l)
	}
	return p.Unlink(l)
}

// retract marks the handle dead and returns a dispose func for the
// underlying property.
func (e *Entry) retract() func() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removed = true
	if e.derived != nil {
		d := e.derived
		e.derived = nil
		return d.Dispose
	}
	p := e.prop
	e.prop = nil
	return p.Dispose
}

// Group creates and indexes properties by name. Insertion order is
// preserved and determines reset order. Every name maps to exactly one
// backing property at a time.
type Group struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*Entry
}

// NewGroup creates a group seeded with the given entries, in order.
// Returns ErrDuplicateName if a name repeats.
func NewGroup(defs ...EntryDef) (*Group, error) {
	g := &Group{entries: make(map[string]*Entry)}
	for _, def := range defs {
		if _, err := g.AddEntry(def.Name, def.Value, def.Opts...); err != nil {
			return nil, fmt.Errorf("entry %q: %w", def.Name, err)
		}
	}
	return g, nil
}

// AddEntry creates and indexes a property under name.
// Returns ErrDuplicateName if the name is already present.
func (g *Group) AddEntry(name string, initial any, opts ...PropertyOption) (*Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.entries[name]; ok {
		return nil, ErrDuplicateName
	}

	// The registration name is the identity token; it wins over any
	// WithName in opts.
	opts = append(opts, WithName(name))
	e := &Entry{
		name: name,
		prop: NewProperty[any](initial, opts...),
	}
	g.entries[name] = e
	g.order = append(g.order, name)
	return e, nil
}

// AddDerivedEntry resolves depNames against existing entries and stores a
// derived property under name. Returns ErrUnknownName if any dependency
// name is missing, ErrDuplicateName if name is taken.
func (g *Group) AddDerivedEntry(name string, depNames []string, derivation func(values []any) any) (*Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.entries[name]; ok {
		return nil, ErrDuplicateName
	}
	deps, err := g.resolve(depNames)
	if err != nil {
		return nil, err
	}

	d, err := NewDerived(deps, derivation, WithName(name))
	if err != nil {
		return nil, err
	}
	e := &Entry{
		name:    name,
		derived: d,
	}
	g.entries[name] = e
	g.order = append(g.order, name)
	return e, nil
}

// resolve maps names to dependencies. Called with mu held.
func (g *Group) resolve(names []string) ([]Dependency, error) {
	deps := make([]Dependency, len(names))
	for i, n := range names {
		e, ok := g.entries[n]
		if !ok {
			return nil, fmt.Errorf("dependency %q: %w", n, ErrUnknownName)
		}
		deps[i] = e.dep()
	}
	return deps, nil
}

// Entry returns the handle for name, or ErrUnknownName.
func (g *Group) Entry(name string) (*Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[name]
	if !ok {
		return nil, ErrUnknownName
	}
	return e, nil
}

// Has reports whether name is present.
func (g *Group) Has(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.entries[name]
	return ok
}

// Names returns the entry names in insertion order.
func (g *Group) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of entries.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// RemoveEntry retracts the entry's handle, drops the name from the reset
// order and disposes the underlying property.
func (g *Group) RemoveEntry(name string) error {
	g.mu.Lock()
	e, ok := g.entries[name]
	if !ok {
		g.mu.Unlock()
		return ErrUnknownName
	}
	delete(g.entries, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	// Dispose outside the group lock: disposal notifies nothing, but leak
	// diagnostics may log and multilink detachment may touch other entries.
	return e.retract()()
}

// ResetAll restores every non-derived entry to its initial value, in
// insertion order.
func (g *Group) ResetAll() error {
	g.mu.Lock()
	entries := make([]*Entry, 0, len(g.order))
	for _, name := range g.order {
		entries = append(entries, g.entries[name])
	}
	g.mu.Unlock()

	for _, e := range entries {
		if e.IsDerived() {
			continue
		}
		if err := e.Reset(); err != nil {
			return err
		}
	}
	return nil
}

// SetValues forwards each name/value pair to the matching entry's Set.
// Names are applied in sorted order. An unknown name fails immediately with
// ErrUnknownName; values already applied are NOT rolled back. Callers that
// need atomicity must check the names against Has first.
func (g *Group) SetValues(values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e, err := g.Entry(name)
		if err != nil {
			return fmt.Errorf("set %q: %w", name, err)
		}
		if err := e.Set(values[name]); err != nil {
			return fmt.Errorf("set %q: %w", name, err)
		}
	}
	return nil
}

// LinkName registers an observer on the named entry, with the immediate
// initial invocation.
func (g *Group) LinkName(name string, fn func(newValue any, oldValue *any)) (*Listener[Change], error) {
	e, err := g.Entry(name)
	if err != nil {
		return nil, err
	}
	return e.Link(fn)
}

// UnlinkName removes a listener handle from the named entry.
func (g *Group) UnlinkName(name string, l *Listener[Change]) error {
	e, err := g.Entry(name)
	if err != nil {
		return err
	}
	return e.Unlink(l)
}

// MultilinkNames constructs a Multilink over the named entries, in the
// given order.
func (g *Group) MultilinkNames(names []string, observer func(values []any), opts ...MultilinkOption) (*Multilink, error) {
	g.mu.Lock()
	deps, err := g.resolve(names)
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return NewMultilink(deps, observer, opts...)
}
