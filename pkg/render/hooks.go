package render

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	"github.com/vango-dev/minidom/internal/errors"
	"github.com/vango-dev/minidom/pkg/vdom"
)

// Cleanup is returned by an effect and runs before the effect runs again
// and when the component unmounts. It may be nil.
type Cleanup func()

// HookType identifies the kind of a hook slot.
type HookType uint8

const (
	HookState HookType = iota + 1
	HookEffect
	HookAsync
	HookMemo
)

func (h HookType) String() string {
	switch h {
	case HookState:
		return "State"
	case HookEffect:
		return "Effect"
	case HookAsync:
		return "Async"
	case HookMemo:
		return "Memo"
	default:
		return fmt.Sprintf("HookType(%d)", h)
	}
}

// slot is the persisted storage of one hook call.
type slot struct {
	kind  HookType
	value any
	deps  []any
	ran   bool

	// effect
	node    *html.Node
	cleanup Cleanup

	// async
	gen    uint64
	cancel context.CancelFunc
}

// release fires the slot's cleanup and cancels its async work.
func (sl *slot) release(r *Renderer) {
	sl.gen++
	if sl.cancel != nil {
		sl.cancel()
		sl.cancel = nil
	}
	if sl.cleanup != nil {
		c := sl.cleanup
		sl.cleanup = nil
		c()
		r.metrics.recordCleanup()
	}
}

// slotTable holds the hook slots of one keyed component, indexed by call
// order. It lives on the component's parent node under the component key.
type slotTable struct {
	slots []*slot

	// count is the number of hook calls made by the last render.
	count   int
	renders int

	owner    *Scope
	lastNode *html.Node
	dead     bool
}

// lookupTable returns the table of key under parent and marks it touched
// for the running children-commit.
func (r *Renderer) lookupTable(parent *html.Node, key string, create bool) *slotTable {
	pm := r.state(parent)
	if pm.hooks == nil {
		pm.hooks = make(map[string]*slotTable)
	}
	if pm.touched == nil {
		pm.touched = pm.hooks
	}
	t := pm.touched[key]
	if t == nil {
		t = pm.hooks[key]
	}
	if t == nil && create {
		t = &slotTable{}
	}
	if t != nil {
		pm.touched[key] = t
	}
	return t
}

// kill fires the cleanups of t in slot order and cancels pending async
// work. Killing a dead table is a no-op.
func (r *Renderer) kill(t *slotTable) {
	if t == nil || t.dead {
		return
	}
	t.dead = true
	for _, sl := range t.slots {
		sl.release(r)
	}
}

// slots returns the scope's table, creating it on first use.
func (s *Scope) slots() *slotTable {
	if s.table == nil {
		if s.key == "" {
			panic(errors.New("M200").WithDetail(vdom.FuncName(s.vnode.Comp)))
		}
		s.bind(s.r.lookupTable(s.parent, s.key, true))
	}
	return s.table
}

// hook returns the next slot, checking that its kind matches the call.
func (s *Scope) hook(kind HookType) *slot {
	t := s.slots()
	i := s.cursor
	s.cursor++

	if i < len(t.slots) {
		sl := t.slots[i]
		if sl.kind == kind {
			return sl
		}
		s.r.hookOrder(errors.New("M201").WithDetailf("%s: hook %d was %s, now %s",
			vdom.FuncName(s.vnode.Comp), i, sl.kind, kind))
		sl.release(s.r)
		fresh := &slot{kind: kind}
		t.slots[i] = fresh
		return fresh
	}

	sl := &slot{kind: kind}
	t.slots = append(t.slots, sl)
	return sl
}

// depsChanged compares dependency lists by length and element.
func depsChanged(prev, next []any) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if !vdom.ValuesEqual(prev[i], next[i]) {
			return true
		}
	}
	return false
}

func copyDeps(deps []any) []any {
	if len(deps) == 0 {
		return nil
	}
	return append([]any(nil), deps...)
}

// State is a value that survives re-renders of a keyed component.
// Get and Set belong to the loop goroutine; other goroutines Post.
type State[T any] struct {
	value T
	table *slotTable
}

// UseState returns the component's state slot, initialized to initial on
// first use.
func UseState[T any](props vdom.Props, initial T) *State[T] {
	s := scopeOf(props)
	sl := s.hook(HookState)
	st, ok := sl.value.(*State[T])
	if !ok {
		st = &State[T]{value: initial, table: s.table}
		sl.value = st
	}
	return st
}

// Get returns the current value.
func (st *State[T]) Get() T { return st.value }

// Set stores v and requests a re-render of the owning component.
func (st *State[T]) Set(v T) {
	st.value = v
	st.invalidate()
}

// Update sets the state to fn applied to the current value.
func (st *State[T]) Update(fn func(T) T) {
	st.Set(fn(st.value))
}

func (st *State[T]) invalidate() {
	t := st.table
	if t == nil || t.dead || t.owner == nil {
		return
	}
	t.owner.Invalidate()
}

// UseEffect queues mount to run after the component's subtree commits.
// It runs on first render, whenever the component's live node is
// replaced, and when deps differ from the last render. With no deps it
// runs once per mount. The previous run's cleanup fires first.
func UseEffect(props vdom.Props, mount func() Cleanup, deps ...any) {
	s := scopeOf(props)
	sl := s.hook(HookEffect)

	due := !sl.ran || depsChanged(sl.deps, deps)
	next := copyDeps(deps)
	r, t := s.r, s.table
	// deps are recorded on flush, so a commit that fails keeps the effect due
	s.queue = append(s.queue, func() {
		if t.dead {
			return
		}
		sl.deps = next
		sl.ran = true
		moved := sl.node != s.node
		sl.node = s.node
		if !due && !moved {
			return
		}
		if sl.cleanup != nil {
			c := sl.cleanup
			sl.cleanup = nil
			c()
			r.metrics.recordCleanup()
		}
		sl.cleanup = mount()
		r.metrics.recordEffect()
	})
}

// UseMemo returns compute's result, recomputed only when deps change.
func UseMemo[T any](props vdom.Props, compute func() T, deps ...any) T {
	s := scopeOf(props)
	sl := s.hook(HookMemo)
	v, ok := sl.value.(T)
	if !ok || !sl.ran || depsChanged(sl.deps, deps) {
		v = compute()
		sl.value = v
	}
	sl.deps = copyDeps(deps)
	sl.ran = true
	return v
}

// Async is the state of an asynchronous computation started by UseAsync.
type Async[T any] struct {
	Loading bool
	Value   T
	Err     error
}

// UseAsync runs factory on its own goroutine on first render and when
// deps change. The settlement is applied on the loop and re-renders the
// component. A settlement superseded by a newer run, or arriving after
// unmount, is dropped; the context passed to the superseded factory is
// cancelled.
func UseAsync[T any](props vdom.Props, factory func(context.Context) (T, error), deps ...any) *Async[T] {
	s := scopeOf(props)
	sl := s.hook(HookAsync)
	a, ok := sl.value.(*Async[T])
	if !ok {
		a = &Async[T]{Loading: true}
		sl.value = a
		sl.ran = false
	}
	if !sl.ran || depsChanged(sl.deps, deps) {
		startAsync(s.r, s.table, sl, a, factory)
	}
	sl.deps = copyDeps(deps)
	sl.ran = true
	return a
}

func startAsync[T any](r *Renderer, t *slotTable, sl *slot, a *Async[T], factory func(context.Context) (T, error)) {
	if sl.cancel != nil {
		sl.cancel()
	}
	sl.gen++
	gen := sl.gen
	ctx, cancel := context.WithCancel(r.ctx)
	sl.cancel = cancel
	a.Loading = true

	loop := r.loop
	loop.begin()
	go func() {
		v, err := runFactory(ctx, factory)
		posted := loop.Post(func() {
			defer loop.end()
			defer cancel()
			if t.dead || sl.gen != gen {
				r.metrics.recordSettlement(false)
				r.logger.Debug("discarding stale async settlement", "generation", gen)
				return
			}
			sl.cancel = nil
			a.Value, a.Err = v, err
			a.Loading = false
			r.metrics.recordSettlement(true)
			if err := r.rerender(t.owner); err != nil {
				r.logger.Error("async re-render failed", "error", err)
			}
		})
		if !posted {
			loop.end()
			cancel()
		}
	}()
}

func runFactory[T any](ctx context.Context, factory func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("async factory panic: %v", p)
		}
	}()
	return factory(ctx)
}
