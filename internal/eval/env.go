package eval

import (
	"sort"

	"src.elv.sh/pkg/persistent/hashmap"

	"github.com/gnolang/lam/internal/names"
)

// Env is a persistent mapping from symbols to values. Extend never
// modifies the receiver, so a closure's captured environment can not be
// affected by bindings made after it was captured.
type Env struct {
	bindings hashmap.Map
}

var emptyBindings = hashmap.New(
	func(k1, k2 any) bool { return k1.(*names.Symbol) == k2.(*names.Symbol) },
	func(k any) uint32 { return k.(*names.Symbol).Hash() },
)

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{bindings: emptyBindings}
}

// Extend returns a new environment that also maps sym to v.
func (e *Env) Extend(sym *names.Symbol, v Value) *Env {
	return &Env{bindings: e.bindings.Assoc(sym, v)}
}

// Lookup returns the value bound to sym.
func (e *Env) Lookup(sym *names.Symbol) (Value, bool) {
	v, ok := e.bindings.Index(sym)
	if !ok {
		return nil, false
	}
	return v.(Value), true
}

// Len returns the number of bindings.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return e.bindings.Len()
}

// Symbols returns the bound symbols ordered by ID.
func (e *Env) Symbols() []*names.Symbol {
	syms := make([]*names.Symbol, 0, e.Len())
	for it := e.bindings.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		syms = append(syms, k.(*names.Symbol))
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].ID < syms[j].ID })
	return syms
}
