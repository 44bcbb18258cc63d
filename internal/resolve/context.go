package resolve

import (
	"src.elv.sh/pkg/persistent/hash"
	"src.elv.sh/pkg/persistent/hashmap"

	"github.com/gnolang/lam/internal/names"
)

// Context maps the names visible at some point of the program to the
// symbols they denote. It is persistent: Bind returns a new context and
// leaves the receiver untouched, so sibling scopes never see each other.
type Context struct {
	scope hashmap.Map
}

var emptyScope = hashmap.New(
	func(k1, k2 any) bool { return k1.(string) == k2.(string) },
	func(k any) uint32 { return hash.String(k.(string)) },
)

// EmptyContext returns a context in which no name is visible.
func EmptyContext() *Context {
	return &Context{scope: emptyScope}
}

// Bind returns a context in which name denotes sym, shadowing any earlier
// binding of the same name.
func (c *Context) Bind(name string, sym *names.Symbol) *Context {
	return &Context{scope: c.scope.Assoc(name, sym)}
}

// Lookup returns the symbol name denotes, if any.
func (c *Context) Lookup(name string) (*names.Symbol, bool) {
	v, ok := c.scope.Index(name)
	if !ok {
		return nil, false
	}
	return v.(*names.Symbol), true
}

// Len returns the number of visible names.
func (c *Context) Len() int {
	return c.scope.Len()
}
