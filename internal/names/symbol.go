package names

import "strconv"

// Symbol identifies a single binding occurrence.
//
// Symbols are compared by identity: two symbols with the same Name are
// different binders unless they are the same pointer. The ID is only used
// for rendering and hashing.
type Symbol struct {
	Name string
	ID   uint64
}

func (s *Symbol) String() string {
	if s == nil {
		return "<nil>"
	}
	name := s.Name
	if name == "" {
		name = "_"
	}
	return name + "_" + strconv.FormatUint(s.ID, 10)
}

// Hash folds the ID into 32 bits for use as a hash-map key.
func (s *Symbol) Hash() uint32 {
	return uint32(s.ID) ^ uint32(s.ID>>32)
}

// Generator hands out fresh symbols. A zero Generator is ready to use.
//
// A Generator is not safe for concurrent use; give every resolution its own.
type Generator struct {
	last uint64
}

// NewGenerator returns a generator whose first symbol has ID 1.
func NewGenerator() *Generator {
	return &Generator{}
}

// Fresh allocates a new symbol for name.
func (g *Generator) Fresh(name string) *Symbol {
	g.last++
	return &Symbol{Name: name, ID: g.last}
}

// Count reports how many symbols have been allocated so far.
func (g *Generator) Count() uint64 {
	return g.last
}
