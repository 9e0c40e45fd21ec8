package rdf

import (
	"context"
	"io"
	"iter"
)

// Store is the triple mutation capability a graph is built on. Filters
// passed to Triples are exact-match terms; nil matches anything.
type Store interface {
	Add(Triple) error
	Remove(Triple)
	Triples(s, p, o Term) iter.Seq[Triple]
	Len() int
}

// memStore is the in-memory store. Duplicates collapse; iteration
// order is unspecified.
type memStore struct {
	triples map[Triple]struct{}
}

func newMemStore() *memStore {
	return &memStore{triples: make(map[Triple]struct{})}
}

func (s *memStore) Add(t Triple) error {
	if err := validateTriple(t); err != nil {
		return err
	}
	s.triples[t] = struct{}{}
	return nil
}

func (s *memStore) Remove(t Triple) {
	delete(s.triples, t)
}

func (s *memStore) Len() int { return len(s.triples) }

func (s *memStore) Triples(sub, pred, obj Term) iter.Seq[Triple] {
	// Fully bound patterns are a direct membership probe.
	if sub != nil && pred != nil && obj != nil {
		if p, ok := pred.(IRI); ok {
			t := Triple{S: sub, P: p, O: obj}
			return func(yield func(Triple) bool) {
				if _, found := s.triples[t]; found {
					yield(t)
				}
			}
		}
	}
	return func(yield func(Triple) bool) {
		for t := range s.triples {
			if !matchTerm(sub, t.S) || !matchTerm(pred, t.P) || !matchTerm(obj, t.O) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

func matchTerm(pattern, value Term) bool {
	return pattern == nil || pattern == value
}

// Graph is a set of triples with an optional identifier and namespace
// bindings. Triples are shared by value; the graph owns its store.
type Graph struct {
	name  Term
	ns    map[string]string
	store Store
}

// NewGraph returns an empty in-memory graph.
func NewGraph() *Graph {
	return &Graph{ns: make(map[string]string), store: newMemStore()}
}

// NewNamedGraph returns an empty in-memory graph with an identifier.
func NewNamedGraph(name Term) *Graph {
	g := NewGraph()
	g.name = name
	return g
}

// NewGraphWithStore returns a graph over an externally provided store.
func NewGraphWithStore(store Store) *Graph {
	return &Graph{ns: make(map[string]string), store: store}
}

// Name returns the graph identifier, or nil.
func (g *Graph) Name() Term { return g.name }

// Bind records a prefix-to-namespace binding.
func (g *Graph) Bind(prefix, namespace string) {
	g.ns[prefix] = namespace
}

// Namespaces returns a copy of the prefix bindings.
func (g *Graph) Namespaces() map[string]string {
	out := make(map[string]string, len(g.ns))
	for p, n := range g.ns {
		out[p] = n
	}
	return out
}

// Add inserts a triple. Structurally invalid triples are rejected with
// ErrInvalidTriple.
func (g *Graph) Add(t Triple) error {
	return g.store.Add(t)
}

// Remove deletes a triple if present.
func (g *Graph) Remove(t Triple) {
	g.store.Remove(t)
}

// Has reports whether the graph contains the exact triple.
func (g *Graph) Has(t Triple) bool {
	for range g.store.Triples(t.S, t.P, t.O) {
		return true
	}
	return false
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int { return g.store.Len() }

// Triples iterates triples matching the filters; nil matches anything.
func (g *Graph) Triples(s, p, o Term) iter.Seq[Triple] {
	return g.store.Triples(s, p, o)
}

// Subjects returns the distinct subject terms.
func (g *Graph) Subjects() []Term {
	seen := make(map[Term]struct{})
	var subjects []Term
	for t := range g.store.Triples(nil, nil, nil) {
		if _, ok := seen[t.S]; ok {
			continue
		}
		seen[t.S] = struct{}{}
		subjects = append(subjects, t.S)
	}
	return subjects
}

// In-place aggregate operations. Each mutates the receiver and returns
// it for chaining; none ever allocates a new graph.

// Merge adds every triple of other into g.
func (g *Graph) Merge(other *Graph) *Graph {
	for t := range other.Triples(nil, nil, nil) {
		_ = g.store.Add(t)
	}
	return g
}

// Subtract removes every triple of other from g.
func (g *Graph) Subtract(other *Graph) *Graph {
	for t := range other.Triples(nil, nil, nil) {
		g.store.Remove(t)
	}
	return g
}

// IntersectWith removes every triple of g not present in other.
func (g *Graph) IntersectWith(other *Graph) *Graph {
	var drop []Triple
	for t := range g.store.Triples(nil, nil, nil) {
		if !other.Has(t) {
			drop = append(drop, t)
		}
	}
	for _, t := range drop {
		g.store.Remove(t)
	}
	return g
}

// Fresh-graph aggregate operations. Each leaves both operands
// untouched and returns a new graph.

// Union returns a new graph holding the triples of both operands.
func (g *Graph) Union(other *Graph) *Graph {
	return NewGraph().Merge(g).Merge(other)
}

// Difference returns a new graph holding g's triples absent in other.
func (g *Graph) Difference(other *Graph) *Graph {
	return NewGraph().Merge(g).Subtract(other)
}

// Intersection returns a new graph holding the triples present in both.
func (g *Graph) Intersection(other *Graph) *Graph {
	out := NewGraph()
	for t := range g.store.Triples(nil, nil, nil) {
		if other.Has(t) {
			_ = out.store.Add(t)
		}
	}
	return out
}

// Parse resolves the request, decodes the resulting source and adds
// its statements to the graph. Sources the resolver opened itself are
// closed after consumption.
func (g *Graph) Parse(ctx context.Context, spec SourceSpec) error {
	src, err := CreateInputSource(ctx, spec)
	if err != nil {
		return err
	}
	if src.AutoClose() {
		defer src.Close()
	}

	format := spec.Format
	if format == "" {
		if f, ok := FormatForMediaType(src.ContentType()); ok {
			format = f
		} else if f, ok := formatForPath(src.SystemID()); ok {
			format = f
		}
	}

	return DecodeSource(ctx, src, format, func(q Quad) error {
		return g.Add(q.ToTriple())
	})
}

// Serialize writes the graph's triples in the given format. A named
// graph serialized as N-Quads carries its identifier as the graph term.
func (g *Graph) Serialize(w io.Writer, format Format) error {
	enc, err := NewEncoder(w, format)
	if err != nil {
		return err
	}
	for t := range g.store.Triples(nil, nil, nil) {
		q := t.ToQuad()
		if format == FormatNQuads && g.name != nil {
			q = t.ToQuadInGraph(g.name)
		}
		if err := enc.Write(q); err != nil {
			_ = enc.Close()
			return err
		}
	}
	return enc.Close()
}
