package rdf

// CBD computes the Concise Bounded Description of start within g: the
// triples describing start, the closure over its blank-node-valued
// objects, and the full description of any reification statement
// pointing back at a described node.
//
// If target is nil a fresh graph is created; otherwise triples are
// added into target and target is returned, enabling composition. An
// absent start node yields an empty result, not an error.
//
// The traversal holds a visited set scoped to the call, so cyclic
// blank-node chains terminate and each reachable triple is added
// exactly once. The source graph must not be mutated concurrently.
func CBD(g *Graph, start Term, target *Graph) *Graph {
	result := target
	if result == nil {
		result = NewGraph()
	}

	visited := make(map[Term]struct{})
	frontier := []Term{start}
	for len(frontier) > 0 {
		node := frontier[0]
		frontier = frontier[1:]
		if _, done := visited[node]; done {
			continue
		}
		visited[node] = struct{}{}

		frontier = append(frontier, describeSubject(g, result, node)...)
		pullReifications(g, result, node)
	}
	return result
}

// CBD computes the Concise Bounded Description of start within g. See
// the package-level CBD function.
func (g *Graph) CBD(start Term, target *Graph) *Graph {
	return CBD(g, start, target)
}

// describeSubject copies every triple with node as subject into result
// and returns the blank-node objects that still need expansion. Only
// blank nodes grow the frontier: IRI objects bound the description.
func describeSubject(g, result *Graph, node Term) []Term {
	var next []Term
	for t := range g.Triples(node, nil, nil) {
		_ = result.Add(t)
		if bn, ok := t.O.(BlankNode); ok {
			next = append(next, bn)
		}
	}
	return next
}

// pullReifications copies the full description of every reification
// node pointing at node via rdf:subject. The reification closure is
// one level deep: a reification node's own triples are included, but
// the node is never expanded further through the main loop.
func pullReifications(g, result *Graph, node Term) {
	for t := range g.Triples(nil, RDFSubject, node) {
		for rt := range g.Triples(t.S, nil, nil) {
			_ = result.Add(rt)
		}
	}
}

// CBDSubject returns the root subject of a graph produced by CBD: the
// single distinct subject that is not a description artifact. A
// subject is an artifact when it is a reification node (it has an
// rdf:subject arc) or a blank node reached as an object. The result is
// computed from current contents, not cached: mutating the graph so
// that a second root subject appears makes CBDSubject return nil.
func (g *Graph) CBDSubject() Term {
	var root Term
	for _, s := range g.Subjects() {
		if g.isReificationNode(s) {
			continue
		}
		if bn, ok := s.(BlankNode); ok && g.isObject(bn) {
			continue
		}
		if root != nil {
			return nil
		}
		root = s
	}
	return root
}

func (g *Graph) isReificationNode(s Term) bool {
	for range g.Triples(s, RDFSubject, nil) {
		return true
	}
	return false
}

func (g *Graph) isObject(o Term) bool {
	for range g.Triples(nil, nil, o) {
		return true
	}
	return false
}
