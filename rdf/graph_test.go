package rdf

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tripleOf(s, p, o string) Triple {
	return Triple{S: IRI{Value: s}, P: IRI{Value: p}, O: IRI{Value: o}}
}

func TestGraphAddRemoveHas(t *testing.T) {
	g := NewGraph()
	tr := tripleOf("http://ex/s", "http://ex/p", "http://ex/o")

	require.NoError(t, g.Add(tr))
	require.NoError(t, g.Add(tr), "duplicates collapse")
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has(tr))

	g.Remove(tr)
	assert.Equal(t, 0, g.Len())
	assert.False(t, g.Has(tr))
}

func TestGraphAddRejectsInvalid(t *testing.T) {
	g := NewGraph()
	err := g.Add(Triple{S: Literal{Lexical: "x"}, P: IRI{Value: "http://ex/p"}, O: IRI{Value: "http://ex/o"}})
	assert.ErrorIs(t, err, ErrInvalidTriple)
	err = g.Add(Triple{S: IRI{Value: "http://ex/s"}, P: IRI{Value: "http://ex/p"}, O: Variable{Name: "x"}})
	assert.ErrorIs(t, err, ErrInvalidTriple)
	assert.Equal(t, 0, g.Len())
}

func TestGraphTriplesFilter(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(tripleOf("http://ex/s1", "http://ex/p", "http://ex/o1")))
	require.NoError(t, g.Add(tripleOf("http://ex/s1", "http://ex/q", "http://ex/o2")))
	require.NoError(t, g.Add(tripleOf("http://ex/s2", "http://ex/p", "http://ex/o1")))

	count := 0
	for range g.Triples(IRI{Value: "http://ex/s1"}, nil, nil) {
		count++
	}
	assert.Equal(t, 2, count)

	count = 0
	for range g.Triples(nil, IRI{Value: "http://ex/p"}, nil) {
		count++
	}
	assert.Equal(t, 2, count)

	count = 0
	for range g.Triples(IRI{Value: "http://ex/s2"}, IRI{Value: "http://ex/p"}, IRI{Value: "http://ex/o1"}) {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestGraphSubjects(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(tripleOf("http://ex/s1", "http://ex/p", "http://ex/o")))
	require.NoError(t, g.Add(tripleOf("http://ex/s1", "http://ex/q", "http://ex/o")))
	require.NoError(t, g.Add(tripleOf("http://ex/s2", "http://ex/p", "http://ex/o")))
	assert.Len(t, g.Subjects(), 2)
}

func TestGraphBindNamespaces(t *testing.T) {
	g := NewGraph()
	g.Bind("ex", "http://example.org/")
	ns := g.Namespaces()
	assert.Equal(t, "http://example.org/", ns["ex"])

	// The returned map is a copy.
	ns["other"] = "http://other.org/"
	assert.NotContains(t, g.Namespaces(), "other")
}

func TestGraphInPlaceOps(t *testing.T) {
	a, b := NewGraph(), NewGraph()
	t1 := tripleOf("http://ex/s", "http://ex/p", "http://ex/1")
	t2 := tripleOf("http://ex/s", "http://ex/p", "http://ex/2")
	t3 := tripleOf("http://ex/s", "http://ex/p", "http://ex/3")
	require.NoError(t, a.Add(t1))
	require.NoError(t, a.Add(t2))
	require.NoError(t, b.Add(t2))
	require.NoError(t, b.Add(t3))

	got := a.Merge(b)
	assert.Same(t, a, got, "in-place operations return the receiver")
	assert.Equal(t, 3, a.Len())

	a.Subtract(b)
	assert.Equal(t, 1, a.Len())
	assert.True(t, a.Has(t1))

	require.NoError(t, a.Add(t2))
	a.IntersectWith(b)
	assert.Equal(t, 1, a.Len())
	assert.True(t, a.Has(t2))
}

func TestGraphFreshOps(t *testing.T) {
	a, b := NewGraph(), NewGraph()
	t1 := tripleOf("http://ex/s", "http://ex/p", "http://ex/1")
	t2 := tripleOf("http://ex/s", "http://ex/p", "http://ex/2")
	t3 := tripleOf("http://ex/s", "http://ex/p", "http://ex/3")
	require.NoError(t, a.Add(t1))
	require.NoError(t, a.Add(t2))
	require.NoError(t, b.Add(t2))
	require.NoError(t, b.Add(t3))

	union := a.Union(b)
	assert.Equal(t, 3, union.Len())

	diff := a.Difference(b)
	assert.Equal(t, 1, diff.Len())
	assert.True(t, diff.Has(t1))

	inter := a.Intersection(b)
	assert.Equal(t, 1, inter.Len())
	assert.True(t, inter.Has(t2))

	// Operands stay untouched.
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestGraphParseFromData(t *testing.T) {
	g := NewGraph()
	err := g.Parse(context.Background(), SourceSpec{
		Data:   "<http://ex/s> <http://ex/p> <http://ex/o> .\n",
		Format: FormatNTriples,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has(tripleOf("http://ex/s", "http://ex/p", "http://ex/o")))
}

func TestGraphParseFromFileDetectsFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.nt")
	content := "<http://ex/s> <http://ex/p> <http://ex/o1> .\n" +
		"<http://ex/s> <http://ex/p> <http://ex/o2> .\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	g := NewGraph()
	require.NoError(t, g.Parse(context.Background(), SourceSpec{Location: path}))
	assert.Equal(t, 2, g.Len())
}

func TestGraphParseFromHTTPDetectsFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/n-triples")
		io.WriteString(w, "<http://ex/s> <http://ex/p> <http://ex/o> .\n")
	}))
	defer server.Close()

	g := NewGraph()
	require.NoError(t, g.Parse(context.Background(), SourceSpec{Location: server.URL}))
	assert.Equal(t, 1, g.Len())
}

func TestGraphParseUnknownFormat(t *testing.T) {
	g := NewGraph()
	err := g.Parse(context.Background(), SourceSpec{Data: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestGraphSerializeRoundTrip(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(tripleOf("http://ex/s", "http://ex/p", "http://ex/o")))
	require.NoError(t, g.Add(Triple{S: IRI{Value: "http://ex/s"}, P: IRI{Value: "http://ex/p"}, O: Literal{Lexical: "v", Lang: "en"}}))

	var buf bytes.Buffer
	require.NoError(t, g.Serialize(&buf, FormatNTriples))

	back := NewGraph()
	require.NoError(t, back.Parse(context.Background(), SourceSpec{Data: buf.String(), Format: FormatNTriples}))
	assert.Equal(t, g.Len(), back.Len())
	for tr := range g.Triples(nil, nil, nil) {
		assert.True(t, back.Has(tr), "missing %v", tr)
	}
}

func TestNamedGraphSerializesGraphTerm(t *testing.T) {
	g := NewNamedGraph(IRI{Value: "http://ex/g"})
	require.NoError(t, g.Add(tripleOf("http://ex/s", "http://ex/p", "http://ex/o")))

	var buf bytes.Buffer
	require.NoError(t, g.Serialize(&buf, FormatNQuads))
	assert.True(t, strings.Contains(buf.String(), "<http://ex/g> ."), "output: %s", buf.String())
}
