package rdf

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLDDecode(t *testing.T) {
	doc := `{
	  "@id": "http://example.org/s",
	  "http://example.org/p": {"@id": "http://example.org/o"}
	}`
	var got []Quad
	err := Parse(context.Background(), strings.NewReader(doc), FormatJSONLD, func(q Quad) error {
		got = append(got, q)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Term(IRI{Value: "http://example.org/s"}), got[0].S)
	assert.Equal(t, IRI{Value: "http://example.org/p"}, got[0].P)
	assert.Equal(t, Term(IRI{Value: "http://example.org/o"}), got[0].O)
}

func TestJSONLDDecodeLiteral(t *testing.T) {
	doc := `{
	  "@id": "http://example.org/s",
	  "http://example.org/name": "Alice"
	}`
	var got []Quad
	err := Parse(context.Background(), strings.NewReader(doc), FormatJSONLD, func(q Quad) error {
		got = append(got, q)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	lit, ok := got[0].O.(Literal)
	require.True(t, ok, "object should be a literal, got %T", got[0].O)
	assert.Equal(t, "Alice", lit.Lexical)
}

func TestJSONLDDecodeInvalidJSON(t *testing.T) {
	err := Parse(context.Background(), strings.NewReader("{not json"), FormatJSONLD, func(Quad) error { return nil })
	assert.Error(t, err)
}

func TestJSONLDQuadsFromValueResolvesAgainstBase(t *testing.T) {
	doc := map[string]any{
		"@id":                  "doc",
		"http://example.org/p": map[string]any{"@id": "http://example.org/o"},
	}
	quads, err := jsonldQuadsFromValue(doc, "http://example.org/base/")
	require.NoError(t, err)
	require.Len(t, quads, 1)
	assert.Equal(t, Term(IRI{Value: "http://example.org/base/doc"}), quads[0].S)
}

func TestJSONLDQuadsFromValueNil(t *testing.T) {
	_, err := jsonldQuadsFromValue(nil, "")
	assert.Error(t, err)
}

func TestGraphParseStructuredData(t *testing.T) {
	g := NewGraph()
	err := g.Parse(context.Background(), SourceSpec{
		Data: map[string]any{
			"@id":                  "http://example.org/s",
			"http://example.org/p": map[string]any{"@id": "http://example.org/o"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has(tripleOf("http://example.org/s", "http://example.org/p", "http://example.org/o")))
}

func TestJSONLDEncode(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, FormatJSONLD)
	require.NoError(t, err)
	require.NoError(t, enc.Write(Quad{
		S: IRI{Value: "http://example.org/s"},
		P: IRI{Value: "http://example.org/p"},
		O: IRI{Value: "http://example.org/o"},
	}))
	require.NoError(t, enc.Close())

	out := buf.String()
	assert.Contains(t, out, "http://example.org/s")
	assert.Contains(t, out, "@id")
}

func TestJSONLDRoundTripThroughGraph(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(tripleOf("http://example.org/s", "http://example.org/p", "http://example.org/o")))

	var buf bytes.Buffer
	require.NoError(t, g.Serialize(&buf, FormatJSONLD))

	back := NewGraph()
	require.NoError(t, back.Parse(context.Background(), SourceSpec{Data: buf.String(), Format: FormatJSONLD}))
	assert.Equal(t, 1, back.Len())
	assert.True(t, back.Has(tripleOf("http://example.org/s", "http://example.org/p", "http://example.org/o")))
}
