package rdf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestNTriplesDecode(t *testing.T) {
	input := `# header comment
<http://example.org/s> <http://example.org/p> <http://example.org/o> .

<http://example.org/s> <http://example.org/p> "hello" .
<http://example.org/s> <http://example.org/p> "hola"@es .
<http://example.org/s> <http://example.org/p> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
_:b1 <http://example.org/p> _:b2 .
`
	dec, err := NewDecoder(strings.NewReader(input), FormatNTriples)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	var quads []Quad
	for {
		q, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		quads = append(quads, q)
	}
	if len(quads) != 5 {
		t.Fatalf("expected 5 quads, got %d", len(quads))
	}
	if quads[0].S != (IRI{Value: "http://example.org/s"}) {
		t.Fatalf("unexpected subject: %v", quads[0].S)
	}
	if quads[1].O != (Literal{Lexical: "hello"}) {
		t.Fatalf("unexpected literal: %v", quads[1].O)
	}
	if quads[2].O != (Literal{Lexical: "hola", Lang: "es"}) {
		t.Fatalf("unexpected lang literal: %v", quads[2].O)
	}
	want := Literal{Lexical: "1", Datatype: IRI{Value: "http://www.w3.org/2001/XMLSchema#integer"}}
	if quads[3].O != want {
		t.Fatalf("unexpected typed literal: %v", quads[3].O)
	}
	if quads[4].S != (BlankNode{ID: "b1"}) || quads[4].O != (BlankNode{ID: "b2"}) {
		t.Fatalf("unexpected blank nodes: %v", quads[4])
	}
	if !quads[0].InDefaultGraph() {
		t.Fatal("expected default graph")
	}
}

func TestNTriplesDecodeEscapes(t *testing.T) {
	input := `<http://example.org/s> <http://example.org/p> "line\nbreak \"quoted\" tab\there é \U0001F600" .` + "\n"
	dec, err := NewDecoder(strings.NewReader(input), FormatNTriples)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	q, err := dec.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	lit, ok := q.O.(Literal)
	if !ok {
		t.Fatalf("expected literal, got %T", q.O)
	}
	want := "line\nbreak \"quoted\" tab\there é \U0001F600"
	if lit.Lexical != want {
		t.Fatalf("unescape mismatch: %q != %q", lit.Lexical, want)
	}
}

func TestNTriplesDecodeErrorsCarryLine(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\nnot a triple\n"
	dec, err := NewDecoder(strings.NewReader(input), FormatNTriples)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	if _, err := dec.Next(); err != nil {
		t.Fatalf("first line should parse: %v", err)
	}
	_, err = dec.Next()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("error should carry line number: %v", err)
	}
	if Code(err) != ErrCodeParse {
		t.Fatalf("expected parse code, got %s", Code(err))
	}
}

func TestNQuadsDecodeGraphTerm(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n"
	dec, err := NewDecoder(strings.NewReader(input), FormatNQuads)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	q, err := dec.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if q.G != (IRI{Value: "http://example.org/g"}) {
		t.Fatalf("unexpected graph term: %v", q.G)
	}
}

func TestNTriplesEncodeRoundTrip(t *testing.T) {
	quads := []Quad{
		{S: IRI{Value: "http://example.org/s"}, P: IRI{Value: "http://example.org/p"}, O: IRI{Value: "http://example.org/o"}},
		{S: BlankNode{ID: "b1"}, P: IRI{Value: "http://example.org/p"}, O: Literal{Lexical: "say \"hi\"\n", Lang: "en"}},
		{S: IRI{Value: "http://example.org/s"}, P: IRI{Value: "http://example.org/p"}, O: Literal{Lexical: "2", Datatype: IRI{Value: "http://www.w3.org/2001/XMLSchema#integer"}}},
	}

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, FormatNTriples)
	if err != nil {
		t.Fatalf("encoder: %v", err)
	}
	for _, q := range quads {
		if err := enc.Write(q); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	dec, err := NewDecoder(&buf, FormatNTriples)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	for i := range quads {
		got, err := dec.Next()
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if got != quads[i] {
			t.Fatalf("round trip mismatch at %d: %v != %v", i, got, quads[i])
		}
	}
	if _, err := dec.Next(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestNTriplesEncodeRejectsInvalid(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, FormatNTriples)
	if err != nil {
		t.Fatalf("encoder: %v", err)
	}
	bad := Quad{S: Literal{Lexical: "no"}, P: IRI{Value: "http://example.org/p"}, O: IRI{Value: "http://example.org/o"}}
	if err := enc.Write(bad); !errors.Is(err, ErrInvalidTriple) {
		t.Fatalf("expected ErrInvalidTriple, got %v", err)
	}
}
