package rdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

// jsonldDecoder buffers a whole JSON-LD document, converts it to RDF
// through the json-gold processor, and replays the resulting quads.
type jsonldDecoder struct {
	reader io.Reader
	base   string
	quads  []Quad
	pos    int
	loaded bool
	err    error
}

func newJSONLDDecoder(r io.Reader, base string) Decoder {
	return &jsonldDecoder{reader: r, base: base}
}

func (d *jsonldDecoder) Next() (Quad, error) {
	if !d.loaded {
		d.loaded = true
		d.load()
	}
	if d.err != nil {
		return Quad{}, d.err
	}
	if d.pos >= len(d.quads) {
		return Quad{}, io.EOF
	}
	q := d.quads[d.pos]
	d.pos++
	return q, nil
}

func (d *jsonldDecoder) Err() error { return d.err }

func (d *jsonldDecoder) Close() error { return nil }

func (d *jsonldDecoder) load() {
	raw, err := io.ReadAll(d.reader)
	if err != nil {
		d.err = fmt.Errorf("jsonld: reading input: %w", err)
		return
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		d.err = fmt.Errorf("jsonld: %w", err)
		return
	}
	d.quads, d.err = jsonldQuadsFromValue(doc, d.base)
}

// jsonldQuadsFromValue converts an already-parsed JSON-LD structure to
// quads. The dataset is serialized to N-Quads by json-gold and read
// back through the line codec, so both paths share one term mapping.
func jsonldQuadsFromValue(value any, base string) ([]Quad, error) {
	if value == nil {
		return nil, fmt.Errorf("jsonld: nil document")
	}
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions(base)
	opts.DocumentLoader = ld.NewDefaultDocumentLoader(nil)

	result, err := proc.ToRDF(value, opts)
	if err != nil {
		return nil, fmt.Errorf("jsonld: %w", err)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}

	serializer := &ld.NQuadRDFSerializer{}
	serialized, err := serializer.Serialize(dataset)
	if err != nil {
		return nil, fmt.Errorf("jsonld: %w", err)
	}
	nquads, ok := serialized.(string)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected serialization result %T", serialized)
	}
	return parseNQuadsString(nquads)
}

func parseNQuadsString(nquads string) ([]Quad, error) {
	dec := newNQuadsDecoder(strings.NewReader(nquads))
	var quads []Quad
	for {
		q, err := dec.Next()
		if err == io.EOF {
			return quads, nil
		}
		if err != nil {
			return nil, err
		}
		quads = append(quads, q)
	}
}

// jsonldEncoder accumulates quads and emits one JSON-LD document on
// Close.
type jsonldEncoder struct {
	writer  io.Writer
	quads   []Quad
	err     error
	emitted bool
}

func newJSONLDEncoder(w io.Writer) Encoder {
	return &jsonldEncoder{writer: w}
}

func (e *jsonldEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if err := validateTriple(q.ToTriple()); err != nil {
		return err
	}
	e.quads = append(e.quads, q)
	return nil
}

func (e *jsonldEncoder) Flush() error { return e.err }

func (e *jsonldEncoder) Close() error {
	if e.err != nil {
		return e.err
	}
	if e.emitted {
		return nil
	}
	e.emitted = true

	var buf bytes.Buffer
	enc := newNQuadsEncoder(&buf)
	for _, q := range e.quads {
		if err := enc.Write(q); err != nil {
			return err
		}
	}
	if err := enc.Close(); err != nil {
		return err
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	doc, err := proc.FromRDF(buf.String(), opts)
	if err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}
	out = append(out, '\n')
	if _, err := e.writer.Write(out); err != nil {
		e.err = err
		return err
	}
	return nil
}
