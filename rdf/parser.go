package rdf

import (
	"context"
	"fmt"
	"io"
)

// Decoder streams RDF statements from an input. A statement is a quad;
// triple formats leave G nil.
type Decoder interface {
	Next() (Quad, error)
	Err() error
	Close() error
}

// Encoder streams RDF statements to an output. Triple formats ignore
// the graph term.
type Encoder interface {
	Write(Quad) error
	Flush() error
	Close() error
}

// Handler processes statements in push mode.
type Handler func(Quad) error

// NewDecoder creates a decoder for the format. Formats the registry
// knows only for negotiation purposes yield ErrUnsupportedFormat.
func NewDecoder(r io.Reader, format Format) (Decoder, error) {
	switch format {
	case FormatNTriples:
		return newNTriplesDecoder(r), nil
	case FormatNQuads:
		return newNQuadsDecoder(r), nil
	case FormatJSONLD:
		return newJSONLDDecoder(r, ""), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// NewEncoder creates an encoder for the format.
func NewEncoder(w io.Writer, format Format) (Encoder, error) {
	switch format {
	case FormatNTriples:
		return newNTriplesEncoder(w), nil
	case FormatNQuads:
		return newNQuadsEncoder(w), nil
	case FormatJSONLD:
		return newJSONLDEncoder(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Parse decodes RDF from r and streams statements to handler. A nil
// ctx defaults to context.Background().
func Parse(ctx context.Context, r io.Reader, format Format, handler Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dec, err := NewDecoder(r, format)
	if err != nil {
		return err
	}
	defer dec.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		q, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := handler(q); err != nil {
			return err
		}
	}
}

// DecodeSource consumes an input source exactly once, streaming its
// statements to handler. Structured sources go straight to the JSON-LD
// processor; stream-backed sources prefer the character stream (already
// decoded text) and fall back to the byte stream, honoring the declared
// encoding.
func DecodeSource(ctx context.Context, src InputSource, format Format, handler Handler) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if structured, ok := src.(*StructuredSource); ok {
		if format != "" && format != FormatJSONLD {
			return fmt.Errorf("%w: structured data decodes as JSON-LD, not %q", ErrUnsupportedFormat, format)
		}
		quads, err := jsonldQuadsFromValue(structured.Data(), sourceBase(src))
		if err != nil {
			return err
		}
		for _, q := range quads {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := handler(q); err != nil {
				return err
			}
		}
		return nil
	}

	if format == "" {
		return fmt.Errorf("%w: no format hint and none negotiated for %q", ErrUnsupportedFormat, sourceBase(src))
	}

	stream := src.CharacterStream()
	if stream == nil {
		byteStream := src.ByteStream()
		if byteStream == nil {
			return fmt.Errorf("%w: source exposes no stream", ErrSourceType)
		}
		decoded, err := decodeReader(byteStream, src.Encoding())
		if err != nil {
			return err
		}
		stream = decoded
	}

	if format == FormatJSONLD {
		dec := newJSONLDDecoder(stream, sourceBase(src))
		defer dec.Close()
		return drain(ctx, dec, handler)
	}

	dec, err := NewDecoder(stream, format)
	if err != nil {
		return err
	}
	defer dec.Close()
	return drain(ctx, dec, handler)
}

func drain(ctx context.Context, dec Decoder, handler Handler) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		q, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := handler(q); err != nil {
			return err
		}
	}
}

// sourceBase picks the base IRI for relative resolution: the system
// identifier when present, else the public identifier.
func sourceBase(src InputSource) string {
	if id := src.SystemID(); id != "" {
		return id
	}
	return src.PublicID()
}
