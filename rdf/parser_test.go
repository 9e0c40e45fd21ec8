package rdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePushMode(t *testing.T) {
	input := "<http://ex/s> <http://ex/p> <http://ex/o1> .\n" +
		"<http://ex/s> <http://ex/p> <http://ex/o2> .\n"

	var got []Quad
	err := Parse(context.Background(), strings.NewReader(input), FormatNTriples, func(q Quad) error {
		got = append(got, q)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestParseNilContextDefaults(t *testing.T) {
	err := Parse(nil, strings.NewReader(""), FormatNTriples, func(Quad) error { return nil })
	assert.NoError(t, err)
}

func TestParseHandlerErrorStops(t *testing.T) {
	input := "<http://ex/s> <http://ex/p> <http://ex/o1> .\n" +
		"<http://ex/s> <http://ex/p> <http://ex/o2> .\n"

	sentinel := errors.New("stop")
	calls := 0
	err := Parse(context.Background(), strings.NewReader(input), FormatNTriples, func(Quad) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestParseCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Parse(ctx, strings.NewReader("<http://ex/s> <http://ex/p> <http://ex/o> .\n"), FormatNTriples, func(Quad) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ErrCodeContextCanceled, Code(err))
}

func TestParseUnsupportedFormat(t *testing.T) {
	err := Parse(context.Background(), strings.NewReader(""), FormatTurtle, func(Quad) error { return nil })
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeSourceHonorsDeclaredEncoding(t *testing.T) {
	raw := []byte("<http://ex/s> <http://ex/p> \"caf\xe9\" .\n")
	src := NewBytesSource(raw)
	src.SetEncoding("ISO-8859-1")

	var got []Quad
	err := DecodeSource(context.Background(), src, FormatNTriples, func(q Quad) error {
		got = append(got, q)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Term(Literal{Lexical: "café"}), got[0].O)
}

func TestDecodeSourceRequiresFormat(t *testing.T) {
	src := NewStringSource("x")
	err := DecodeSource(context.Background(), src, "", func(Quad) error { return nil })
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeSourceStructuredRejectsOtherFormats(t *testing.T) {
	src := NewStructuredSource(map[string]any{"@id": "http://ex/s"})
	err := DecodeSource(context.Background(), src, FormatNTriples, func(Quad) error { return nil })
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSourceBasePrefersSystemID(t *testing.T) {
	src := NewGenericSource()
	src.SetPublicID("http://example.org/public")
	assert.Equal(t, "http://example.org/public", sourceBase(src))
	src.SetSystemID("http://example.org/system")
	assert.Equal(t, "http://example.org/system", sourceBase(src))
}
