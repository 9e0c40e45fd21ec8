package rdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// InputSource represents one resolved readable resource. A source
// carries a byte stream, a character stream, or both (when the
// character stream was derived from bytes with a known encoding), plus
// identification and encoding metadata. A source is consumed exactly
// once by a grammar decoder and closed afterwards; when AutoClose is
// set the resolver opened the underlying resource and the consumer is
// responsible for the close.
type InputSource interface {
	ByteStream() io.Reader
	SetByteStream(io.Reader)
	CharacterStream() io.Reader
	SetCharacterStream(io.Reader)
	Encoding() string
	SetEncoding(string)
	PublicID() string
	SetPublicID(string)
	SystemID() string
	SetSystemID(string)
	ContentType() string
	SetContentType(string)
	AutoClose() bool
	SetAutoClose(bool)
	Close() error
}

// baseSource carries the shared capability surface of all source
// variants.
type baseSource struct {
	byteStream  io.Reader
	charStream  io.Reader
	encoding    string
	publicID    string
	systemID    string
	contentType string
	autoClose   bool
}

func (s *baseSource) ByteStream() io.Reader          { return s.byteStream }
func (s *baseSource) SetByteStream(r io.Reader)      { s.byteStream = r }
func (s *baseSource) CharacterStream() io.Reader     { return s.charStream }
func (s *baseSource) SetCharacterStream(r io.Reader) { s.charStream = r }
func (s *baseSource) Encoding() string               { return s.encoding }
func (s *baseSource) SetEncoding(enc string)         { s.encoding = enc }
func (s *baseSource) PublicID() string               { return s.publicID }
func (s *baseSource) SetPublicID(id string)          { s.publicID = id }
func (s *baseSource) SystemID() string               { return s.systemID }
func (s *baseSource) SetSystemID(id string)          { s.systemID = id }
func (s *baseSource) ContentType() string            { return s.contentType }
func (s *baseSource) SetContentType(ct string)       { s.contentType = ct }
func (s *baseSource) AutoClose() bool                { return s.autoClose }
func (s *baseSource) SetAutoClose(v bool)            { s.autoClose = v }

// Close releases both streams best-effort. Failures are logged and
// discarded so a leak on one handle never prevents releasing the
// other, and repeated closes are safe.
func (s *baseSource) Close() error {
	closeQuietly(s.charStream, "character stream", s.systemID)
	closeQuietly(s.byteStream, "byte stream", s.systemID)
	return nil
}

func closeQuietly(stream io.Reader, kind, systemID string) {
	closer, ok := stream.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Debug("stream close failed", "stream", kind, "systemID", systemID, "err", err)
	}
}

// GenericSource wraps an already-open handle supplied by the caller.
type GenericSource struct {
	baseSource
}

// NewGenericSource returns an empty source for the caller to populate.
func NewGenericSource() *GenericSource {
	return &GenericSource{}
}

// StringSource wraps in-memory text or binary content. The missing
// stream is derived lazily on first read and the derived buffer is
// cached, so repeated reads never re-encode or re-decode.
type StringSource struct {
	baseSource
}

// NewStringSource wraps text content. The byte stream encodes the text
// with the configured encoding (default UTF-8) on first read.
func NewStringSource(text string) *StringSource {
	s := &StringSource{}
	s.encoding = "utf-8"
	s.charStream = strings.NewReader(text)
	s.byteStream = &lazyEncodedBytes{text: text, source: s}
	return s
}

// NewBytesSource wraps binary content. The character stream decodes the
// bytes with the configured encoding (default UTF-8) on first read.
func NewBytesSource(value []byte) *StringSource {
	s := &StringSource{}
	s.encoding = "utf-8"
	s.byteStream = bytes.NewReader(value)
	s.charStream = &lazyDecodedText{raw: value, source: s}
	return s
}

// lazyEncodedBytes is the byte-stream view of a text source. The
// derivation state is explicit: not yet computed until the first read,
// then computed once and never recomputed.
type lazyEncodedBytes struct {
	text    string
	source  *StringSource
	reader  *bytes.Reader
	err     error
	derived bool
}

func (l *lazyEncodedBytes) Read(p []byte) (int, error) {
	if !l.derived {
		l.derived = true
		encoded, err := encodeString(l.text, l.source.Encoding())
		if err != nil {
			l.err = err
		} else {
			l.reader = bytes.NewReader(encoded)
		}
	}
	if l.err != nil {
		return 0, l.err
	}
	return l.reader.Read(p)
}

// Write fails: streams produced by this package are read-only.
func (l *lazyEncodedBytes) Write([]byte) (int, error) {
	return 0, ErrReadOnly
}

// lazyDecodedText is the character-stream view of a bytes source.
type lazyDecodedText struct {
	raw     []byte
	source  *StringSource
	reader  io.Reader
	err     error
	derived bool
}

func (l *lazyDecodedText) Read(p []byte) (int, error) {
	if !l.derived {
		l.derived = true
		l.reader, l.err = decodeReader(bytes.NewReader(l.raw), l.source.Encoding())
	}
	if l.err != nil {
		return 0, l.err
	}
	return l.reader.Read(p)
}

// Write fails: streams produced by this package are read-only.
func (l *lazyDecodedText) Write([]byte) (int, error) {
	return 0, ErrReadOnly
}

// StructuredSource wraps an already-parsed in-memory structure, such as
// a decoded JSON-LD document. It exposes no streams; the matching
// grammar decoder consumes the structure directly.
type StructuredSource struct {
	baseSource
	data any
}

// NewStructuredSource wraps a structured value.
func NewStructuredSource(data any) *StructuredSource {
	return &StructuredSource{data: data}
}

// Data returns the wrapped structure, or nil after Close.
func (s *StructuredSource) Data() any { return s.data }

// Close drops the reference to the structure.
func (s *StructuredSource) Close() error {
	s.data = nil
	return nil
}

// FileSource wraps an open local file handle. The system identifier is
// the canonical file:// IRI of the file's path resolved against the
// current working directory, so relative system IDs never leak.
type FileSource struct {
	baseSource
	file io.Reader
}

// NewFileSource wraps an open file. Only the byte stream is exposed:
// the encoding is unknown, so decoding is deferred to the grammar
// decoder.
func NewFileSource(f *os.File) *FileSource {
	s := &FileSource{file: f}
	s.byteStream = f
	s.systemID = fileURI(f.Name())
	return s
}

// NewFileSourceWithEncoding wraps an open file whose text encoding is
// known, exposing both the underlying byte stream and a character
// stream decoding it.
func NewFileSourceWithEncoding(f *os.File, enc string) (*FileSource, error) {
	s := NewFileSource(f)
	decoded, err := decodeReader(f, enc)
	if err != nil {
		return nil, err
	}
	s.charStream = decoded
	s.encoding = enc
	return s, nil
}

// URLSource wraps a negotiated HTTP response. The final post-redirect
// URL becomes both the system and the public identifier.
type URLSource struct {
	baseSource
	url string
}

func newURLSource(body io.Reader, finalURL, contentType string) *URLSource {
	s := &URLSource{url: finalURL}
	s.byteStream = body
	s.systemID = finalURL
	s.publicID = finalURL
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	s.contentType = strings.TrimSpace(contentType)
	return s
}

// URL returns the final (post-redirect) URL.
func (s *URLSource) URL() string { return s.url }

// Encoding helpers shared by the source variants.

// lookupEncoding resolves a declared charset name. A nil encoding with
// nil error means identity (UTF-8).
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrEncoding, name)
	}
	return enc, nil
}

func encodeString(text, name string) ([]byte, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(text), nil
	}
	out, _, err := transform.Bytes(enc.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: encoding text as %s: %v", ErrEncoding, name, err)
	}
	return out, nil
}

func decodeReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// fileURI returns the canonical file:// IRI for a path resolved
// against the current working directory.
func fileURI(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}
	return "file://" + pctEncode(filepath.ToSlash(abs), "/")
}

// cwdBase returns the current working directory as a file:// base IRI
// with a trailing slash.
func cwdBase() string {
	wd, err := os.Getwd()
	if err != nil {
		return "file:///"
	}
	return "file://" + pctEncode(filepath.ToSlash(wd), "/") + "/"
}

// pathFromFileURI converts a file:/// IRI back into a local path.
func pathFromFileURI(uri string) string {
	p := strings.TrimPrefix(uri, "file://")
	if decoded, err := pctDecode(p); err == nil {
		p = decoded
	}
	return filepath.FromSlash(p)
}

func pctDecode(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("rdf: truncated percent escape in %q", s)
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("rdf: invalid percent escape in %q", s)
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
