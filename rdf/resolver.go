package rdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Version is the library version reported in the negotiation user agent.
const Version = "0.4.0"

const defaultUserAgent = "rdfkit/" + Version + " (+https://github.com/semforge/rdfkit)"

const maxRedirectHops = 10

// SourceSpec describes one resolution request. Exactly one of Source,
// Location, File and Data must be set.
type SourceSpec struct {
	// Source is a pre-built InputSource, a location string, raw bytes,
	// or an open io.Reader.
	Source any
	// PublicID overrides the public identifier of the resolved source.
	PublicID string
	// Location is a filesystem path or an IRI.
	Location string
	// File is an already-open handle.
	File io.Reader
	// Data is in-memory content: string, []byte, or a structured value.
	Data any
	// Format is the format hint driving content negotiation.
	Format Format
}

// Resolver turns resolution requests into input sources. It holds no
// mutable state; concurrent Resolve calls are independent as long as
// the HTTP client is safe for concurrent use.
type Resolver struct {
	client    *http.Client
	base      string
	userAgent string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithHTTPClient sets the HTTP client used for negotiation. Callers
// wanting bounded latency configure timeouts on this client; the
// resolver imposes none itself.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) { r.client = c }
}

// WithBaseIRI sets the base IRI locations resolve against. The default
// is the current working directory as a file:// IRI.
func WithBaseIRI(base string) ResolverOption {
	return func(r *Resolver) { r.base = base }
}

// WithUserAgent sets the User-Agent sent during negotiation.
func WithUserAgent(ua string) ResolverOption {
	return func(r *Resolver) { r.userAgent = ua }
}

// NewResolver returns a resolver with the given options applied.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{client: http.DefaultClient, userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateInputSource resolves a request with a default resolver.
func CreateInputSource(ctx context.Context, spec SourceSpec) (InputSource, error) {
	return NewResolver().Resolve(ctx, spec)
}

// Resolve produces an InputSource for the request. Supplying zero or
// more than one of Source, Location, File and Data fails with
// ErrSourceArguments; there is no silent fallback.
func (r *Resolver) Resolve(ctx context.Context, spec SourceSpec) (InputSource, error) {
	given := 0
	if spec.Source != nil {
		given++
	}
	if spec.Location != "" {
		given++
	}
	if spec.File != nil {
		given++
	}
	if spec.Data != nil {
		given++
	}
	if given != 1 {
		return nil, ErrSourceArguments
	}

	location := spec.Location
	file := spec.File
	data := spec.Data
	var input InputSource

	if spec.Source != nil {
		switch src := spec.Source.(type) {
		case InputSource:
			input = src
		case string:
			location = src
		case []byte:
			data = src
		case io.Reader:
			input = wrapReader(src)
		default:
			return nil, fmt.Errorf("%w: %T", ErrSourceType, spec.Source)
		}
	}

	absLocation := ""
	autoClose := false

	if location != "" && input == nil {
		resolved, src, f, err := r.resolveLocation(ctx, location, spec.Format)
		if err != nil {
			return nil, err
		}
		absLocation = resolved
		if f != nil {
			file = f
		} else {
			input = src
		}
		// The resolver opened something that must be closed later.
		autoClose = true
	}

	if file != nil && input == nil {
		if osf, ok := file.(*os.File); ok {
			input = NewFileSource(osf)
		} else {
			input = wrapReader(file)
		}
	}

	if data != nil && input == nil {
		src, err := wrapData(data)
		if err != nil {
			return nil, err
		}
		input = src
		autoClose = true
	}

	if input == nil {
		return nil, fmt.Errorf("%w: could not create input source", ErrSourceArguments)
	}

	input.SetAutoClose(input.AutoClose() || autoClose)
	switch {
	case spec.PublicID != "":
		input.SetPublicID(spec.PublicID)
	case input.PublicID() == "":
		input.SetPublicID(absLocation)
	}
	return input, nil
}

// encodedReader is a readable handle that declares its text encoding.
type encodedReader interface {
	io.Reader
	Encoding() string
}

// wrapReader wraps an open handle into a generic source. A handle that
// declares an encoding is treated as a character stream; anything else
// as a byte stream.
func wrapReader(r io.Reader) InputSource {
	src := NewGenericSource()
	if er, ok := r.(encodedReader); ok {
		src.SetCharacterStream(r)
		src.SetEncoding(er.Encoding())
	} else {
		src.SetByteStream(r)
	}
	if f, ok := r.(*os.File); ok && f == os.Stdin {
		src.SetSystemID("file:///dev/stdin")
	} else if named, ok := r.(interface{ Name() string }); ok {
		src.SetSystemID(named.Name())
	}
	return src
}

func wrapData(data any) (InputSource, error) {
	switch d := data.(type) {
	case string:
		return NewStringSource(d), nil
	case []byte:
		return NewBytesSource(d), nil
	case map[string]any, []any:
		return NewStructuredSource(d), nil
	default:
		return nil, fmt.Errorf("%w: parse data can be a string, bytes or a structured value, not %T", ErrSourceType, data)
	}
}

// resolveLocation turns a location into either an open local file or a
// negotiated URL source, along with the absolute IRI it resolved to.
func (r *Resolver) resolveLocation(ctx context.Context, location string, format Format) (string, *URLSource, *os.File, error) {
	// An existing local path wins over IRI interpretation.
	if _, err := os.Stat(location); err == nil {
		location = fileURI(location)
	}

	uri, err := IRIToURI(location)
	if err != nil {
		return "", nil, nil, &ResolveError{Location: location, Err: err}
	}
	base := r.base
	if base == "" {
		base = cwdBase()
	}
	absolute := resolveIRI(base, uri)

	if strings.HasPrefix(absolute, "file://") {
		f, err := os.Open(pathFromFileURI(absolute))
		if err != nil {
			return "", nil, nil, &ResolveError{Location: absolute, Err: err}
		}
		return absolute, nil, f, nil
	}

	src, err := r.negotiate(ctx, absolute, format)
	if err != nil {
		return "", nil, nil, err
	}
	return absolute, src, nil, nil
}

// negotiate fetches a remote resource with content negotiation and
// wraps the response body as a URL source.
func (r *Resolver) negotiate(ctx context.Context, target string, format Format) (*URLSource, error) {
	resp, err := r.fetch(ctx, target, format)
	if err != nil {
		return nil, &ResolveError{Location: target, Err: err}
	}

	// One alternate hop only: a Link header may advertise a
	// representation matching the format hint better than the one
	// served. The second response's Link header is not consulted.
	if link := resp.Header.Get("Link"); link != "" {
		if alt, ok := bestAlternate(ParseLinkHeader(link)["alternate"], mediaTypes(format)); ok {
			served := finalURL(resp)
			altURL := resolveIRI(served, alt.Target)
			if altURL != served {
				resp.Body.Close()
				resp, err = r.fetch(ctx, altURL, format)
				if err != nil {
					return nil, &ResolveError{Location: altURL, Err: err}
				}
			}
		}
	}

	return newURLSource(resp.Body, finalURL(resp), resp.Header.Get("Content-Type")), nil
}

func finalURL(resp *http.Response) string {
	return resp.Request.URL.String()
}

// bestAlternate picks the alternate whose declared type ranks highest
// in the preference list (index 0 is best).
func bestAlternate(entries []LinkHeaderEntry, types []string) (LinkHeaderEntry, bool) {
	for _, mediaType := range types {
		for _, entry := range entries {
			if entry.Type == mediaType && entry.Target != "" {
				return entry, true
			}
		}
	}
	return LinkHeaderEntry{}, false
}

// fetch issues a single negotiated GET. Redirects other than 308 are
// left to the HTTP client; 308 Permanent Redirect is re-issued against
// the Location target here, since not every client configuration
// follows it.
func (r *Resolver) fetch(ctx context.Context, target string, format Format) (*http.Response, error) {
	current := target
	for hop := 0; ; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return nil, err
		}
		req.Header = negotiationHeaders(format, r.userAgent)

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusPermanentRedirect {
			location := resp.Header.Get("Location")
			resp.Body.Close()
			if location == "" {
				return nil, &HTTPError{URL: current, StatusCode: resp.StatusCode, Status: resp.Status}
			}
			if hop >= maxRedirectHops {
				return nil, fmt.Errorf("rdf: stopped after %d redirects fetching %s", maxRedirectHops, target)
			}
			current = resolveIRI(current, location)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &HTTPError{URL: current, StatusCode: resp.StatusCode, Status: resp.Status}
		}
		return resp, nil
	}
}

// negotiationHeaders returns a fresh header map per request; there is
// no shared template to mutate.
func negotiationHeaders(format Format, userAgent string) http.Header {
	h := make(http.Header)
	h.Set("User-Agent", userAgent)
	h.Set("Accept", acceptHeader(format))
	return h
}
