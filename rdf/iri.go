package rdf

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// IRIToURI converts an internationalized resource identifier into a
// strictly valid URI: the host is IDNA-encoded, the path and fragment
// are percent-encoded, and the scheme is left untouched.
//
// The query component is deliberately passed through verbatim. Strict
// re-encoding would turn "?_format=text/turtle" into
// "?_format%3Dtext/turtle", which breaks content negotiation against
// servers that key on literal "=" and "&".
//
// An IRI ending in a bare "#" keeps it: an empty fragment is elided by
// standard component joining, and dropping it changes the identifier.
func IRIToURI(iri string) (string, error) {
	p := splitIRI(iri)

	authority := p.authority
	if p.hasAuthority {
		encoded, err := encodeAuthority(p.authority)
		if err != nil {
			return "", err
		}
		authority = encoded
	}

	uri := joinURI(iriParts{
		scheme:       p.scheme,
		authority:    authority,
		hasAuthority: p.hasAuthority,
		path:         pctEncode(p.path, "/"),
		query:        p.query,
		hasQuery:     p.hasQuery,
		fragment:     pctEncode(p.fragment, "/?"),
		hasFragment:  p.hasFragment,
	})

	// Restore an empty fragment elided by joining.
	if strings.HasSuffix(iri, "#") && !strings.HasSuffix(uri, "#") {
		uri += "#"
	}
	return uri, nil
}

// iriParts holds the five generic URI components. The has* flags keep
// "present but empty" distinct from "absent".
type iriParts struct {
	scheme       string
	authority    string
	hasAuthority bool
	path         string
	query        string
	hasQuery     bool
	fragment     string
	hasFragment  bool
}

func splitIRI(iri string) iriParts {
	var p iriParts
	rest := iri
	if i := strings.Index(rest, "#"); i >= 0 {
		p.fragment = rest[i+1:]
		p.hasFragment = true
		rest = rest[:i]
	}
	if i := strings.Index(rest, "?"); i >= 0 {
		p.query = rest[i+1:]
		p.hasQuery = true
		rest = rest[:i]
	}
	if i := strings.Index(rest, ":"); i > 0 && isScheme(rest[:i]) {
		// A colon inside the first path segment is not a scheme delimiter.
		if slash := strings.Index(rest, "/"); slash < 0 || i < slash {
			p.scheme = rest[:i]
			rest = rest[i+1:]
		}
	}
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			p.authority, rest = rest[:i], rest[i:]
		} else {
			p.authority, rest = rest, ""
		}
		p.hasAuthority = true
	}
	p.path = rest
	return p
}

func joinURI(p iriParts) string {
	var b strings.Builder
	if p.scheme != "" {
		b.WriteString(p.scheme)
		b.WriteByte(':')
	}
	if p.hasAuthority {
		b.WriteString("//")
		b.WriteString(p.authority)
	}
	b.WriteString(p.path)
	if p.hasQuery && p.query != "" {
		b.WriteByte('?')
		b.WriteString(p.query)
	}
	if p.hasFragment && p.fragment != "" {
		b.WriteByte('#')
		b.WriteString(p.fragment)
	}
	return b.String()
}

func isScheme(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// encodeAuthority IDNA-encodes the host of an authority component,
// preserving userinfo and port. All-ASCII hosts pass through unchanged.
func encodeAuthority(authority string) (string, error) {
	userinfo := ""
	host := authority
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		userinfo = authority[:i+1]
		host = authority[i+1:]
	}

	port := ""
	if strings.HasPrefix(host, "[") {
		// Bracketed IP literals carry no IDNA labels.
		return authority, nil
	}
	if i := strings.LastIndexByte(host, ':'); i >= 0 && allDigits(host[i+1:]) {
		port = host[i:]
		host = host[:i]
	}

	if isASCII(host) {
		return authority, nil
	}
	encoded, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%w: idna host %q: %v", ErrEncoding, host, err)
	}
	return userinfo + encoded + port, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// pctEncode percent-encodes bytes that are not valid in a URI path or
// fragment. Unreserved characters, sub-delims, ":@" and any extra-safe
// characters pass through unchanged; "%" is preserved so that inputs
// containing valid escapes round-trip.
func pctEncode(s, safe string) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURISafe(c) || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}

func isURISafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', '%',
		'!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=',
		':', '@':
		return true
	}
	return false
}

// resolveIRI resolves a relative IRI against a base IRI according to
// RFC 3986.
func resolveIRI(baseStr, relative string) string {
	baseURL, err := url.Parse(baseStr)
	if err != nil {
		return naiveJoin(baseStr, relative)
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return naiveJoin(baseStr, relative)
	}
	// An absolute reference stands on its own.
	if relURL.Scheme != "" {
		return relative
	}
	return baseURL.ResolveReference(relURL).String()
}

// naiveJoin is the fallback when either side fails strict URL parsing.
func naiveJoin(baseStr, relative string) string {
	if strings.HasSuffix(baseStr, "/") {
		return baseStr + relative
	}
	if i := strings.LastIndexByte(baseStr, '/'); i >= 0 {
		return baseStr[:i+1] + relative
	}
	return baseStr + "/" + relative
}
