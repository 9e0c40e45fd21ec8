package rdf

import "strings"

// LinkHeaderEntry is one alternate-representation entry from an HTTP
// Link header.
type LinkHeaderEntry struct {
	// Target is the bracketed link target IRI.
	Target string
	// Rel is the relation type; empty when the entry carries none.
	Rel string
	// Type is the declared media type, if any.
	Type string
	// Params holds the remaining parameters.
	Params map[string]string
}

// ParseLinkHeader parses an HTTP Link header into entries grouped by
// relation value. Every value is a list, even for a single entry, and
// entries sharing a rel accumulate in header order. Entries without a
// bracketed target are skipped: this is a best-effort parser for an
// advisory header, not a validator.
func ParseLinkHeader(header string) map[string][]LinkHeaderEntry {
	links := make(map[string][]LinkHeaderEntry)
	for _, raw := range splitLinkEntries(header) {
		entry, ok := parseLinkEntry(raw)
		if !ok {
			continue
		}
		links[entry.Rel] = append(links[entry.Rel], entry)
	}
	return links
}

// splitLinkEntries splits on commas that sit outside angle brackets and
// quoted strings.
func splitLinkEntries(header string) []string {
	var entries []string
	var inBrackets, inQuotes bool
	start := 0
	for i := 0; i < len(header); i++ {
		switch header[i] {
		case '<':
			if !inQuotes {
				inBrackets = true
			}
		case '>':
			if !inQuotes {
				inBrackets = false
			}
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inBrackets && !inQuotes {
				entries = append(entries, header[start:i])
				start = i + 1
			}
		}
	}
	entries = append(entries, header[start:])
	return entries
}

func parseLinkEntry(raw string) (LinkHeaderEntry, bool) {
	raw = strings.TrimSpace(raw)
	open := strings.IndexByte(raw, '<')
	close_ := strings.IndexByte(raw, '>')
	if open < 0 || close_ < open {
		return LinkHeaderEntry{}, false
	}

	entry := LinkHeaderEntry{
		Target: strings.TrimSpace(raw[open+1 : close_]),
		Params: make(map[string]string),
	}

	for _, param := range splitLinkParams(raw[close_+1:]) {
		key, value, found := strings.Cut(param, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"`)
		switch key {
		case "rel":
			entry.Rel = value
		case "type":
			entry.Type = value
		case "":
		default:
			entry.Params[key] = value
		}
	}
	return entry, true
}

// splitLinkParams splits a semicolon-separated parameter list, keeping
// semicolons inside quoted values intact.
func splitLinkParams(raw string) []string {
	var params []string
	var inQuotes bool
	start := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				if p := strings.TrimSpace(raw[start:i]); p != "" {
					params = append(params, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(raw[start:]); p != "" {
		params = append(params, p)
	}
	return params
}
