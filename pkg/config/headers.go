package config

import "strings"

// Header is a single request-metadata pair.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered collection of request-metadata pairs. Names compare
// case-insensitively; setting an existing name replaces its value in place
// rather than appending a duplicate.
type Headers struct {
	pairs []Header
}

// Set stores a pair, replacing any existing pair with the same name.
func (h *Headers) Set(name, value string) {
	for idx, pair := range h.pairs {
		if strings.EqualFold(pair.Name, name) {
			h.pairs[idx].Value = value

			return
		}
	}

	h.pairs = append(h.pairs, Header{Name: name, Value: value})
}

// Get returns the value for a name, if present.
func (h Headers) Get(name string) (string, bool) {
	for _, pair := range h.pairs {
		if strings.EqualFold(pair.Name, name) {
			return pair.Value, true
		}
	}

	return "", false
}

// Len reports the number of stored pairs.
func (h Headers) Len() int {
	return len(h.pairs)
}

// All returns a copy of the pairs in insertion order.
func (h Headers) All() []Header {
	out := make([]Header, len(h.pairs))
	copy(out, h.pairs)

	return out
}

// ParseHeaders parses a comma or semicolon delimited list of key=value
// pairs. Any malformed pair invalidates the whole value so that resolution
// falls through to the next candidate.
func ParseHeaders(raw string) (Headers, bool) {
	entries := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})

	var headers Headers

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, value, found := strings.Cut(entry, "=")
		if !found {
			return Headers{}, false
		}

		name = strings.TrimSpace(name)
		if name == "" {
			return Headers{}, false
		}

		headers.Set(name, strings.TrimSpace(value))
	}

	if headers.Len() == 0 {
		return Headers{}, false
	}

	return headers, true
}
