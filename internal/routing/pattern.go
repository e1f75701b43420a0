package routing

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var paramNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type segment struct {
	value   string
	isParam bool
}

// pattern is a compiled route path
type pattern struct {
	raw      string
	segments []segment
	params   []string
}

func compilePattern(raw string) (pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return pattern{}, fmt.Errorf("path %q must start with \"/\"", raw)
	}
	if strings.ContainsAny(raw, "?#") {
		return pattern{}, fmt.Errorf("path %q must not contain a query or fragment", raw)
	}

	p := pattern{raw: raw}
	seen := make(map[string]bool)
	for _, part := range splitPath(raw) {
		if part == "" {
			return pattern{}, fmt.Errorf("path %q has an empty segment", raw)
		}
		if !strings.HasPrefix(part, ":") {
			p.segments = append(p.segments, segment{value: part})
			continue
		}
		name := part[1:]
		if !paramNamePattern.MatchString(name) {
			return pattern{}, fmt.Errorf("path %q has invalid parameter %q", raw, part)
		}
		if seen[name] {
			return pattern{}, fmt.Errorf("path %q repeats parameter %q", raw, name)
		}
		seen[name] = true
		p.segments = append(p.segments, segment{value: name, isParam: true})
		p.params = append(p.params, name)
	}
	return p, nil
}

// match reports whether the normalized path matches and returns captured params
func (p pattern) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(p.segments) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range p.segments {
		if !seg.isParam {
			if parts[i] != seg.value {
				return nil, false
			}
			continue
		}
		if parts[i] == "" {
			return nil, false
		}
		value, err := url.PathUnescape(parts[i])
		if err != nil {
			value = parts[i]
		}
		if params == nil {
			params = make(map[string]string, len(p.params))
		}
		params[seg.value] = value
	}
	return params, true
}

// build fills in params to produce a concrete path
func (p pattern) build(params map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		if !seg.isParam {
			b.WriteString(seg.value)
			continue
		}
		value, ok := params[seg.value]
		if !ok || value == "" {
			return "", fmt.Errorf("path %q: missing parameter %q", p.raw, seg.value)
		}
		b.WriteString(url.PathEscape(value))
	}
	return b.String(), nil
}

// NormalizePath splits a raw location into a clean path and its query.
// "" and "?x=1" resolve to the root path
func NormalizePath(raw string) (string, url.Values) {
	var query url.Values
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		query, _ = url.ParseQuery(raw[i+1:])
		raw = raw[:i]
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return path.Clean(raw), query
}

func splitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
