// Package template implements the request template language used by
// resolver directives: literal text interleaved with {{path.to.value}}
// placeholders. Templates are immutable once parsed; a template built only
// from literal segments re-serializes to its original text.
package template

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Segment is one element of a template: either literal text or a dotted
// expression path. Exactly one of the two is meaningful; Expr is non-empty
// for expression segments.
type Segment struct {
	Literal string   `json:"literal,omitempty"`
	Expr    []string `json:"expr,omitempty"`
}

func (s Segment) IsExpr() bool { return len(s.Expr) > 0 }

func (s Segment) String() string {
	if s.IsExpr() {
		return "{{" + strings.Join(s.Expr, ".") + "}}"
	}
	return s.Literal
}

// Template is an ordered segment sequence.
type Template struct {
	segments []Segment
}

// Literal returns a template holding s as plain text.
func Literal(s string) Template {
	if s == "" {
		return Template{}
	}
	return Template{segments: []Segment{{Literal: s}}}
}

// FromSegments builds a template from an explicit segment list.
func FromSegments(segments []Segment) Template {
	return Template{segments: segments}
}

func (t Template) Segments() []Segment { return t.segments }

// IsLiteral reports whether the template contains no expression segments.
func (t Template) IsLiteral() bool {
	for _, s := range t.segments {
		if s.IsExpr() {
			return false
		}
	}
	return true
}

func (t Template) String() string {
	var b strings.Builder
	for _, s := range t.segments {
		b.WriteString(s.String())
	}
	return b.String()
}

// MarshalJSON encodes the template as its source text.
func (t Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON parses the template from its source text.
func (t *Template) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Parse partitions s into literal runs and {{ dotted.path }} expressions.
// Whitespace inside the braces is ignored; every path segment must be a
// non-empty identifier.
func Parse(s string) (Template, error) {
	var segments []Segment
	rest := s
	for len(rest) > 0 {
		open := strings.Index(rest, "{{")
		if open < 0 {
			segments = append(segments, Segment{Literal: rest})
			break
		}
		if open > 0 {
			segments = append(segments, Segment{Literal: rest[:open]})
		}
		closing := strings.Index(rest[open:], "}}")
		if closing < 0 {
			return Template{}, fmt.Errorf("template: unclosed expression at %q", rest[open:])
		}
		inner := rest[open+2 : open+closing]
		path, err := parsePath(inner)
		if err != nil {
			return Template{}, err
		}
		segments = append(segments, Segment{Expr: path})
		rest = rest[open+closing+2:]
	}
	return Template{segments: segments}, nil
}

func parsePath(inner string) ([]string, error) {
	raw := strings.TrimSpace(inner)
	if raw == "" {
		return nil, fmt.Errorf("template: empty expression")
	}
	parts := strings.Split(raw, ".")
	path := make([]string, len(parts))
	for i, p := range parts {
		if !isIdent(p) {
			return nil, fmt.Errorf("template: invalid path segment %q in {{%s}}", p, raw)
		}
		path[i] = p
	}
	return path, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
