// Package introspection fetches and caches foreign GraphQL schema
// descriptions. The compiler consumes upstream schemas only through the
// cached Result type; fetching happens at most once per base URL per cache.
package introspection

import (
	"context"
)

// Result is the cached description of a foreign endpoint's schema.
type Result struct {
	QueryType    string                 `json:"queryType,omitempty"`
	MutationType string                 `json:"mutationType,omitempty"`
	Types        map[string]*RemoteType `json:"types,omitempty"`
}

type RemoteType struct {
	Name   string                  `json:"name"`
	Kind   string                  `json:"kind,omitempty"`
	Fields map[string]*RemoteField `json:"fields,omitempty"`
}

type RemoteField struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Field looks up a field on the remote query root type.
func (r *Result) Field(name string) *RemoteField {
	if r == nil || r.QueryType == "" {
		return nil
	}
	t := r.Types[r.QueryType]
	if t == nil {
		return nil
	}
	return t.Fields[name]
}

// Fetcher retrieves the introspection result for one endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, baseURL string) (*Result, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, baseURL string) (*Result, error)

func (f FetcherFunc) Fetch(ctx context.Context, baseURL string) (*Result, error) {
	return f(ctx, baseURL)
}
