package config

import (
	"context"

	"github.com/gqlgate/gqlgate/internal/introspection"
	"github.com/gqlgate/gqlgate/internal/valid"
)

// ResolveIntrospection attaches the upstream schema description to every
// @graphql field, fetching through cache so each distinct base URL is
// fetched at most once. Any fetch failure aborts the whole compile; the
// blueprint never sees partial introspection data.
func (c *Config) ResolveIntrospection(ctx context.Context, cache *introspection.Cache) valid.Valid[*Config] {
	for _, typeName := range c.TypeNames() {
		t := c.Types[typeName]
		for _, fieldName := range t.FieldNames() {
			field := t.Fields[fieldName]
			if field.GraphQL == nil {
				continue
			}
			baseURL := field.GraphQL.BaseURL
			if baseURL == "" {
				baseURL = c.Upstream.BaseURL
			}
			if baseURL == "" {
				return valid.Fail[*Config]("No base url found for graphql directive").
					Trace(fieldName).Trace(typeName).Trace("introspection")
			}
			result, err := cache.Resolve(ctx, baseURL)
			if err != nil {
				return valid.Fail[*Config](err.Error()).
					Trace(fieldName).Trace(typeName).Trace("introspection")
			}
			field.GraphQL.Introspection = result
		}
	}
	return valid.Succeed(c)
}
