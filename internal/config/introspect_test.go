package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gqlgate/gqlgate/internal/introspection"
)

func TestResolveIntrospection(t *testing.T) {
	var fetched []string
	fetcher := introspection.FetcherFunc(func(ctx context.Context, baseURL string) (*introspection.Result, error) {
		fetched = append(fetched, baseURL)
		return &introspection.Result{QueryType: "Query"}, nil
	})

	doc := parse(t, `
schema { query: Query }
type Query {
  users: [User] @graphql(name: "users", baseURL: "http://a.example.com")
  posts: [Post] @graphql(name: "posts", baseURL: "http://a.example.com")
  news: [Post] @graphql(name: "news", baseURL: "http://b.example.com")
}
type User { id: Int }
type Post { id: Int }
`)
	cfg, err := FromDocument(doc).ToResult()
	require.NoError(t, err)

	cache := introspection.NewCache(fetcher, nil)
	_, err = cfg.ResolveIntrospection(context.Background(), cache).ToResult()
	require.NoError(t, err)

	// One fetch per distinct base URL, every field annotated.
	require.Len(t, fetched, 2)
	require.NotNil(t, cfg.Types["Query"].Fields["users"].GraphQL.Introspection)
	require.NotNil(t, cfg.Types["Query"].Fields["news"].GraphQL.Introspection)
}

func TestResolveIntrospectionMissingBaseURL(t *testing.T) {
	doc := parse(t, `
schema { query: Query }
type Query {
  users: [User] @graphql(name: "users")
}
type User { id: Int }
`)
	cfg, err := FromDocument(doc).ToResult()
	require.NoError(t, err)

	fetcher := introspection.FetcherFunc(func(ctx context.Context, baseURL string) (*introspection.Result, error) {
		t.Fatal("fetch should not run without a base url")
		return nil, nil
	})

	r := cfg.ResolveIntrospection(context.Background(), introspection.NewCache(fetcher, nil))
	require.True(t, r.IsFail())
	require.Equal(t, "No base url found for graphql directive", r.Errors()[0].Message)
	require.Equal(t, []string{"introspection", "Query", "users"}, r.Errors()[0].Trace)
}
