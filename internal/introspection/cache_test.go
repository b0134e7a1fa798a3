package introspection_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gqlgate/gqlgate/internal/introspection"
)

type countingFetcher struct {
	calls map[string]int
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, baseURL string) (*introspection.Result, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[baseURL]++
	if f.err != nil {
		return nil, f.err
	}
	return &introspection.Result{QueryType: "Query"}, nil
}

func TestCacheFetchesOncePerURL(t *testing.T) {
	f := &countingFetcher{}
	cache := introspection.NewCache(f, nil)
	ctx := context.Background()

	a1, err := cache.Resolve(ctx, "http://a.example/graphql")
	require.NoError(t, err)
	a2, err := cache.Resolve(ctx, "http://a.example/graphql")
	require.NoError(t, err)
	_, err = cache.Resolve(ctx, "http://b.example/graphql")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.Equal(t, 1, f.calls["http://a.example/graphql"])
	assert.Equal(t, 1, f.calls["http://b.example/graphql"])
}

func TestCacheSeed(t *testing.T) {
	f := &countingFetcher{}
	seeded := &introspection.Result{QueryType: "Root"}
	cache := introspection.NewCache(f, map[string]*introspection.Result{
		"http://a.example/graphql": seeded,
	})

	got, err := cache.Resolve(context.Background(), "http://a.example/graphql")
	require.NoError(t, err)
	assert.Same(t, seeded, got)
	assert.Empty(t, f.calls)
}

func TestCacheFetchErrorNotCached(t *testing.T) {
	f := &countingFetcher{err: errors.New("connection refused")}
	cache := introspection.NewCache(f, nil)

	_, err := cache.Resolve(context.Background(), "http://a.example/graphql")
	require.Error(t, err)

	f.err = nil
	_, err = cache.Resolve(context.Background(), "http://a.example/graphql")
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls["http://a.example/graphql"])
}

func TestSnapshotSeedsNextCompile(t *testing.T) {
	f := &countingFetcher{}
	cache := introspection.NewCache(f, nil)
	_, err := cache.Resolve(context.Background(), "http://a.example/graphql")
	require.NoError(t, err)

	next := introspection.NewCache(&countingFetcher{err: errors.New("should not fetch")}, cache.Snapshot())
	_, err = next.Resolve(context.Background(), "http://a.example/graphql")
	require.NoError(t, err)
}

func TestParseResponse(t *testing.T) {
	data := []byte(`{
	  "data": {"__schema": {
	    "queryType": {"name": "Query"},
	    "mutationType": null,
	    "types": [
	      {"kind": "OBJECT", "name": "Query", "fields": [
	        {"name": "post", "type": {"name": null, "kind": "NON_NULL", "ofType": {"name": "Post", "kind": "OBJECT"}}},
	        {"name": "posts", "type": {"name": null, "kind": "LIST", "ofType": {"name": null, "kind": "NON_NULL", "ofType": {"name": "Post", "kind": "OBJECT"}}}}
	      ]},
	      {"kind": "OBJECT", "name": "Post", "fields": [
	        {"name": "id", "type": {"name": "ID", "kind": "SCALAR"}}
	      ]}
	    ]
	  }}
	}`)

	result, err := introspection.ParseResponse(data)
	require.NoError(t, err)
	assert.Equal(t, "Query", result.QueryType)
	assert.Empty(t, result.MutationType)

	post := result.Field("post")
	require.NotNil(t, post)
	assert.Equal(t, "Post", post.Type)
	posts := result.Field("posts")
	require.NotNil(t, posts)
	assert.Equal(t, "Post", posts.Type)
	assert.Nil(t, result.Field("missing"))
}

func TestParseResponseErrors(t *testing.T) {
	_, err := introspection.ParseResponse([]byte("not json"))
	assert.Error(t, err)

	_, err = introspection.ParseResponse([]byte(`{"data": {}}`))
	assert.Error(t, err)

	_, err = introspection.ParseResponse([]byte(`{"errors": [{"message": "denied"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}
