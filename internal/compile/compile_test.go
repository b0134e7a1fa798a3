package compile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gqlgate/gqlgate/internal/eventbus"
	"github.com/gqlgate/gqlgate/internal/events"
	"github.com/gqlgate/gqlgate/internal/valid"
)

const sdl = `
schema @upstream(baseURL: "https://api.example.com") { query: Query }
type Query {
  post(id: Int!): Post @http(url: "/posts/{{args.id}}")
}
type Post { id: Int! title: String }
`

func TestSourceSDL(t *testing.T) {
	bp, err := Source(context.Background(), "schema.graphql", sdl, Options{})
	require.NoError(t, err)
	require.NotNil(t, bp.Resolver("Query", "post"))
}

func TestSourceYAML(t *testing.T) {
	bp, err := Source(context.Background(), "schema.yaml", `
upstream:
  baseURL: https://api.example.com
schema:
  query: Query
types:
  Query:
    fields:
      post:
        type: Post
        http: {url: /posts/1}
  Post:
    fields:
      id: {type: Int, required: true}
`, Options{})
	require.NoError(t, err)
	require.NotNil(t, bp.Resolver("Query", "post"))
}

func TestSourceReportsAllDefects(t *testing.T) {
	_, err := Source(context.Background(), "schema.graphql", `
schema { query: Query }
type Query {
  a: Int @http(url: "/a")
  b: Int @http(url: "/b")
}
`, Options{})
	require.Error(t, err)

	var verr valid.Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr, 2)
}

func TestSourcePublishesLifecycleEvents(t *testing.T) {
	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)

	var started, finished []string
	var finishErrors int
	cancelStart := eventbus.Subscribe(func(ctx context.Context, e events.CompileStart) {
		started = append(started, e.Source)
	})
	defer cancelStart()
	cancelFinish := eventbus.Subscribe(func(ctx context.Context, e events.CompileFinish) {
		finished = append(finished, e.Source)
		finishErrors = e.Errors
	})
	defer cancelFinish()

	_, err := Source(context.Background(), "schema.graphql", sdl, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"schema.graphql"}, started)
	require.Equal(t, []string{"schema.graphql"}, finished)
	require.Zero(t, finishErrors)
}

func TestSourceParseError(t *testing.T) {
	_, err := Source(context.Background(), "schema.graphql", "type {", Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "schema.graphql")
}
